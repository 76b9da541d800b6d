package routes

import (
	"github.com/gin-gonic/gin"

	"inmocrm/internal/authz"
	"inmocrm/internal/handlers"
	"inmocrm/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	clientHandler *handlers.ClientHandler,
	projectHandler *handlers.ProjectHandler,
	lotHandler *handlers.LotHandler,
	leadHandler *handlers.LeadHandler,
	quotationHandler *handlers.QuotationHandler,
	reservationHandler *handlers.ReservationHandler,
	documentHandler *handlers.DocumentHandler,
	taskHandler *handlers.TaskHandler,
	reportHandler *handlers.ReportHandler,
) *gin.Engine {

	// ---- public
	r.POST("/login", authHandler.Login)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ---- protected
	r.Use(middleware.AuthMiddleware(jwtSecret))
	r.Use(middleware.ReadOnlyGuard())

	// USERS (admin manages, elevated lists)
	users := r.Group("/users")
	{
		users.POST("/", userHandler.Create)
		users.GET("/", userHandler.List)
		users.GET("/:id", userHandler.GetByID)
		users.DELETE("/:id", userHandler.Deactivate)
	}

	// CLIENTS
	clients := r.Group("/clients")
	{
		clients.POST("/", clientHandler.Upsert)
		clients.GET("/", clientHandler.List)
		clients.GET("/:id", clientHandler.GetByID)
		clients.PUT("/:id", clientHandler.Update)
	}

	// PROJECTS & BLOCKS (inventory setup is management territory)
	projects := r.Group("/projects",
		middleware.RequireRoles(authz.RoleManagement, authz.RoleAdmin, authz.RoleAudit),
	)
	{
		projects.POST("/", projectHandler.Create)
		projects.GET("/", projectHandler.List)
		projects.GET("/:id", projectHandler.GetByID)
	}
	blocks := r.Group("/blocks",
		middleware.RequireRoles(authz.RoleManagement, authz.RoleAdmin, authz.RoleAudit),
	)
	{
		blocks.POST("/", projectHandler.CreateBlock)
		blocks.GET("/", projectHandler.ListBlocks)
	}

	// LOTS
	lots := r.Group("/lots")
	{
		lots.POST("/", lotHandler.Create)
		lots.GET("/", lotHandler.ListByBlock)
		lots.GET("/:id", lotHandler.GetByID)
		lots.PUT("/:id/status", lotHandler.ChangeStatus)
		lots.DELETE("/:id", lotHandler.Deactivate)
	}

	// LEADS
	leads := r.Group("/leads")
	{
		leads.POST("/", leadHandler.Create)
		leads.GET("/", leadHandler.List)
		leads.GET("/:id", leadHandler.GetByID)
		leads.PUT("/:id/status", leadHandler.ChangeStatus)
		leads.POST("/:id/recycle", leadHandler.Recycle)
		leads.POST("/sweep-expired", leadHandler.Sweep)
		leads.DELETE("/:id", leadHandler.Deactivate)
		leads.POST("/:id/reactivate", leadHandler.Reactivate)
	}

	// QUOTATIONS
	quotations := r.Group("/quotations")
	{
		quotations.POST("/", quotationHandler.Create)
		quotations.GET("/", quotationHandler.ListByLead)
		quotations.GET("/:id", quotationHandler.GetByID)
	}

	// RESERVATIONS
	reservations := r.Group("/reservations")
	{
		reservations.POST("/", reservationHandler.Create)
		reservations.GET("/:id", reservationHandler.GetByID)
		reservations.PUT("/:id/status", reservationHandler.ChangeStatus)
		reservations.POST("/:id/ledger", reservationHandler.AddLedgerEntry)
		reservations.PUT("/:id/ledger/:entry_id", reservationHandler.UpdateLedgerEntry)
		reservations.DELETE("/:id/ledger/:entry_id", reservationHandler.RemoveLedgerEntry)
		reservations.GET("/:id/schedule", reservationHandler.Schedule)
		reservations.POST("/:id/installments", reservationHandler.RecordInstallment)
		reservations.GET("/:id/receipt", documentHandler.Receipt)
		reservations.GET("/:id/contract", documentHandler.Contract)
	}

	// TASKS
	tasks := r.Group("/tasks")
	{
		tasks.POST("/", taskHandler.Create)
		tasks.GET("/", taskHandler.List)
		tasks.GET("/:id", taskHandler.GetByID)
		tasks.POST("/:id/status", taskHandler.ChangeStatus)
		tasks.DELETE("/:id", taskHandler.Delete)
	}

	// REPORTS (audit/mgmt/admin)
	reports := r.Group("/reports",
		middleware.RequireRoles(authz.RoleAudit, authz.RoleManagement, authz.RoleAdmin),
	)
	{
		reports.GET("/summary", reportHandler.Summary)
		reports.GET("/reservations", reportHandler.Reservations)
	}

	return r
}
