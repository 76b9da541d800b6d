package app

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "inmocrm/docs"
	"inmocrm/internal/config"
	"inmocrm/internal/handlers"
	"inmocrm/internal/pdf"
	"inmocrm/internal/repositories"
	"inmocrm/internal/routes"
	"inmocrm/internal/services"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	store := repositories.NewStore(db)

	// === Services ===
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	var notifier services.Notifier
	if cfg.Telegram.Enabled {
		tn, err := services.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.OpsChatID)
		if err != nil {
			log.Printf("telegram notifier disabled: %v", err)
		} else {
			notifier = tn
		}
	}

	authService := services.NewAuthService(store.Users, cfg.JWT.Secret)
	userService := services.NewUserService(store.Users, authService, emailService)
	clientService := services.NewClientService(store.Clients)
	projectService := services.NewProjectService(store.Projects, store.Blocks)
	lotService := services.NewLotService(store.Lots, store.Blocks, store.Projects)
	leadService := services.NewLeadService(store.Leads, store.Clients, notifier)
	quotationService := services.NewQuotationService(store)
	reservationService := services.NewReservationService(store, emailService, notifier)
	taskService := services.NewTaskService(store.Tasks)
	reportService := services.NewReportService(store.Leads, store.Lots, store.Reservations)

	// PDF generator (needs a TTF with Latin accents)
	pdfGen := pdf.NewDocumentGenerator(cfg.Files.RootDir, "assets/fonts/DejaVuSans.ttf")

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	clientHandler := handlers.NewClientHandler(clientService)
	projectHandler := handlers.NewProjectHandler(projectService)
	lotHandler := handlers.NewLotHandler(lotService)
	leadHandler := handlers.NewLeadHandler(leadService, userService)
	quotationHandler := handlers.NewQuotationHandler(quotationService)
	reservationHandler := handlers.NewReservationHandler(reservationService)
	documentHandler := handlers.NewDocumentHandler(reservationService, pdfGen, cfg.Files.RootDir)
	taskHandler := handlers.NewTaskHandler(taskService)
	reportHandler := handlers.NewReportHandler(reportService, userService)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		[]byte(cfg.JWT.Secret),
		authHandler,
		userHandler,
		clientHandler,
		projectHandler,
		lotHandler,
		leadHandler,
		quotationHandler,
		reservationHandler,
		documentHandler,
		taskHandler,
		reportHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server failed: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
