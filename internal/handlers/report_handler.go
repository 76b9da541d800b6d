package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"inmocrm/internal/models"
	"inmocrm/internal/services"
)

type ReportHandler struct {
	Service *services.ReportService
	Users   *services.UserService
}

func NewReportHandler(service *services.ReportService, users *services.UserService) *ReportHandler {
	return &ReportHandler{Service: service, Users: users}
}

// @Summary      Pipeline summary
// @Description  Funnel counts per stage for leads, lots and reservations
// @Tags         Reports
// @Produce      json
// @Success      200  {object}  services.PipelineSummary
// @Router       /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	summary, err := h.Service.Summary()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary      List reservations
// @Description  Reservations inside the caller's visibility scope, with optional filters
// @Tags         Reports
// @Produce      json
// @Param        status    query  string  false  "Filter by status"
// @Param        currency  query  string  false  "Filter by currency"
// @Param        from      query  string  false  "Reserved from (RFC 3339)"
// @Param        to        query  string  false  "Reserved until (RFC 3339)"
// @Success      200  {array}  models.Reservation
// @Router       /reports/reservations [get]
func (h *ReportHandler) Reservations(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	limit, offset := pagination(c)

	scope, err := h.Users.ScopeFor(userID, roleID)
	if err != nil {
		respondError(c, err)
		return
	}

	var f models.ReservationFilter
	if s := c.Query("status"); s != "" {
		status := models.ReservationStatus(s)
		f.Status = &status
	}
	if s := c.Query("currency"); s != "" {
		currency := models.Currency(s)
		f.Currency = &currency
	}
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return
		}
		f.From = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
			return
		}
		f.To = &t
	}

	reservations, err := h.Service.Reservations(scope, f, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservations)
}
