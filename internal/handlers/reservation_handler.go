package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"inmocrm/internal/authz"
	"inmocrm/internal/services"
)

type ReservationHandler struct {
	Service *services.ReservationService
}

func NewReservationHandler(service *services.ReservationService) *ReservationHandler {
	return &ReservationHandler{Service: service}
}

// @Summary      Open a reservation
// @Description  Reserves a quoted lot; the separation amount becomes the required total
// @Tags         Reservations
// @Accept       json
// @Produce      json
// @Param        reservation  body      services.CreateReservationInput  true  "Reservation data"
// @Success      201          {object}  models.Reservation
// @Failure      400          {object}  map[string]string
// @Failure      409          {object}  map[string]string
// @Router       /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	_, roleID := getUserAndRole(c)
	if authz.IsReadOnly(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "read-only role"})
		return
	}

	var in services.CreateReservationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.Service.Create(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// @Summary      Change reservation status
// @Description  Applies a status, folds in any payment and runs the lot cascade atomically
// @Tags         Reservations
// @Accept       json
// @Produce      json
// @Param        id    path      int                                     true  "Reservation ID"
// @Param        body  body      services.ChangeReservationStatusInput  true  "Status change"
// @Success      200   {object}  models.Reservation
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /reservations/{id}/status [put]
func (h *ReservationHandler) ChangeStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	_, roleID := getUserAndRole(c)
	if authz.IsReadOnly(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "read-only role"})
		return
	}

	var in services.ChangeReservationStatusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.Service.ChangeStatus(id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ReservationHandler) GetByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	res, err := h.Service.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Record a payment attempt
// @Description  Appends an entry to the ledger and re-derives the paid amount
// @Tags         Reservations
// @Accept       json
// @Produce      json
// @Param        id     path      int                        true  "Reservation ID"
// @Param        entry  body      services.LedgerEntryInput  true  "Payment attempt"
// @Success      201    {object}  models.LedgerEntry
// @Failure      400    {object}  map[string]string
// @Router       /reservations/{id}/ledger [post]
func (h *ReservationHandler) AddLedgerEntry(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	_, roleID := getUserAndRole(c)
	if authz.IsReadOnly(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "read-only role"})
		return
	}

	var in services.LedgerEntryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.Service.AddPaymentEntry(id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *ReservationHandler) UpdateLedgerEntry(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	entryID := c.Param("entry_id")
	if entryID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}
	_, roleID := getUserAndRole(c)
	if authz.IsReadOnly(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "read-only role"})
		return
	}

	var in services.LedgerEntryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.Service.UpdatePaymentEntry(id, entryID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *ReservationHandler) RemoveLedgerEntry(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	entryID := c.Param("entry_id")
	if entryID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}
	_, roleID := getUserAndRole(c)
	if authz.IsReadOnly(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "read-only role"})
		return
	}

	if err := h.Service.RemovePaymentEntry(id, entryID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Installment schedule
// @Tags         Reservations
// @Produce      json
// @Param        id  path      int  true  "Reservation ID"
// @Success      200  {array}   models.Payment
// @Router       /reservations/{id}/schedule [get]
func (h *ReservationHandler) Schedule(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	payments, err := h.Service.Schedule(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

type recordInstallmentRequest struct {
	Number int             `json:"number" binding:"required"`
	Amount decimal.Decimal `json:"amount"`
}

func (h *ReservationHandler) RecordInstallment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	_, roleID := getUserAndRole(c)
	if authz.IsReadOnly(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "read-only role"})
		return
	}

	var req recordInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.Service.RecordInstallment(id, req.Number, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}
