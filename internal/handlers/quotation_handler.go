package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"inmocrm/internal/authz"
	"inmocrm/internal/services"
)

type QuotationHandler struct {
	Service *services.QuotationService
}

func NewQuotationHandler(service *services.QuotationService) *QuotationHandler {
	return &QuotationHandler{Service: service}
}

// @Summary      Quote a lot for a lead
// @Description  Prices a lot, snapshots the exchange rate and moves the lot to quoted
// @Tags         Quotations
// @Accept       json
// @Produce      json
// @Param        quotation  body      services.CreateQuotationInput  true  "Quotation data"
// @Success      201        {object}  models.Quotation
// @Failure      400        {object}  map[string]string
// @Failure      422        {object}  map[string]string
// @Router       /quotations [post]
func (h *QuotationHandler) Create(c *gin.Context) {
	_, roleID := getUserAndRole(c)
	if authz.IsReadOnly(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "read-only role"})
		return
	}

	var in services.CreateQuotationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	q, err := h.Service.Create(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

func (h *QuotationHandler) GetByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	q, err := h.Service.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *QuotationHandler) ListByLead(c *gin.Context) {
	leadID, err := strconv.ParseInt(c.Query("lead_id"), 10, 64)
	if err != nil || leadID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead_id"})
		return
	}

	quotes, err := h.Service.ListByLead(leadID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotes)
}
