package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"inmocrm/internal/authz"
	"inmocrm/internal/models"
	"inmocrm/internal/services"
)

type LotHandler struct {
	Service *services.LotService
}

func NewLotHandler(service *services.LotService) *LotHandler {
	return &LotHandler{Service: service}
}

// @Summary      Register a lot
// @Tags         Lots
// @Accept       json
// @Produce      json
// @Param        lot  body      services.CreateLotInput  true  "Lot data"
// @Success      201  {object}  models.Lot
// @Failure      400  {object}  map[string]string
// @Router       /lots [post]
func (h *LotHandler) Create(c *gin.Context) {
	_, roleID := getUserAndRole(c)
	if !authz.IsElevated(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var in services.CreateLotInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lot, err := h.Service.Create(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lot)
}

type changeLotStatusRequest struct {
	Status models.LotStatus `json:"status" binding:"required"`
}

// @Summary      Change lot status
// @Description  Applies a transition from the lot compatibility table
// @Tags         Lots
// @Accept       json
// @Produce      json
// @Param        id    path      int                     true  "Lot ID"
// @Param        body  body      changeLotStatusRequest  true  "New status"
// @Success      200   {object}  models.Lot
// @Failure      422   {object}  map[string]string
// @Router       /lots/{id}/status [put]
func (h *LotHandler) ChangeStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	_, roleID := getUserAndRole(c)
	if authz.IsReadOnly(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "read-only role"})
		return
	}

	var req changeLotStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lot, err := h.Service.ChangeStatus(id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lot)
}

func (h *LotHandler) GetByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	lot, err := h.Service.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if lot == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lot not found"})
		return
	}
	c.JSON(http.StatusOK, lot)
}

func (h *LotHandler) ListByBlock(c *gin.Context) {
	blockID, err := strconv.ParseInt(c.Query("block_id"), 10, 64)
	if err != nil || blockID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid block_id"})
		return
	}
	limit, offset := pagination(c)

	lots, err := h.Service.ListByBlock(blockID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lots)
}

func (h *LotHandler) Deactivate(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	_, roleID := getUserAndRole(c)
	if !authz.IsElevated(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	if err := h.Service.Deactivate(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
