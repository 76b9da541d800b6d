package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inmocrm/internal/authz"
	"inmocrm/internal/models"
	"inmocrm/internal/services"
)

type LeadHandler struct {
	Service *services.LeadService
	Users   *services.UserService
}

func NewLeadHandler(service *services.LeadService, users *services.UserService) *LeadHandler {
	return &LeadHandler{Service: service, Users: users}
}

// @Summary      Capture a lead
// @Description  Registers a prospect, assigns the next lead code and opens the attention window
// @Tags         Leads
// @Accept       json
// @Produce      json
// @Param        lead  body      services.CreateLeadInput  true  "Lead data"
// @Success      201   {object}  models.Lead
// @Failure      400   {object}  map[string]string
// @Router       /leads [post]
func (h *LeadHandler) Create(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	if authz.IsReadOnly(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "read-only role"})
		return
	}

	var in services.CreateLeadInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Advisors always capture for themselves.
	if !authz.IsElevated(roleID) {
		in.AdvisorID = &userID
	}

	lead, err := h.Service.Create(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lead)
}

type changeLeadStatusRequest struct {
	Status models.LeadStatus        `json:"status" binding:"required"`
	Reason *models.CompletionReason `json:"reason,omitempty"`
	Note   string                   `json:"note,omitempty"`
}

// @Summary      Change lead status
// @Tags         Leads
// @Accept       json
// @Produce      json
// @Param        id    path      int                      true  "Lead ID"
// @Param        body  body      changeLeadStatusRequest  true  "New status"
// @Success      200   {object}  models.Lead
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /leads/{id}/status [put]
func (h *LeadHandler) ChangeStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	_, roleID := getUserAndRole(c)
	if authz.IsReadOnly(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "read-only role"})
		return
	}

	var req changeLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead, err := h.Service.ChangeStatus(id, req.Status, req.Reason, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// @Summary      Recycle a lead
// @Description  Puts an expired or canceled lead back into the pipeline with a fresh window
// @Tags         Leads
// @Produce      json
// @Param        id  path      int  true  "Lead ID"
// @Success      200  {object}  models.Lead
// @Failure      404  {object}  map[string]string
// @Router       /leads/{id}/recycle [post]
func (h *LeadHandler) Recycle(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	userID, roleID := getUserAndRole(c)
	if authz.IsReadOnly(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "read-only role"})
		return
	}

	lead, err := h.Service.Recycle(id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// @Summary      Run the expiration sweep
// @Description  Expires every active lead whose attention window has closed
// @Tags         Leads
// @Produce      json
// @Success      200  {object}  map[string]int64
// @Router       /leads/sweep-expired [post]
func (h *LeadHandler) Sweep(c *gin.Context) {
	_, roleID := getUserAndRole(c)
	if !authz.IsElevated(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	n, err := h.Service.SweepExpirations()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expired": n})
}

func (h *LeadHandler) GetByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	userID, roleID := getUserAndRole(c)

	lead, err := h.Service.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if lead == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return
	}

	scope, err := h.Users.ScopeFor(userID, roleID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !scope.CanSee(lead.AdvisorID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, lead)
}

// @Summary      List leads
// @Description  Lists the leads inside the caller's visibility scope
// @Tags         Leads
// @Produce      json
// @Param        status  query     string  false  "Filter by status"
// @Success      200     {array}   models.Lead
// @Router       /leads [get]
func (h *LeadHandler) List(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	limit, offset := pagination(c)

	scope, err := h.Users.ScopeFor(userID, roleID)
	if err != nil {
		respondError(c, err)
		return
	}

	var f models.LeadFilter
	if s := c.Query("status"); s != "" {
		status := models.LeadStatus(s)
		f.Status = &status
	}

	leads, err := h.Service.ListVisible(scope, f, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, leads)
}

func (h *LeadHandler) Deactivate(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	_, roleID := getUserAndRole(c)
	if authz.IsReadOnly(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "read-only role"})
		return
	}

	if err := h.Service.Deactivate(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LeadHandler) Reactivate(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	_, roleID := getUserAndRole(c)
	if authz.IsReadOnly(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "read-only role"})
		return
	}

	lead, err := h.Service.Reactivate(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}
