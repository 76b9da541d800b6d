package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inmocrm/internal/authz"
	"inmocrm/internal/services"
)

type ClientHandler struct {
	Service *services.ClientService
}

func NewClientHandler(service *services.ClientService) *ClientHandler {
	return &ClientHandler{Service: service}
}

// @Summary      Register or refresh a client
// @Description  Returns the existing client for the document number or creates a new one
// @Tags         Clients
// @Accept       json
// @Produce      json
// @Param        client  body      services.UpsertClientInput  true  "Client data"
// @Success      200     {object}  models.Client
// @Failure      400     {object}  map[string]string
// @Router       /clients [post]
func (h *ClientHandler) Upsert(c *gin.Context) {
	_, roleID := getUserAndRole(c)
	if authz.IsReadOnly(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "read-only role"})
		return
	}

	var in services.UpsertClientInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.Service.GetOrCreateByDocument(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	_, roleID := getUserAndRole(c)
	if authz.IsReadOnly(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "read-only role"})
		return
	}

	var in services.UpsertClientInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.Service.Update(id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) GetByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	client, err := h.Service.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"client": client,
		// placeholder code for clients captured before lead intake
		"pseudo_code": services.ClientPseudoCode(client),
	})
}

func (h *ClientHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	if name := c.Query("name"); name != "" {
		clients, err := h.Service.Search(name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, clients)
		return
	}

	clients, err := h.Service.List(limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}
