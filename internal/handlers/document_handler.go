package handlers

import (
	"path/filepath"

	"github.com/gin-gonic/gin"

	"inmocrm/internal/pdf"
	"inmocrm/internal/services"
)

type DocumentHandler struct {
	Reservations *services.ReservationService
	Generator    pdf.Generator
	FilesRoot    string
}

func NewDocumentHandler(reservations *services.ReservationService, generator pdf.Generator, filesRoot string) *DocumentHandler {
	return &DocumentHandler{Reservations: reservations, Generator: generator, FilesRoot: filesRoot}
}

// @Summary      Payment receipt PDF
// @Tags         Documents
// @Produce      application/pdf
// @Param        id  path  int  true  "Reservation ID"
// @Success      200
// @Failure      404  {object}  map[string]string
// @Router       /reservations/{id}/receipt [get]
func (h *DocumentHandler) Receipt(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	res, client, _, _, err := h.Reservations.DocumentData(id)
	if err != nil {
		respondError(c, err)
		return
	}

	rel, err := h.Generator.GenerateReceipt(res, client)
	if err != nil {
		respondError(c, err)
		return
	}
	h.serve(c, rel)
}

// @Summary      Separation contract PDF
// @Tags         Documents
// @Produce      application/pdf
// @Param        id  path  int  true  "Reservation ID"
// @Success      200
// @Failure      404  {object}  map[string]string
// @Router       /reservations/{id}/contract [get]
func (h *DocumentHandler) Contract(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	res, client, lot, schedule, err := h.Reservations.DocumentData(id)
	if err != nil {
		respondError(c, err)
		return
	}

	rel, err := h.Generator.GenerateContract(res, client, lot, schedule)
	if err != nil {
		respondError(c, err)
		return
	}
	h.serve(c, rel)
}

func (h *DocumentHandler) serve(c *gin.Context, rel string) {
	name := filepath.Base(rel)
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Header("Content-Type", "application/pdf")
	c.File(filepath.Join(h.FilesRoot, name))
}
