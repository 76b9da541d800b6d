package pdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"inmocrm/internal/models"
)

// Generator builds the client-facing documents. Interface so handlers
// can be tested without touching the filesystem.
type Generator interface {
	GenerateReceipt(res *models.Reservation, client *models.Client) (string, error)
	GenerateContract(res *models.Reservation, client *models.Client, lot *models.Lot, schedule []*models.Payment) (string, error)
}

type DocumentGenerator struct {
	RootDir  string // storage root, e.g. "./files"
	FontPath string // path to a TTF with Latin accents
	fontName string
}

func NewDocumentGenerator(rootDir, fontPath string) *DocumentGenerator {
	return &DocumentGenerator{
		RootDir:  filepath.Clean(rootDir),
		FontPath: fontPath,
		fontName: "DejaVu",
	}
}

// GenerateReceipt renders the payment receipt of a reservation: the
// required total, the confirmed payments and the remaining balance.
func (g *DocumentGenerator) GenerateReceipt(res *models.Reservation, client *models.Client) (string, error) {
	absPath, err := g.ensureTarget(fmt.Sprintf("recibo_reserva_%d.pdf", res.ID))
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Recibo de pago — Reserva %d", res.ID), false)
	pdf.SetAuthor("InmoCRM", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	g.addUTF8Font(pdf)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "RECIBO DE PAGO", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 12)
	sub := fmt.Sprintf("Reserva N° %06d  —  %s", res.ID, res.ReservedAt.Format("02/01/2006"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	g.sectionTitle(pdf, "Cliente")
	g.kvLine(pdf, "Nombre", client.FullName)
	g.kvLine(pdf, "Documento", client.DocumentID)
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, "Estado de cuenta")
	g.kvLine(pdf, "Monto acordado", fmt.Sprintf("%s %s", res.Currency, res.TotalRequired.StringFixed(2)))
	g.kvLine(pdf, "Pagado", fmt.Sprintf("%s %s", res.Currency, res.AmountPaid.StringFixed(2)))
	g.kvLine(pdf, "Saldo pendiente", fmt.Sprintf("%s %s", res.Currency, res.RemainingAmount.StringFixed(2)))
	pdf.Ln(2)
	g.hr(pdf)

	if len(res.Ledger) > 0 {
		g.sectionTitle(pdf, "Pagos registrados")
		pdf.SetFont(g.fontName, "B", 10)
		pdf.CellFormat(30, 7, "Fecha", "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, "Monto", "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, "Medio", "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, "Estado", "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, "Referencia", "1", 1, "C", false, 0, "")
		pdf.SetFont(g.fontName, "", 10)
		for _, e := range res.Ledger {
			pdf.CellFormat(30, 6, e.Date.Format("02/01/2006"), "1", 0, "C", false, 0, "")
			pdf.CellFormat(35, 6, e.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.CellFormat(35, 6, string(e.Method), "1", 0, "C", false, 0, "")
			pdf.CellFormat(35, 6, string(e.Status), "1", 0, "C", false, 0, "")
			pdf.CellFormat(35, 6, e.Reference, "1", 1, "C", false, 0, "")
		}
	}

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return "/" + filepath.ToSlash(filepath.Base(absPath)), nil
}

// GenerateContract renders the separation contract with the installment
// schedule annex.
func (g *DocumentGenerator) GenerateContract(res *models.Reservation, client *models.Client, lot *models.Lot, schedule []*models.Payment) (string, error) {
	absPath, err := g.ensureTarget(fmt.Sprintf("contrato_reserva_%d.pdf", res.ID))
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Contrato de separación N° %d", res.ID), false)
	pdf.SetAuthor("InmoCRM", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	g.addUTF8Font(pdf)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "CONTRATO DE SEPARACIÓN", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 12)
	sub := fmt.Sprintf("N° RES-%06d  del  %s", res.ID, res.ReservedAt.Format("02/01/2006"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	g.sectionTitle(pdf, "Partes")
	g.kvLine(pdf, "La inmobiliaria", "InmoCRM S.A.C.")
	g.kvLine(pdf, "El comprador", client.FullName)
	g.kvLine(pdf, "Documento", client.DocumentID)
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, "Objeto")
	g.kvLine(pdf, "Lote", lot.Number)
	g.kvLine(pdf, "Área", fmt.Sprintf("%s m²", lot.Area.StringFixed(2)))
	g.kvLine(pdf, "Monto de separación", fmt.Sprintf("%s %s", res.Currency, res.TotalRequired.StringFixed(2)))
	pdf.Ln(1)

	pdf.SetFont(g.fontName, "", 11)
	intro := "Las partes acuerdan la separación del lote descrito, conforme a las condiciones " +
		"del presente contrato y al cronograma de pagos anexo. El saldo se cancela según las " +
		"cuotas pactadas."
	pdf.MultiCell(0, 6, intro, "", "L", false)
	pdf.Ln(2)
	g.hr(pdf)

	if len(schedule) > 0 {
		g.sectionTitle(pdf, "Cronograma de pagos")
		pdf.SetFont(g.fontName, "B", 10)
		pdf.CellFormat(20, 7, "Cuota", "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 7, "Vencimiento", "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 7, "Importe", "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 7, "Estado", "1", 1, "C", false, 0, "")
		pdf.SetFont(g.fontName, "", 10)
		for _, p := range schedule {
			pdf.CellFormat(20, 6, fmt.Sprintf("%d", p.Number), "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 6, p.DueDate.Format("02/01/2006"), "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 6, p.AmountDue.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 6, string(p.Status), "1", 1, "C", false, 0, "")
		}
		pdf.Ln(2)
		g.hr(pdf)
	}

	g.sectionTitle(pdf, "Firmas")
	pdf.Ln(6)

	lineY := pdf.GetY()
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(80, 6, "La inmobiliaria", "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(80, 6, "El comprador", "", 1, "L", false, 0, "")

	pdf.SetLineWidth(0.3)
	pdf.Line(20, lineY+10, 100, lineY+10)
	pdf.SetY(lineY + 12)
	pdf.SetX(20)
	pdf.Cell(80, 5, "(firma y nombre)")
	pdf.SetY(lineY + 6)
	pdf.SetX(130)
	pdf.Line(130, lineY+10, 190, lineY+10)
	pdf.SetY(lineY + 12)
	pdf.SetX(130)
	pdf.Cell(80, 5, "(firma y nombre)")

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Pág. %d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return "/" + filepath.ToSlash(filepath.Base(absPath)), nil
}

// ===== helpers =====

func (g *DocumentGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	filename = filepath.Base(filename) // safety
	return filepath.Join(g.RootDir, filename), nil
}

func (g *DocumentGenerator) addUTF8Font(pdf *gofpdf.Fpdf) {
	pdf.AddUTF8Font(g.fontName, "", g.FontPath)
	pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
}

func (g *DocumentGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *DocumentGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *DocumentGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}
