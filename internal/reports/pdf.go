package reports

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alanhoffer/hf-dashboard/pkg/db/models"
	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin       = 20.0
	pdfTableTop     = 40.0
	pdfHeaderHeight = 8.0
	pdfRowHeight    = 6.0
	pdfDateLayout   = "Jan 02, 2006"
	notAvailable    = "N/A"
)

type pdfTable struct {
	title    string
	headers  []string
	widths   []float64
	fontSize float64
	rows     [][]string
}

var (
	orderPDFHeaders      = []string{"Customer", "Cells", "Transfer Date", "Delivery Date", "Status", "Order Date"}
	orderPDFWidths       = []float64{35, 20, 30, 30, 25, 30}
	productionPDFHeaders = []string{"Transfer Date", "Larvae", "Accepted", "Produced", "Hives", "Notes"}
	productionPDFWidths  = []float64{25, 20, 20, 20, 35, 50}
)

// WriteOrdersPDF renders the orders report.
func WriteOrdersPDF(w io.Writer, rows []models.CustomerOrder, generatedAt time.Time) error {
	return renderPDF(ordersTable(rows), generatedAt).Output(w)
}

// WriteProductionsPDF renders the production records report.
func WriteProductionsPDF(w io.Writer, rows []models.ProductionRecord, generatedAt time.Time) error {
	return renderPDF(productionsTable(rows), generatedAt).Output(w)
}

func ordersTable(rows []models.CustomerOrder) pdfTable {
	table := pdfTable{
		title:    "Queen Cell Orders Report",
		headers:  orderPDFHeaders,
		widths:   orderPDFWidths,
		fontSize: 10,
		rows:     make([][]string, 0, len(rows)),
	}
	for _, row := range rows {
		table.rows = append(table.rows, []string{
			row.CustomerName,
			strconv.Itoa(row.NumberOfCells),
			row.LarvaeTransferDate.Format(pdfDateLayout),
			row.DeliveryDate.Format(pdfDateLayout),
			statusLabel(string(row.Status)),
			row.CreatedAt.Format(pdfDateLayout),
		})
	}
	return table
}

func productionsTable(rows []models.ProductionRecord) pdfTable {
	table := pdfTable{
		title:    "Production Records Report",
		headers:  productionPDFHeaders,
		widths:   productionPDFWidths,
		fontSize: 9,
		rows:     make([][]string, 0, len(rows)),
	}
	for _, row := range rows {
		accepted := notAvailable
		if row.AcceptedCells != nil {
			accepted = strconv.Itoa(*row.AcceptedCells)
		}
		hives := strings.Join(row.HivesUsed, ", ")
		if hives == "" {
			hives = notAvailable
		}
		notes := notAvailable
		if row.Notes != nil && *row.Notes != "" {
			notes = *row.Notes
		}
		table.rows = append(table.rows, []string{
			row.TransferDate.Format(pdfDateLayout),
			strconv.Itoa(row.LarvaeTransferred),
			accepted,
			strconv.Itoa(row.CellsProduced),
			hives,
			notes,
		})
	}
	return table
}

func renderPDF(table pdfTable, generatedAt time.Time) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetCreationDate(generatedAt)
	pdf.SetTitle(table.title, true)
	pdf.SetCreator("hf-dashboard", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 20)
	pdf.SetTextColor(30, 58, 138)
	pdf.SetXY(pdfMargin, 14)
	pdf.CellFormat(0, 10, table.title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetX(pdfMargin)
	pdf.CellFormat(0, 8, "Generated on "+generatedAt.Format(pdfDateLayout), "", 1, "L", false, 0, "")

	_, pageHeight := pdf.GetPageSize()
	bottom := pageHeight - pdfMargin

	pdf.SetY(pdfTableTop)
	writeTableHeader(pdf, table)
	pdf.SetFont("Helvetica", "", table.fontSize)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range table.rows {
		if pdf.GetY()+pdfRowHeight > bottom {
			pdf.AddPage()
			pdf.SetY(pdfMargin)
			writeTableHeader(pdf, table)
			pdf.SetFont("Helvetica", "", table.fontSize)
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.SetX(pdfMargin)
		for i, cell := range row {
			pdf.CellFormat(table.widths[i], pdfRowHeight, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(pdfRowHeight)
	}
	return pdf
}

func writeTableHeader(pdf *fpdf.Fpdf, table pdfTable) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(59, 130, 246)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetX(pdfMargin)
	for i, header := range table.headers {
		pdf.CellFormat(table.widths[i], pdfHeaderHeight, header, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(pdfHeaderHeight)
}
