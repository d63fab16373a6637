package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/alanhoffer/hf-dashboard/internal/orders"
	"github.com/alanhoffer/hf-dashboard/internal/productions"
	"github.com/alanhoffer/hf-dashboard/pkg/db/models"
	"github.com/alanhoffer/hf-dashboard/pkg/enums"
	pkgerrors "github.com/alanhoffer/hf-dashboard/pkg/errors"
	"github.com/alanhoffer/hf-dashboard/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var generatedAt = time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)

func sampleOrders() []models.CustomerOrder {
	return []models.CustomerOrder{{
		ID:                 uuid.New(),
		CustomerName:       "Cabaña, Norte",
		NumberOfCells:      12,
		DeliveryDate:       time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		LarvaeTransferDate: time.Date(2026, 5, 28, 0, 0, 0, 0, time.UTC),
		Status:             enums.OrderStatusInProduction,
		CreatedAt:          time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}}
}

func sampleProductions() []models.ProductionRecord {
	accepted := 16
	notes := "first round"
	return []models.ProductionRecord{
		{
			TransferDate:      time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC),
			LarvaeTransferred: 20,
			AcceptedCells:     &accepted,
			CellsProduced:     15,
			HivesUsed:         []string{"A1", "B7"},
			Notes:             &notes,
		},
		{
			TransferDate:      time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC),
			LarvaeTransferred: 10,
			CellsProduced:     7,
		},
	}
}

func TestWriteOrdersCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOrdersCSV(&buf, sampleOrders()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Customer Name,Number of Cells,Transfer Date,Delivery Date,Status,Order Date", lines[0])
	assert.Equal(t, `"Cabaña, Norte",12,2026-05-28,2026-06-10,in production,2026-05-01`, lines[1])
}

func TestWriteProductionsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteProductionsCSV(&buf, sampleProductions()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Transfer Date", "Larvae Transferred", "Accepted Cells", "Cells Produced", "Hives Used", "Notes"}, records[0])
	assert.Equal(t, []string{"2026-05-02", "20", "16", "15", "A1; B7", "first round"}, records[1])
	assert.Equal(t, []string{"2026-05-03", "10", "", "7", "", ""}, records[2])
}

func TestPDFTables(t *testing.T) {
	orderTable := ordersTable(sampleOrders())
	assert.Equal(t, "Queen Cell Orders Report", orderTable.title)
	assert.Equal(t, []string{"Cabaña, Norte", "12", "May 28, 2026", "Jun 10, 2026", "in production", "May 01, 2026"}, orderTable.rows[0])

	prodTable := productionsTable(sampleProductions())
	assert.Equal(t, "Production Records Report", prodTable.title)
	assert.Equal(t, []string{"May 03, 2026", "10", "N/A", "7", "N/A", "N/A"}, prodTable.rows[1])
	assert.Equal(t, "A1, B7", prodTable.rows[0][4])
}

func TestRenderPDFPaginates(t *testing.T) {
	rows := make([]models.CustomerOrder, 0, 120)
	for i := 0; i < 120; i++ {
		rows = append(rows, sampleOrders()...)
	}
	pdf := renderPDF(ordersTable(rows), generatedAt)
	require.NoError(t, pdf.Error())
	assert.Greater(t, pdf.PageCount(), 1)

	var buf bytes.Buffer
	require.NoError(t, WriteOrdersPDF(&buf, sampleOrders(), generatedAt))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

type stubOrders struct {
	orders.Service
	rows []models.CustomerOrder
	term string
}

func (s *stubOrders) List(context.Context) ([]models.CustomerOrder, error) { return s.rows, nil }

func (s *stubOrders) Search(_ context.Context, term string, _ pagination.Params) (*orders.OrderList, error) {
	s.term = term
	return &orders.OrderList{Orders: orders.NewOrderDTOs(s.rows)}, nil
}

type stubProductions struct {
	productions.Service
	rows []models.ProductionRecord
}

func (s *stubProductions) List(context.Context) ([]models.ProductionRecord, error) {
	return s.rows, nil
}

func TestServiceExports(t *testing.T) {
	ordersStub := &stubOrders{rows: sampleOrders()}
	svc, err := NewService(ordersStub, &stubProductions{rows: sampleProductions()}, func() time.Time { return generatedAt })
	require.NoError(t, err)
	ctx := context.Background()

	csvExport, err := svc.ExportOrders(ctx, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "queen-cell-orders.csv", csvExport.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", csvExport.ContentType)

	pdfExport, err := svc.ExportProductions(ctx, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "production-records.pdf", pdfExport.Filename)
	assert.Equal(t, "application/pdf", pdfExport.ContentType)
	assert.NotEmpty(t, pdfExport.Body)

	_, err = svc.ExportOrders(ctx, Format("xlsx"))
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	list, err := svc.OrderHistory(ctx, "norte", pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, list.Orders, 1)
	assert.Equal(t, "norte", ordersStub.term)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("pdf")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = ParseFormat("")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}
