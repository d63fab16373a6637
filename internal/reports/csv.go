package reports

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/alanhoffer/hf-dashboard/pkg/db/models"
	"github.com/alanhoffer/hf-dashboard/pkg/types"
)

var (
	orderCSVHeader      = []string{"Customer Name", "Number of Cells", "Transfer Date", "Delivery Date", "Status", "Order Date"}
	productionCSVHeader = []string{"Transfer Date", "Larvae Transferred", "Accepted Cells", "Cells Produced", "Hives Used", "Notes"}
)

// WriteOrdersCSV renders orders as a spreadsheet-friendly CSV.
func WriteOrdersCSV(w io.Writer, rows []models.CustomerOrder) error {
	out := csv.NewWriter(w)
	if err := out.Write(orderCSVHeader); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.CustomerName,
			strconv.Itoa(row.NumberOfCells),
			row.LarvaeTransferDate.Format(types.DateLayout),
			row.DeliveryDate.Format(types.DateLayout),
			statusLabel(string(row.Status)),
			row.CreatedAt.Format(types.DateLayout),
		}
		if err := out.Write(record); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}

// WriteProductionsCSV renders production records as CSV. Missing values are
// left empty.
func WriteProductionsCSV(w io.Writer, rows []models.ProductionRecord) error {
	out := csv.NewWriter(w)
	if err := out.Write(productionCSVHeader); err != nil {
		return err
	}
	for _, row := range rows {
		accepted := ""
		if row.AcceptedCells != nil {
			accepted = strconv.Itoa(*row.AcceptedCells)
		}
		notes := ""
		if row.Notes != nil {
			notes = *row.Notes
		}
		record := []string{
			row.TransferDate.Format(types.DateLayout),
			strconv.Itoa(row.LarvaeTransferred),
			accepted,
			strconv.Itoa(row.CellsProduced),
			strings.Join(row.HivesUsed, "; "),
			notes,
		}
		if err := out.Write(record); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}

func statusLabel(status string) string {
	return strings.ReplaceAll(status, "_", " ")
}
