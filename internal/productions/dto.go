package productions

import (
	"time"

	"github.com/alanhoffer/hf-dashboard/internal/lifecycle"
	"github.com/alanhoffer/hf-dashboard/pkg/db/models"
	"github.com/alanhoffer/hf-dashboard/pkg/enums"
	"github.com/alanhoffer/hf-dashboard/pkg/types"
	"github.com/google/uuid"
)

// CreateProductionInput carries the fields accepted when a batch is recorded.
type CreateProductionInput struct {
	TransferDate      time.Time
	LarvaeTransferred int
	CellsProduced     int
	Hives             []string
	OrderID           *uuid.UUID
	Notes             *string
}

// OrderSummary is the slice of the linked order shown with a production.
type OrderSummary struct {
	ID            uuid.UUID         `json:"id"`
	CustomerName  string            `json:"customer_name"`
	NumberOfCells int               `json:"number_of_cells"`
	Status        enums.OrderStatus `json:"status"`
}

// ProductionDTO is the wire shape of a production record.
type ProductionDTO struct {
	ID                uuid.UUID              `json:"id"`
	TransferDate      types.Date             `json:"transfer_date"`
	LarvaeTransferred int                    `json:"larvae_transferred"`
	CellsProduced     int                    `json:"cells_produced"`
	AcceptedCells     *int                   `json:"accepted_cells"`
	AcceptanceDate    *types.Date            `json:"acceptance_date"`
	AcceptanceRate    *int                   `json:"acceptance_rate"`
	HivesUsed         []string               `json:"hives_used"`
	OrderID           *uuid.UUID             `json:"order_id"`
	Order             *OrderSummary          `json:"order,omitempty"`
	Notes             *string                `json:"notes"`
	Status            enums.ProductionStatus `json:"status"`
	ExtraCells        int                    `json:"extra_cells"`
	CreatedAt         time.Time              `json:"created_at"`
}

// ProductionList wraps a page of productions plus the next page cursor.
type ProductionList struct {
	Productions []ProductionDTO `json:"productions"`
	NextCursor  string          `json:"next_cursor,omitempty"`
}

// OrderCells returns the cell count of the linked order, 0 when unlinked.
func OrderCells(record models.ProductionRecord) int {
	if record.Order == nil {
		return 0
	}
	return record.Order.NumberOfCells
}

// NewProductionDTO maps a stored record to its wire shape.
func NewProductionDTO(record models.ProductionRecord) ProductionDTO {
	hives := []string(record.HivesUsed)
	if hives == nil {
		hives = []string{}
	}
	dto := ProductionDTO{
		ID:                record.ID,
		TransferDate:      types.NewDate(record.TransferDate),
		LarvaeTransferred: record.LarvaeTransferred,
		CellsProduced:     record.CellsProduced,
		AcceptedCells:     record.AcceptedCells,
		AcceptanceDate:    types.DatePtr(record.AcceptanceDate),
		HivesUsed:         hives,
		OrderID:           record.OrderID,
		Notes:             record.Notes,
		Status:            record.Status,
		ExtraCells:        lifecycle.ExtraCells(record.CellsProduced, OrderCells(record)),
		CreatedAt:         record.CreatedAt,
	}
	if record.AcceptedCells != nil {
		if rate, ok := lifecycle.AcceptanceRate(*record.AcceptedCells, record.LarvaeTransferred); ok {
			dto.AcceptanceRate = &rate
		}
	}
	if record.Order != nil {
		dto.Order = &OrderSummary{
			ID:            record.Order.ID,
			CustomerName:  record.Order.CustomerName,
			NumberOfCells: record.Order.NumberOfCells,
			Status:        record.Order.Status,
		}
	}
	return dto
}

// NewProductionDTOs maps a slice of records.
func NewProductionDTOs(rows []models.ProductionRecord) []ProductionDTO {
	out := make([]ProductionDTO, len(rows))
	for i, row := range rows {
		out[i] = NewProductionDTO(row)
	}
	return out
}
