package orders

import (
	"time"

	"github.com/alanhoffer/hf-dashboard/internal/lifecycle"
	"github.com/alanhoffer/hf-dashboard/pkg/db/models"
	"github.com/alanhoffer/hf-dashboard/pkg/enums"
	"github.com/alanhoffer/hf-dashboard/pkg/types"
	"github.com/google/uuid"
)

// CreateOrderInput carries the fields accepted when an order is booked.
type CreateOrderInput struct {
	CustomerName       string
	NumberOfCells      int
	DeliveryDate       time.Time
	LarvaeTransferDate *time.Time
}

// OrderDTO is the wire shape of a customer order.
type OrderDTO struct {
	ID                 uuid.UUID          `json:"id"`
	CustomerName       string             `json:"customer_name"`
	NumberOfCells      int                `json:"number_of_cells"`
	DeliveryDate       types.Date         `json:"delivery_date"`
	LarvaeTransferDate types.Date         `json:"larvae_transfer_date"`
	Status             enums.OrderStatus  `json:"status"`
	NextStatus         *enums.OrderStatus `json:"next_status,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// NewOrderDTO maps a stored order to its wire shape.
func NewOrderDTO(order models.CustomerOrder) OrderDTO {
	dto := OrderDTO{
		ID:                 order.ID,
		CustomerName:       order.CustomerName,
		NumberOfCells:      order.NumberOfCells,
		DeliveryDate:       types.NewDate(order.DeliveryDate),
		LarvaeTransferDate: types.NewDate(order.LarvaeTransferDate),
		Status:             order.Status,
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
	}
	if next, ok := lifecycle.NextOrderStatus(order.Status); ok {
		dto.NextStatus = &next
	}
	return dto
}

// NewOrderDTOs maps a slice of stored orders.
func NewOrderDTOs(rows []models.CustomerOrder) []OrderDTO {
	out := make([]OrderDTO, len(rows))
	for i, row := range rows {
		out[i] = NewOrderDTO(row)
	}
	return out
}

// OrderList wraps a page of orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}
