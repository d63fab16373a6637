package models

import (
	"time"

	"github.com/alanhoffer/hf-dashboard/pkg/enums"
	"github.com/google/uuid"
)

// CustomerOrder is a request for a number of queen cells on a delivery date.
type CustomerOrder struct {
	ID                 uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerName       string            `gorm:"column:customer_name;not null"`
	NumberOfCells      int               `gorm:"column:number_of_cells;not null"`
	DeliveryDate       time.Time         `gorm:"column:delivery_date;type:date;not null"`
	LarvaeTransferDate time.Time         `gorm:"column:larvae_transfer_date;type:date;not null"`
	Status             enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'pending'"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (CustomerOrder) TableName() string { return "customer_orders" }
