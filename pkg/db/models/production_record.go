package models

import (
	"time"

	dbtypes "github.com/alanhoffer/hf-dashboard/pkg/db/types"
	"github.com/alanhoffer/hf-dashboard/pkg/enums"
	"github.com/google/uuid"
)

// ProductionRecord is one larvae transfer batch and what it yielded.
type ProductionRecord struct {
	ID                uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TransferDate      time.Time              `gorm:"column:transfer_date;type:date;not null"`
	LarvaeTransferred int                    `gorm:"column:larvae_transferred;not null"`
	CellsProduced     int                    `gorm:"column:cells_produced;not null"`
	AcceptedCells     *int                   `gorm:"column:accepted_cells"`
	AcceptanceDate    *time.Time             `gorm:"column:acceptance_date;type:date"`
	HivesUsed         dbtypes.StringArray    `gorm:"column:hives_used;type:text[];not null;default:'{}'"`
	OrderID           *uuid.UUID             `gorm:"column:order_id;type:uuid"`
	Notes             *string                `gorm:"column:notes"`
	Status            enums.ProductionStatus `gorm:"column:status;type:production_status;not null;default:'active'"`
	CreatedAt         time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time              `gorm:"column:updated_at;autoUpdateTime"`

	Order *CustomerOrder `gorm:"foreignKey:OrderID"`
}

func (ProductionRecord) TableName() string { return "production_records" }
