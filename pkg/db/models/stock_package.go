package models

import (
	"time"

	dbtypes "github.com/alanhoffer/hf-dashboard/pkg/db/types"
	"github.com/google/uuid"
)

// StockPackage holds the surplus cells of a single production.
type StockPackage struct {
	ID             uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductionID   uuid.UUID           `gorm:"column:production_id;type:uuid;not null;uniqueIndex"`
	TotalCells     int                 `gorm:"column:total_cells;not null"`
	AvailableCells int                 `gorm:"column:available_cells;not null"`
	SoldCells      int                 `gorm:"column:sold_cells;not null;default:0"`
	OriginHives    dbtypes.StringArray `gorm:"column:origin_hives;type:text[];not null;default:'{}'"`
	ProductionDate time.Time           `gorm:"column:production_date;type:date;not null"`
	ExpirationDate time.Time           `gorm:"column:expiration_date;type:date;not null"`
	IsExpired      bool                `gorm:"column:is_expired;not null;default:false"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	Sales []StockSale `gorm:"foreignKey:PackageID"`
}

func (StockPackage) TableName() string { return "stock_packages" }

// StockSale records cells sold out of a package.
type StockSale struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PackageID    uuid.UUID `gorm:"column:package_id;type:uuid;not null;index"`
	CustomerName string    `gorm:"column:customer_name;not null"`
	CellsSold    int       `gorm:"column:cells_sold;not null"`
	SaleDate     time.Time `gorm:"column:sale_date;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (StockSale) TableName() string { return "stock_sales" }
