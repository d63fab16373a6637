package stock

import (
	"time"

	"github.com/alanhoffer/hf-dashboard/internal/lifecycle"
	"github.com/alanhoffer/hf-dashboard/pkg/db/models"
	"github.com/alanhoffer/hf-dashboard/pkg/types"
	"github.com/google/uuid"
)

// SellInput carries a sale request against one package.
type SellInput struct {
	PackageID    uuid.UUID
	CustomerName string
	CellsToSell  int
}

// SaleDTO is the wire shape of a recorded sale.
type SaleDTO struct {
	ID           uuid.UUID `json:"id"`
	PackageID    uuid.UUID `json:"package_id"`
	CustomerName string    `json:"customer_name"`
	CellsSold    int       `json:"cells_sold"`
	SaleDate     time.Time `json:"sale_date"`
}

// PackageDTO is the wire shape of a stock package.
type PackageDTO struct {
	ID             uuid.UUID  `json:"id"`
	ProductionID   uuid.UUID  `json:"production_id"`
	TotalCells     int        `json:"total_cells"`
	AvailableCells int        `json:"available_cells"`
	SoldCells      int        `json:"sold_cells"`
	OriginHives    []string   `json:"origin_hives"`
	ProductionDate types.Date `json:"production_date"`
	ExpirationDate types.Date `json:"expiration_date"`
	IsExpired      bool       `json:"is_expired"`
	DaysLeft       int        `json:"days_left"`
	Badge          string     `json:"badge"`
	Sales          []SaleDTO  `json:"sales"`
	CreatedAt      time.Time  `json:"created_at"`
}

// SellResult returns the updated package and the sale that changed it.
type SellResult struct {
	Package PackageDTO `json:"package"`
	Sale    SaleDTO    `json:"sale"`
}

// NewSaleDTO maps a stored sale.
func NewSaleDTO(sale models.StockSale) SaleDTO {
	return SaleDTO{
		ID:           sale.ID,
		PackageID:    sale.PackageID,
		CustomerName: sale.CustomerName,
		CellsSold:    sale.CellsSold,
		SaleDate:     sale.SaleDate,
	}
}

// NewPackageDTO maps a stored package, grading its expiry against now.
func NewPackageDTO(pkg models.StockPackage, now time.Time) PackageDTO {
	hives := []string(pkg.OriginHives)
	if hives == nil {
		hives = []string{}
	}
	sales := make([]SaleDTO, len(pkg.Sales))
	for i, sale := range pkg.Sales {
		sales[i] = NewSaleDTO(sale)
	}
	daysLeft := lifecycle.DaysUntil(now, pkg.ExpirationDate)
	return PackageDTO{
		ID:             pkg.ID,
		ProductionID:   pkg.ProductionID,
		TotalCells:     pkg.TotalCells,
		AvailableCells: pkg.AvailableCells,
		SoldCells:      pkg.SoldCells,
		OriginHives:    hives,
		ProductionDate: types.NewDate(pkg.ProductionDate),
		ExpirationDate: types.NewDate(pkg.ExpirationDate),
		IsExpired:      pkg.IsExpired,
		DaysLeft:       daysLeft,
		Badge:          lifecycle.ExpiryBadge(daysLeft),
		Sales:          sales,
		CreatedAt:      pkg.CreatedAt,
	}
}

// NewPackageDTOs maps a slice of packages.
func NewPackageDTOs(rows []models.StockPackage, now time.Time) []PackageDTO {
	out := make([]PackageDTO, len(rows))
	for i, row := range rows {
		out[i] = NewPackageDTO(row, now)
	}
	return out
}
