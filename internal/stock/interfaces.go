package stock

import (
	"context"
	"time"

	"github.com/alanhoffer/hf-dashboard/pkg/db/models"
	"github.com/alanhoffer/hf-dashboard/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for stock packages and sales.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, pkg *models.StockPackage) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.StockPackage, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.StockPackage, error)
	FindByProduction(ctx context.Context, productionID uuid.UUID) (*models.StockPackage, error)
	ListAvailable(ctx context.Context) ([]models.StockPackage, error)
	ListAll(ctx context.Context) ([]models.StockPackage, error)
	ListWithRemainingCells(ctx context.Context) ([]models.StockPackage, error)
	SaveCounters(ctx context.Context, pkg *models.StockPackage) error
	ExpirePackage(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	CreateSale(ctx context.Context, sale *models.StockSale) error
	FindProduction(ctx context.Context, id uuid.UUID) (*models.ProductionRecord, error)
	UpdateProductionStatus(ctx context.Context, id uuid.UUID, status enums.ProductionStatus) error
}
