package productions

import (
	"context"
	"time"

	"github.com/alanhoffer/hf-dashboard/pkg/db/models"
	"github.com/alanhoffer/hf-dashboard/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for production records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.ProductionRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ProductionRecord, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.ProductionRecord, error)
	List(ctx context.Context) ([]models.ProductionRecord, error)
	UpdateAcceptance(ctx context.Context, id uuid.UUID, accepted int, acceptedOn time.Time) error
	SumCellsProduced(ctx context.Context) (int64, error)
	ListWithAcceptance(ctx context.Context) ([]models.ProductionRecord, error)
	Search(ctx context.Context, query SearchQuery) ([]models.ProductionRecord, error)
}

// SearchQuery filters the production history.
type SearchQuery struct {
	Term   string
	Cursor *pagination.Cursor
	Limit  int
}
