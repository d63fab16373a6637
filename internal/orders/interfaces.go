package orders

import (
	"context"

	"github.com/alanhoffer/hf-dashboard/pkg/db/models"
	"github.com/alanhoffer/hf-dashboard/pkg/enums"
	"github.com/alanhoffer/hf-dashboard/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for customer orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.CustomerOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CustomerOrder, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.CustomerOrder, error)
	List(ctx context.Context) ([]models.CustomerOrder, error)
	ListByStatus(ctx context.Context, status enums.OrderStatus) ([]models.CustomerOrder, error)
	CountByStatus(ctx context.Context, status enums.OrderStatus) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	Search(ctx context.Context, query SearchQuery) ([]models.CustomerOrder, error)
}

// SearchQuery filters the order history.
type SearchQuery struct {
	Term   string
	Cursor *pagination.Cursor
	Limit  int
}
