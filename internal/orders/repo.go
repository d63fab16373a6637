package orders

import (
	"context"
	"strings"

	"github.com/alanhoffer/hf-dashboard/pkg/db/models"
	"github.com/alanhoffer/hf-dashboard/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.CustomerOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CustomerOrder, error) {
	var order models.CustomerOrder
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.CustomerOrder, error) {
	var order models.CustomerOrder
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context) ([]models.CustomerOrder, error) {
	var rows []models.CustomerOrder
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListByStatus(ctx context.Context, status enums.OrderStatus) ([]models.CustomerOrder, error) {
	var rows []models.CustomerOrder
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("larvae_transfer_date ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountByStatus(ctx context.Context, status enums.OrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CustomerOrder{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.CustomerOrder{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Search(ctx context.Context, query SearchQuery) ([]models.CustomerOrder, error) {
	q := r.db.WithContext(ctx).Model(&models.CustomerOrder{})
	if term := strings.ToLower(strings.TrimSpace(query.Term)); term != "" {
		like := "%" + term + "%"
		q = q.Where(
			"(LOWER(customer_name) LIKE ? OR CAST(delivery_date AS TEXT) LIKE ? OR LOWER(CAST(status AS TEXT)) LIKE ?)",
			like, like, like,
		)
	}
	if query.Cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", query.Cursor.CreatedAt, query.Cursor.ID)
	}

	var rows []models.CustomerOrder
	err := q.Order("created_at DESC, id DESC").Limit(query.Limit).Find(&rows).Error
	return rows, err
}
