package productions

import (
	"context"
	"strings"
	"time"

	"github.com/alanhoffer/hf-dashboard/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a productions repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, record *models.ProductionRecord) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ProductionRecord, error) {
	var record models.ProductionRecord
	if err := r.db.WithContext(ctx).Preload("Order").Where("id = ?", id).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.ProductionRecord, error) {
	var record models.ProductionRecord
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) List(ctx context.Context) ([]models.ProductionRecord, error) {
	var rows []models.ProductionRecord
	err := r.db.WithContext(ctx).
		Preload("Order").
		Order("transfer_date DESC, created_at DESC, id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) UpdateAcceptance(ctx context.Context, id uuid.UUID, accepted int, acceptedOn time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductionRecord{}).
		Where("id = ? AND accepted_cells IS NULL", id).
		Updates(map[string]any{
			"accepted_cells":  accepted,
			"acceptance_date": acceptedOn,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) SumCellsProduced(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.ProductionRecord{}).
		Select("COALESCE(SUM(cells_produced), 0)").
		Scan(&total).Error
	return total, err
}

func (r *repository) ListWithAcceptance(ctx context.Context) ([]models.ProductionRecord, error) {
	var rows []models.ProductionRecord
	err := r.db.WithContext(ctx).
		Where("accepted_cells IS NOT NULL").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Search(ctx context.Context, query SearchQuery) ([]models.ProductionRecord, error) {
	q := r.db.WithContext(ctx).Model(&models.ProductionRecord{}).Preload("Order")
	if term := strings.ToLower(strings.TrimSpace(query.Term)); term != "" {
		like := "%" + term + "%"
		q = q.Where(
			"(CAST(transfer_date AS TEXT) LIKE ? OR LOWER(CAST(hives_used AS TEXT)) LIKE ? OR LOWER(COALESCE(notes, '')) LIKE ?)",
			like, like, like,
		)
	}
	if query.Cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", query.Cursor.CreatedAt, query.Cursor.ID)
	}

	var rows []models.ProductionRecord
	err := q.Order("created_at DESC, id DESC").Limit(query.Limit).Find(&rows).Error
	return rows, err
}
