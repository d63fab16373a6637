package stock

import (
	"context"
	"time"

	"github.com/alanhoffer/hf-dashboard/pkg/db/models"
	"github.com/alanhoffer/hf-dashboard/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a stock repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, pkg *models.StockPackage) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(pkg).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.StockPackage, error) {
	var pkg models.StockPackage
	err := r.db.WithContext(ctx).
		Preload("Sales", func(db *gorm.DB) *gorm.DB { return db.Order("sale_date ASC") }).
		Where("id = ?", id).
		First(&pkg).Error
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.StockPackage, error) {
	var pkg models.StockPackage
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&pkg).Error
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *repository) FindByProduction(ctx context.Context, productionID uuid.UUID) (*models.StockPackage, error) {
	var pkg models.StockPackage
	if err := r.db.WithContext(ctx).Where("production_id = ?", productionID).First(&pkg).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *repository) ListAvailable(ctx context.Context) ([]models.StockPackage, error) {
	var rows []models.StockPackage
	err := r.db.WithContext(ctx).
		Where("is_expired = ? AND available_cells > 0", false).
		Order("expiration_date ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListAll(ctx context.Context) ([]models.StockPackage, error) {
	var rows []models.StockPackage
	err := r.db.WithContext(ctx).
		Preload("Sales", func(db *gorm.DB) *gorm.DB { return db.Order("sale_date ASC") }).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListWithRemainingCells(ctx context.Context) ([]models.StockPackage, error) {
	var rows []models.StockPackage
	err := r.db.WithContext(ctx).
		Where("available_cells > 0").
		Order("expiration_date ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) SaveCounters(ctx context.Context, pkg *models.StockPackage) error {
	result := r.db.WithContext(ctx).
		Model(&models.StockPackage{}).
		Where("id = ?", pkg.ID).
		Updates(map[string]any{
			"available_cells": pkg.AvailableCells,
			"sold_cells":      pkg.SoldCells,
			"is_expired":      pkg.IsExpired,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ExpirePackage zeroes the remaining cells of a package that is still past its
// expiration date and has cells left. Sold counters are never written, so a
// sale committed after the sweep listed its rows survives. It reports whether
// the row changed.
func (r *repository) ExpirePackage(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.StockPackage{}).
		Where("id = ? AND available_cells > 0 AND expiration_date < ?", id, now.UTC()).
		Updates(map[string]any{
			"available_cells": 0,
			"is_expired":      true,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) CreateSale(ctx context.Context, sale *models.StockSale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *repository) FindProduction(ctx context.Context, id uuid.UUID) (*models.ProductionRecord, error) {
	var record models.ProductionRecord
	if err := r.db.WithContext(ctx).Preload("Order").Where("id = ?", id).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) UpdateProductionStatus(ctx context.Context, id uuid.UUID, status enums.ProductionStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductionRecord{}).
		Where("id = ?", id).
		Update("status", status).Error
}
