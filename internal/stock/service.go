package stock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alanhoffer/hf-dashboard/internal/lifecycle"
	"github.com/alanhoffer/hf-dashboard/pkg/db/models"
	"github.com/alanhoffer/hf-dashboard/pkg/enums"
	pkgerrors "github.com/alanhoffer/hf-dashboard/pkg/errors"
	"github.com/alanhoffer/hf-dashboard/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes stock reads, sales and the expiration sweep.
type Service interface {
	ListAvailable(ctx context.Context) ([]models.StockPackage, error)
	ListAll(ctx context.Context) ([]models.StockPackage, error)
	Sell(ctx context.Context, input SellInput) (*models.StockPackage, *models.StockSale, error)
	SweepExpired(ctx context.Context, now time.Time) (int, error)
	Expiring(ctx context.Context, now time.Time, days int) ([]models.StockPackage, error)
	AvailableCells(ctx context.Context) (int, error)
}

// ServiceParams wires the stock service.
type ServiceParams struct {
	Repo   Repository
	Tx     txRunner
	Logger *logger.Logger
	Now    func() time.Time
}

type service struct {
	repo   Repository
	tx     txRunner
	logger *logger.Logger
	now    func() time.Time
}

// NewService builds a stock service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:   params.Repo,
		tx:     params.Tx,
		logger: params.Logger,
		now:    now,
	}, nil
}

func (s *service) ListAvailable(ctx context.Context) ([]models.StockPackage, error) {
	if _, err := s.SweepExpired(ctx, s.now()); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list available stock")
	}
	return rows, nil
}

func (s *service) ListAll(ctx context.Context) ([]models.StockPackage, error) {
	if _, err := s.SweepExpired(ctx, s.now()); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock")
	}
	return rows, nil
}

func (s *service) Sell(ctx context.Context, input SellInput) (*models.StockPackage, *models.StockSale, error) {
	if input.PackageID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "package_id is required").
			WithDetails(map[string]string{"package_id": "is required"})
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "customer_name is required").
			WithDetails(map[string]string{"customer_name": "is required"})
	}
	if input.CellsToSell <= 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "cells_to_sell must be at least 1").
			WithDetails(map[string]string{"cells_to_sell": "must be at least 1"})
	}

	now := s.now()
	var (
		sold    models.StockSale
		swept   bool
		applied bool
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		pkg, err := repo.FindByIDForUpdate(ctx, input.PackageID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "stock package not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock package")
		}

		if lifecycle.SweepExpired(pkg, now) {
			swept = true
			_, err := s.persistSweep(ctx, repo, pkg, now)
			return err
		}

		sale, err := lifecycle.ApplySale(pkg, input.CellsToSell, input.CustomerName, now)
		if err != nil {
			return err
		}
		if err := repo.SaveCounters(ctx, pkg); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock package")
		}
		if err := repo.CreateSale(ctx, &sale); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record sale")
		}
		sold = sale
		applied = true

		production, err := repo.FindProduction(ctx, pkg.ProductionID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load production")
		}
		if lifecycle.IsSold(*pkg, production.CellsProduced, orderCells(production)) {
			if err := repo.UpdateProductionStatus(ctx, production.ID, enums.ProductionStatusSold); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark production sold")
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if swept && !applied {
		return nil, nil, pkgerrors.New(pkgerrors.CodeStateConflict, "stock package has expired").
			WithDetails(map[string]any{"package_id": input.PackageID})
	}

	updated, err := s.repo.FindByID(ctx, input.PackageID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload stock package")
	}
	if s.logger != nil {
		logCtx := s.logger.WithFields(ctx, map[string]any{
			"package_id":      input.PackageID.String(),
			"cells_sold":      sold.CellsSold,
			"available_cells": updated.AvailableCells,
		})
		s.logger.Info(logCtx, "stock.sale_recorded")
	}
	return updated, &sold, nil
}

// SweepExpired zeroes every package past its expiration date and moves the
// owning productions to expired. It returns how many packages changed.
func (s *service) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	changed := 0
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		rows, err := repo.ListWithRemainingCells(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock for sweep")
		}

		var errs error
		for i := range rows {
			pkg := &rows[i]
			if !lifecycle.SweepExpired(pkg, now) {
				continue
			}
			expired, err := s.persistSweep(ctx, repo, pkg, now)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			if expired {
				changed++
			}
		}
		return errs
	})
	if err != nil {
		return 0, err
	}
	if changed > 0 && s.logger != nil {
		s.logger.Info(s.logger.WithField(ctx, "packages", changed), "stock.expired_swept")
	}
	return changed, nil
}

func (s *service) persistSweep(ctx context.Context, repo Repository, pkg *models.StockPackage, now time.Time) (bool, error) {
	expired, err := repo.ExpirePackage(ctx, pkg.ID, now)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("expire package %s", pkg.ID))
	}
	if !expired {
		return false, nil
	}
	production, err := repo.FindProduction(ctx, pkg.ProductionID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("load production %s", pkg.ProductionID))
	}
	next := lifecycle.ProductionStatusAfterExpiry(production.Status)
	if next == production.Status {
		return true, nil
	}
	if err := repo.UpdateProductionStatus(ctx, production.ID, next); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("expire production %s", production.ID))
	}
	return true, nil
}

// Expiring returns available packages expiring within days of now.
func (s *service) Expiring(ctx context.Context, now time.Time, days int) ([]models.StockPackage, error) {
	if _, err := s.SweepExpired(ctx, now); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list available stock")
	}
	expiring := make([]models.StockPackage, 0, len(rows))
	for _, row := range rows {
		if lifecycle.DaysUntil(now, row.ExpirationDate) <= days {
			expiring = append(expiring, row)
		}
	}
	return expiring, nil
}

func (s *service) AvailableCells(ctx context.Context) (int, error) {
	rows, err := s.ListAvailable(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, row := range rows {
		total += row.AvailableCells
	}
	return total, nil
}

func orderCells(record *models.ProductionRecord) int {
	if record == nil || record.Order == nil {
		return 0
	}
	return record.Order.NumberOfCells
}
