package lifecycle

import (
	"math"
	"strings"
	"time"

	"github.com/alanhoffer/hf-dashboard/pkg/db/models"
	pkgerrors "github.com/alanhoffer/hf-dashboard/pkg/errors"
	"github.com/google/uuid"
)

// Expiry badges shown next to packages that are about to expire.
const (
	BadgeCritical = "critical"
	BadgeWarning  = "warning"
	BadgeOK       = "ok"
)

// IsExpired reports whether pkg is past its expiration date at now.
func IsExpired(pkg models.StockPackage, now time.Time) bool {
	return pkg.IsExpired || pkg.ExpirationDate.Before(now)
}

// SweepExpired zeroes the remaining cells of a package past its expiration
// date and reports whether it changed anything.
func SweepExpired(pkg *models.StockPackage, now time.Time) bool {
	if pkg == nil || !pkg.ExpirationDate.Before(now) || pkg.AvailableCells <= 0 {
		return false
	}
	pkg.AvailableCells = 0
	pkg.IsExpired = true
	return true
}

// ApplySale moves n cells from available to sold and returns the sale row.
func ApplySale(pkg *models.StockPackage, n int, customer string, at time.Time) (models.StockSale, error) {
	customer = strings.TrimSpace(customer)
	if customer == "" {
		return models.StockSale{}, pkgerrors.New(pkgerrors.CodeValidation, "customer_name is required").
			WithDetails(map[string]string{"customer_name": "is required"})
	}
	if pkg.IsExpired {
		return models.StockSale{}, pkgerrors.New(pkgerrors.CodeStateConflict, "stock package has expired")
	}
	if n <= 0 || n > pkg.AvailableCells {
		return models.StockSale{}, pkgerrors.Newf(pkgerrors.CodeValidation, "cells_to_sell must be between 1 and %d", pkg.AvailableCells).
			WithDetails(map[string]any{"cells_to_sell": n, "available_cells": pkg.AvailableCells})
	}

	pkg.AvailableCells -= n
	pkg.SoldCells += n
	sale := models.StockSale{
		ID:           uuid.New(),
		PackageID:    pkg.ID,
		CustomerName: customer,
		CellsSold:    n,
		SaleDate:     at,
	}
	pkg.Sales = append(pkg.Sales, sale)
	return sale, nil
}

// IsSold reports whether every surplus cell of the production has been sold.
func IsSold(pkg models.StockPackage, cellsProduced, orderCells int) bool {
	return pkg.SoldCells >= cellsProduced-orderCells && pkg.AvailableCells == 0
}

// DaysUntil counts whole UTC calendar days from now to t, negative when t is
// past. Stored dates are UTC midnights, so both sides are compared in UTC
// whatever zone now comes from.
func DaysUntil(now, t time.Time) int {
	from := StartOfDay(now.UTC())
	to := StartOfDay(t.UTC())
	return int(math.Round(to.Sub(from).Hours() / 24))
}

// ExpiryBadge grades the days left on a package.
func ExpiryBadge(daysLeft int) string {
	switch {
	case daysLeft <= 1:
		return BadgeCritical
	case daysLeft <= 3:
		return BadgeWarning
	default:
		return BadgeOK
	}
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// NewStockPackage builds the package holding a production's surplus cells.
// It returns false when there is no surplus.
func NewStockPackage(record models.ProductionRecord, orderCells int, shelfLife time.Duration) (models.StockPackage, bool) {
	extra := ExtraCells(record.CellsProduced, orderCells)
	if extra <= 0 {
		return models.StockPackage{}, false
	}
	hives := make([]string, len(record.HivesUsed))
	copy(hives, record.HivesUsed)
	return models.StockPackage{
		ID:             uuid.New(),
		ProductionID:   record.ID,
		TotalCells:     extra,
		AvailableCells: extra,
		OriginHives:    hives,
		ProductionDate: record.TransferDate,
		ExpirationDate: record.TransferDate.Add(shelfLife),
	}, true
}
