package lifecycle

import (
	"math"

	"github.com/alanhoffer/hf-dashboard/pkg/db/models"
	"github.com/alanhoffer/hf-dashboard/pkg/enums"
	pkgerrors "github.com/alanhoffer/hf-dashboard/pkg/errors"
)

// ExtraCells is the surplus a production adds to stock. orderCells is 0 when
// no order is linked, so the whole batch becomes stock.
func ExtraCells(cellsProduced, orderCells int) int {
	if extra := cellsProduced - orderCells; extra > 0 {
		return extra
	}
	return 0
}

// AcceptanceRate returns round(accepted/larvae*100). ok is false when larvae is 0.
func AcceptanceRate(accepted, larvae int) (int, bool) {
	if larvae <= 0 {
		return 0, false
	}
	return int(math.Round(float64(accepted) / float64(larvae) * 100)), true
}

// ValidateAcceptance checks an accepted-cells count against a record.
func ValidateAcceptance(record models.ProductionRecord, accepted int) error {
	if record.AcceptedCells != nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "acceptance already recorded").
			WithDetails(map[string]any{"accepted_cells": *record.AcceptedCells})
	}
	if record.Status != enums.ProductionStatusActive {
		return pkgerrors.Newf(pkgerrors.CodeStateConflict, "production in status %s cannot record acceptance", record.Status)
	}
	if accepted < 0 || accepted > record.LarvaeTransferred {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "accepted_cells must be between 0 and %d", record.LarvaeTransferred).
			WithDetails(map[string]string{"accepted_cells": "out of range"})
	}
	return nil
}

// ProductionStatusAfterExpiry is the status a production takes when its
// package expires. A sold production stays sold.
func ProductionStatusAfterExpiry(current enums.ProductionStatus) enums.ProductionStatus {
	if current == enums.ProductionStatusSold {
		return current
	}
	return enums.ProductionStatusExpired
}
