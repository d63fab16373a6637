package productions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alanhoffer/hf-dashboard/internal/lifecycle"
	"github.com/alanhoffer/hf-dashboard/internal/orders"
	"github.com/alanhoffer/hf-dashboard/internal/stock"
	"github.com/alanhoffer/hf-dashboard/pkg/db/models"
	"github.com/alanhoffer/hf-dashboard/pkg/enums"
	pkgerrors "github.com/alanhoffer/hf-dashboard/pkg/errors"
	"github.com/alanhoffer/hf-dashboard/pkg/logger"
	"github.com/alanhoffer/hf-dashboard/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxHives    = 50
	maxHiveLen  = 64
	maxNotesLen = 2000
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the production operations exposed to controllers.
type Service interface {
	Create(ctx context.Context, input CreateProductionInput) (*models.ProductionRecord, error)
	List(ctx context.Context) ([]models.ProductionRecord, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ProductionRecord, error)
	RecordAcceptance(ctx context.Context, id uuid.UUID, accepted int) (*models.ProductionRecord, error)
	TotalProduced(ctx context.Context) (int64, error)
	AcceptanceRates(ctx context.Context) ([]int, error)
	Search(ctx context.Context, term string, params pagination.Params) (*ProductionList, error)
}

// ServiceParams wires the production service.
type ServiceParams struct {
	Repo      Repository
	Orders    orders.Repository
	Stock     stock.Repository
	Tx        txRunner
	ShelfLife time.Duration
	Logger    *logger.Logger
	Now       func() time.Time
}

type service struct {
	repo      Repository
	orders    orders.Repository
	stock     stock.Repository
	tx        txRunner
	shelfLife time.Duration
	logger    *logger.Logger
	now       func() time.Time
}

// NewService builds a production service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("productions repository required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Stock == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.ShelfLife <= 0 {
		return nil, fmt.Errorf("stock shelf life must be positive")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:      params.Repo,
		orders:    params.Orders,
		stock:     params.Stock,
		tx:        params.Tx,
		shelfLife: params.ShelfLife,
		logger:    params.Logger,
		now:       now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateProductionInput) (*models.ProductionRecord, error) {
	hives, notes, err := validateCreate(input)
	if err != nil {
		return nil, err
	}

	record := &models.ProductionRecord{
		ID:                uuid.New(),
		TransferDate:      lifecycle.StartOfDay(input.TransferDate.UTC()),
		LarvaeTransferred: input.LarvaeTransferred,
		CellsProduced:     input.CellsProduced,
		HivesUsed:         hives,
		Notes:             notes,
		Status:            enums.ProductionStatusActive,
	}
	if input.OrderID != nil && *input.OrderID != uuid.Nil {
		id := *input.OrderID
		record.OrderID = &id
	}

	var pkgCreated bool
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.orders.WithTx(tx)
		orderCells := 0
		var order *models.CustomerOrder
		if record.OrderID != nil {
			found, err := ordersRepo.FindByIDForUpdate(ctx, *record.OrderID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "order not found").
						WithDetails(map[string]string{"order_id": record.OrderID.String()})
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
			}
			if !lifecycle.CanLinkProduction(found.Status) {
				return pkgerrors.Newf(pkgerrors.CodeStateConflict, "order in status %s cannot take a new production", found.Status).
					WithDetails(map[string]any{"order_id": found.ID, "status": found.Status})
			}
			order = found
			orderCells = found.NumberOfCells
		}

		if err := s.repo.WithTx(tx).Create(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create production")
		}

		if pkg, ok := lifecycle.NewStockPackage(*record, orderCells, s.shelfLife); ok {
			if err := s.stock.WithTx(tx).Create(ctx, &pkg); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create stock package")
			}
			pkgCreated = true
		}

		if order != nil {
			status := lifecycle.OrderStatusForProduction(orderCells, record.CellsProduced)
			if err := ordersRepo.UpdateStatus(ctx, order.ID, status); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		logCtx := s.logger.WithFields(ctx, map[string]any{
			"production_id": record.ID.String(),
			"cells":         record.CellsProduced,
			"stock_package": pkgCreated,
		})
		s.logger.Info(logCtx, "production.created")
	}
	return s.Get(ctx, record.ID)
}

func validateCreate(input CreateProductionInput) ([]string, *string, error) {
	details := map[string]string{}
	if input.TransferDate.IsZero() {
		details["transfer_date"] = "is required"
	}
	if input.LarvaeTransferred < 1 {
		details["larvae_transferred"] = "must be at least 1"
	}
	if input.CellsProduced < 0 {
		details["cells_produced"] = "must be at least 0"
	}

	hives := make([]string, 0, len(input.Hives))
	for _, hive := range input.Hives {
		hive = strings.TrimSpace(hive)
		if hive == "" {
			continue
		}
		if len(hive) > maxHiveLen {
			details["hives"] = fmt.Sprintf("each hive must be at most %d characters", maxHiveLen)
			continue
		}
		hives = append(hives, hive)
	}
	if len(hives) > maxHives {
		details["hives"] = fmt.Sprintf("must list at most %d hives", maxHives)
	}

	var notes *string
	if input.Notes != nil {
		trimmed := strings.TrimSpace(*input.Notes)
		if len(trimmed) > maxNotesLen {
			details["notes"] = fmt.Sprintf("must be at most %d characters", maxNotesLen)
		}
		if trimmed != "" {
			notes = &trimmed
		}
	}

	if len(details) > 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return hives, notes, nil
}

func (s *service) List(ctx context.Context) ([]models.ProductionRecord, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list productions")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.ProductionRecord, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "production id required")
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return record, nil
}

func (s *service) RecordAcceptance(ctx context.Context, id uuid.UUID, accepted int) (*models.ProductionRecord, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "production id required")
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		record, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapLookupError(err)
		}
		if err := lifecycle.ValidateAcceptance(*record, accepted); err != nil {
			return err
		}
		if err := repo.UpdateAcceptance(ctx, id, accepted, lifecycle.StartOfDay(s.now().UTC())); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "acceptance already recorded")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record acceptance")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *service) TotalProduced(ctx context.Context) (int64, error) {
	total, err := s.repo.SumCellsProduced(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum cells produced")
	}
	return total, nil
}

// AcceptanceRates returns the per-record rate of every record with acceptance.
func (s *service) AcceptanceRates(ctx context.Context) ([]int, error) {
	rows, err := s.repo.ListWithAcceptance(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list acceptance")
	}
	rates := make([]int, 0, len(rows))
	for _, row := range rows {
		if row.AcceptedCells == nil {
			continue
		}
		if rate, ok := lifecycle.AcceptanceRate(*row.AcceptedCells, row.LarvaeTransferred); ok {
			rates = append(rates, rate)
		}
	}
	return rates, nil
}

func (s *service) Search(ctx context.Context, term string, params pagination.Params) (*ProductionList, error) {
	query := SearchQuery{Term: term, Limit: pagination.LimitWithBuffer(params.Limit)}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search productions")
	}

	rows, nextCursor := pagination.Trim(rows, params.Limit, func(row models.ProductionRecord) pagination.Cursor {
		return pagination.Cursor{CreatedAt: row.CreatedAt, ID: row.ID}
	})
	return &ProductionList{Productions: NewProductionDTOs(rows), NextCursor: nextCursor}, nil
}

func mapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "production not found")
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load production")
}
