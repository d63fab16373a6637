package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alanhoffer/hf-dashboard/internal/lifecycle"
	"github.com/alanhoffer/hf-dashboard/pkg/db/models"
	"github.com/alanhoffer/hf-dashboard/pkg/enums"
	pkgerrors "github.com/alanhoffer/hf-dashboard/pkg/errors"
	"github.com/alanhoffer/hf-dashboard/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxCustomerNameLen = 200

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the order operations exposed to controllers.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.CustomerOrder, error)
	List(ctx context.Context) ([]models.CustomerOrder, error)
	Get(ctx context.Context, id uuid.UUID) (*models.CustomerOrder, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.CustomerOrder, error)
	Upcoming(ctx context.Context, now time.Time, days int) ([]models.CustomerOrder, error)
	CountByStatus(ctx context.Context, status enums.OrderStatus) (int64, error)
	Search(ctx context.Context, term string, params pagination.Params) (*OrderList, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.CustomerOrder, error) {
	name := strings.TrimSpace(input.CustomerName)
	details := map[string]string{}
	if name == "" {
		details["customer_name"] = "is required"
	} else if len(name) > maxCustomerNameLen {
		details["customer_name"] = fmt.Sprintf("must be at most %d characters", maxCustomerNameLen)
	}
	if input.NumberOfCells < 1 {
		details["number_of_cells"] = "must be at least 1"
	}
	if input.DeliveryDate.IsZero() {
		details["delivery_date"] = "is required"
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}

	transfer := input.DeliveryDate
	if input.LarvaeTransferDate != nil && !input.LarvaeTransferDate.IsZero() {
		transfer = *input.LarvaeTransferDate
	}

	order := &models.CustomerOrder{
		ID:                 uuid.New(),
		CustomerName:       name,
		NumberOfCells:      input.NumberOfCells,
		DeliveryDate:       lifecycle.StartOfDay(input.DeliveryDate.UTC()),
		LarvaeTransferDate: lifecycle.StartOfDay(transfer.UTC()),
		Status:             enums.OrderStatusPending,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context) ([]models.CustomerOrder, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.CustomerOrder, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return order, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.CustomerOrder, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid order status %q", status).
			WithDetails(map[string]string{"status": "unknown value"})
	}

	var updated *models.CustomerOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapLookupError(err)
		}
		if order.Status == status {
			updated = order
			return nil
		}
		if err := lifecycle.ValidateTransition(order.Status, status); err != nil {
			return err
		}
		if err := repo.UpdateStatus(ctx, id, status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		order.Status = status
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Upcoming returns pending orders whose larvae transfer falls within the
// next days, soonest first.
func (s *service) Upcoming(ctx context.Context, now time.Time, days int) ([]models.CustomerOrder, error) {
	rows, err := s.repo.ListByStatus(ctx, enums.OrderStatusPending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending orders")
	}

	upcoming := make([]models.CustomerOrder, 0, len(rows))
	for _, row := range rows {
		left := lifecycle.DaysUntil(now, row.LarvaeTransferDate)
		if left >= 0 && left <= days {
			upcoming = append(upcoming, row)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].LarvaeTransferDate.Before(upcoming[j].LarvaeTransferDate)
	})
	return upcoming, nil
}

func (s *service) CountByStatus(ctx context.Context, status enums.OrderStatus) (int64, error) {
	count, err := s.repo.CountByStatus(ctx, status)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	return count, nil
}

func (s *service) Search(ctx context.Context, term string, params pagination.Params) (*OrderList, error) {
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search orders")
	}

	rows, nextCursor := pagination.Trim(rows, params.Limit, func(row models.CustomerOrder) pagination.Cursor {
		return pagination.Cursor{CreatedAt: row.CreatedAt, ID: row.ID}
	})
	return &OrderList{Orders: NewOrderDTOs(rows), NextCursor: nextCursor}, nil
}

func mapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
}
