// Package dashboard aggregates the headline numbers shown on the console
// landing page.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/alanhoffer/hf-dashboard/internal/orders"
	"github.com/alanhoffer/hf-dashboard/internal/productions"
	"github.com/alanhoffer/hf-dashboard/internal/stock"
	"github.com/alanhoffer/hf-dashboard/pkg/enums"
	"github.com/shopspring/decimal"
)

const (
	defaultUpcomingDays = 7
	defaultExpiringDays = 3
)

// Stats is the summary block of the dashboard.
type Stats struct {
	PendingOrders         int64 `json:"pending_orders"`
	InProduction          int64 `json:"in_production"`
	TotalProduced         int64 `json:"total_produced"`
	AvailableStock        int   `json:"available_stock"`
	AverageAcceptanceRate *int  `json:"average_acceptance_rate"`
}

// Service exposes the dashboard reads.
type Service interface {
	Stats(ctx context.Context) (*Stats, error)
	Upcoming(ctx context.Context) ([]orders.OrderDTO, error)
	Expiring(ctx context.Context) ([]stock.PackageDTO, error)
}

// ServiceParams wires the dashboard service.
type ServiceParams struct {
	Orders       orders.Service
	Productions  productions.Service
	Stock        stock.Service
	UpcomingDays int
	ExpiringDays int
	Now          func() time.Time
}

type service struct {
	orders       orders.Service
	productions  productions.Service
	stock        stock.Service
	upcomingDays int
	expiringDays int
	now          func() time.Time
}

// NewService builds the dashboard service.
func NewService(params ServiceParams) (Service, error) {
	if params.Orders == nil || params.Productions == nil || params.Stock == nil {
		return nil, fmt.Errorf("orders, productions and stock services required")
	}
	svc := &service{
		orders:       params.Orders,
		productions:  params.Productions,
		stock:        params.Stock,
		upcomingDays: params.UpcomingDays,
		expiringDays: params.ExpiringDays,
		now:          params.Now,
	}
	if svc.upcomingDays <= 0 {
		svc.upcomingDays = defaultUpcomingDays
	}
	if svc.expiringDays <= 0 {
		svc.expiringDays = defaultExpiringDays
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	pending, err := s.orders.CountByStatus(ctx, enums.OrderStatusPending)
	if err != nil {
		return nil, err
	}
	inProduction, err := s.orders.CountByStatus(ctx, enums.OrderStatusInProduction)
	if err != nil {
		return nil, err
	}
	produced, err := s.productions.TotalProduced(ctx)
	if err != nil {
		return nil, err
	}
	available, err := s.stock.AvailableCells(ctx)
	if err != nil {
		return nil, err
	}
	rates, err := s.productions.AcceptanceRates(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		PendingOrders:         pending,
		InProduction:          inProduction,
		TotalProduced:         produced,
		AvailableStock:        available,
		AverageAcceptanceRate: AverageRate(rates),
	}, nil
}

func (s *service) Upcoming(ctx context.Context) ([]orders.OrderDTO, error) {
	rows, err := s.orders.Upcoming(ctx, s.now(), s.upcomingDays)
	if err != nil {
		return nil, err
	}
	return orders.NewOrderDTOs(rows), nil
}

func (s *service) Expiring(ctx context.Context) ([]stock.PackageDTO, error) {
	now := s.now()
	rows, err := s.stock.Expiring(ctx, now, s.expiringDays)
	if err != nil {
		return nil, err
	}
	return stock.NewPackageDTOs(rows, now), nil
}

// AverageRate is the rounded mean of rates, nil when there are none.
func AverageRate(rates []int) *int {
	if len(rates) == 0 {
		return nil
	}
	sum := decimal.Zero
	for _, rate := range rates {
		sum = sum.Add(decimal.NewFromInt(int64(rate)))
	}
	avg := int(sum.Div(decimal.NewFromInt(int64(len(rates)))).Round(0).IntPart())
	return &avg
}
