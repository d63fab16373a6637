// Package reports renders order and production exports and serves the
// searchable history.
package reports

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/alanhoffer/hf-dashboard/internal/orders"
	"github.com/alanhoffer/hf-dashboard/internal/productions"
	pkgerrors "github.com/alanhoffer/hf-dashboard/pkg/errors"
	"github.com/alanhoffer/hf-dashboard/pkg/pagination"
)

// Format selects the export encoding.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

const (
	ordersBaseName      = "queen-cell-orders"
	productionsBaseName = "production-records"
)

// ParseFormat validates a requested export format.
func ParseFormat(value string) (Format, error) {
	switch Format(value) {
	case FormatCSV, FormatPDF:
		return Format(value), nil
	default:
		return "", pkgerrors.Newf(pkgerrors.CodeValidation, "unsupported export format %q", value).
			WithDetails(map[string]string{"format": "must be csv or pdf"})
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv; charset=utf-8"
}

// Export is a rendered file ready to download.
type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Service exposes exports and history search.
type Service interface {
	ExportOrders(ctx context.Context, format Format) (*Export, error)
	ExportProductions(ctx context.Context, format Format) (*Export, error)
	OrderHistory(ctx context.Context, term string, params pagination.Params) (*orders.OrderList, error)
	ProductionHistory(ctx context.Context, term string, params pagination.Params) (*productions.ProductionList, error)
}

type service struct {
	orders      orders.Service
	productions productions.Service
	now         func() time.Time
}

// NewService builds the reports service.
func NewService(ordersSvc orders.Service, productionsSvc productions.Service, now func() time.Time) (Service, error) {
	if ordersSvc == nil || productionsSvc == nil {
		return nil, fmt.Errorf("orders and productions services required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{orders: ordersSvc, productions: productionsSvc, now: now}, nil
}

func (s *service) ExportOrders(ctx context.Context, format Format) (*Export, error) {
	rows, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch format {
	case FormatCSV:
		err = WriteOrdersCSV(&buf, rows)
	case FormatPDF:
		err = WriteOrdersPDF(&buf, rows, s.now())
	default:
		_, err = ParseFormat(string(format))
		return nil, err
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render orders export")
	}
	return &Export{
		Filename:    ordersBaseName + "." + string(format),
		ContentType: format.ContentType(),
		Body:        buf.Bytes(),
	}, nil
}

func (s *service) ExportProductions(ctx context.Context, format Format) (*Export, error) {
	rows, err := s.productions.List(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch format {
	case FormatCSV:
		err = WriteProductionsCSV(&buf, rows)
	case FormatPDF:
		err = WriteProductionsPDF(&buf, rows, s.now())
	default:
		_, err = ParseFormat(string(format))
		return nil, err
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render productions export")
	}
	return &Export{
		Filename:    productionsBaseName + "." + string(format),
		ContentType: format.ContentType(),
		Body:        buf.Bytes(),
	}, nil
}

func (s *service) OrderHistory(ctx context.Context, term string, params pagination.Params) (*orders.OrderList, error) {
	return s.orders.Search(ctx, term, params)
}

func (s *service) ProductionHistory(ctx context.Context, term string, params pagination.Params) (*productions.ProductionList, error) {
	return s.productions.Search(ctx, term, params)
}
