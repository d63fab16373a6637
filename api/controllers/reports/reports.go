package reports

import (
	"net/http"
	"strings"

	"github.com/alanhoffer/hf-dashboard/api/responses"
	"github.com/alanhoffer/hf-dashboard/api/validators"
	internalreports "github.com/alanhoffer/hf-dashboard/internal/reports"
	pkgerrors "github.com/alanhoffer/hf-dashboard/pkg/errors"
	"github.com/alanhoffer/hf-dashboard/pkg/logger"
	"github.com/alanhoffer/hf-dashboard/pkg/pagination"
)

const maxSearchTermLen = 100

func unavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable")
}

func parseSearch(r *http.Request) (string, pagination.Params, error) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(term) > maxSearchTermLen {
		return "", pagination.Params{}, pkgerrors.New(pkgerrors.CodeValidation, "search term too long").
			WithDetails(map[string]any{"field": "q", "max": maxSearchTermLen})
	}
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return "", pagination.Params{}, err
	}
	return term, pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}

// OrderHistory searches orders by customer, date or status.
func OrderHistory(svc internalreports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		term, params, err := parseSearch(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.OrderHistory(r.Context(), term, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// ProductionHistory searches production records by date, hive or customer.
func ProductionHistory(svc internalreports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		term, params, err := parseSearch(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ProductionHistory(r.Context(), term, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

type exportFunc func(svc internalreports.Service, r *http.Request, format internalreports.Format) (*internalreports.Export, error)

// ExportOrders downloads the order table as csv or pdf.
func ExportOrders(svc internalreports.Service, logg *logger.Logger) http.HandlerFunc {
	return exportHandler(svc, logg, func(svc internalreports.Service, r *http.Request, format internalreports.Format) (*internalreports.Export, error) {
		return svc.ExportOrders(r.Context(), format)
	})
}

// ExportProductions downloads the production table as csv or pdf.
func ExportProductions(svc internalreports.Service, logg *logger.Logger) http.HandlerFunc {
	return exportHandler(svc, logg, func(svc internalreports.Service, r *http.Request, format internalreports.Format) (*internalreports.Export, error) {
		return svc.ExportProductions(r.Context(), format)
	})
}

func exportHandler(svc internalreports.Service, logg *logger.Logger, export exportFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		raw, err := validators.ParseQueryEnum(r, "format", string(internalreports.FormatCSV),
			string(internalreports.FormatCSV), string(internalreports.FormatPDF))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		format, err := internalreports.ParseFormat(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		file, err := export(svc, r, format)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"filename": file.Filename,
				"bytes":    len(file.Body),
			})
			logg.Info(ctx, "report.exported")
		}
		responses.WriteAttachment(w, file.ContentType, file.Filename, file.Body)
	}
}
