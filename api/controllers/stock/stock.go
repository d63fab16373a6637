package stock

import (
	"net/http"
	"time"

	"github.com/alanhoffer/hf-dashboard/api/responses"
	"github.com/alanhoffer/hf-dashboard/api/validators"
	internalstock "github.com/alanhoffer/hf-dashboard/internal/stock"
	pkgerrors "github.com/alanhoffer/hf-dashboard/pkg/errors"
	"github.com/alanhoffer/hf-dashboard/pkg/logger"
	"github.com/google/uuid"
)

type sellRequest struct {
	PackageID    string `json:"package_id" validate:"required,uuid"`
	CustomerName string `json:"customer_name" validate:"notblank,max=200"`
	CellsToSell  int    `json:"cells_to_sell" validate:"required,gte=1"`
}

func unavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable")
}

// Available lists packages that still have sellable cells.
func Available(svc internalstock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		rows, err := svc.ListAvailable(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalstock.NewPackageDTOs(rows, time.Now()))
	}
}

// All lists every package including sold out and expired ones.
func All(svc internalstock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		rows, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalstock.NewPackageDTOs(rows, time.Now()))
	}
}

// Sell records a sale against one package.
func Sell(svc internalstock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}

		var body sellRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		packageID, err := uuid.Parse(body.PackageID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid package_id"))
			return
		}

		pkg, sale, err := svc.Sell(r.Context(), internalstock.SellInput{
			PackageID:    packageID,
			CustomerName: body.CustomerName,
			CellsToSell:  body.CellsToSell,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, internalstock.SellResult{
			Package: internalstock.NewPackageDTO(*pkg, time.Now()),
			Sale:    internalstock.NewSaleDTO(*sale),
		})
	}
}
