package productions

import (
	"net/http"

	"github.com/alanhoffer/hf-dashboard/api/responses"
	"github.com/alanhoffer/hf-dashboard/api/validators"
	internalproductions "github.com/alanhoffer/hf-dashboard/internal/productions"
	pkgerrors "github.com/alanhoffer/hf-dashboard/pkg/errors"
	"github.com/alanhoffer/hf-dashboard/pkg/logger"
	"github.com/google/uuid"
)

type createProductionRequest struct {
	TransferDate      string   `json:"transfer_date" validate:"required,isodate"`
	LarvaeTransferred int      `json:"larvae_transferred" validate:"required,gte=1"`
	CellsProduced     *int     `json:"cells_produced" validate:"required,gte=0"`
	Hives             []string `json:"hives" validate:"omitempty,max=50,dive,max=64"`
	OrderID           *string  `json:"order_id" validate:"omitempty,uuid"`
	Notes             *string  `json:"notes" validate:"omitempty,max=2000"`
}

type acceptanceRequest struct {
	AcceptedCells *int `json:"accepted_cells" validate:"required,gte=0"`
}

func unavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "productions service unavailable")
}

// List returns every production record with its linked order.
func List(svc internalproductions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalproductions.NewProductionDTOs(rows))
	}
}

// Create records a production batch and opens its stock package.
func Create(svc internalproductions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}

		var body createProductionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		transfer, err := validators.ParseDate("transfer_date", body.TransferDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := internalproductions.CreateProductionInput{
			TransferDate:      transfer,
			LarvaeTransferred: body.LarvaeTransferred,
			CellsProduced:     *body.CellsProduced,
			Hives:             validators.SanitizeList(body.Hives, 64),
			Notes:             body.Notes,
		}
		if body.OrderID != nil && *body.OrderID != "" {
			orderID, err := uuid.Parse(*body.OrderID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
					WithDetails(map[string]string{"order_id": "must be a valid uuid"}))
				return
			}
			input.OrderID = &orderID
		}

		record, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			fields := map[string]any{
				"production_id":  record.ID.String(),
				"cells_produced": record.CellsProduced,
			}
			if record.OrderID != nil {
				fields["order_id"] = record.OrderID.String()
			}
			logg.Info(logg.WithFields(r.Context(), fields), "production.created")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, internalproductions.NewProductionDTO(*record))
	}
}

// Get returns one production record.
func Get(svc internalproductions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalproductions.NewProductionDTO(*record))
	}
}

// RecordAcceptance stores how many cells the hives accepted.
func RecordAcceptance(svc internalproductions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body acceptanceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.RecordAcceptance(r.Context(), id, *body.AcceptedCells)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalproductions.NewProductionDTO(*record))
	}
}
