package orders

import (
	"net/http"

	"github.com/alanhoffer/hf-dashboard/api/responses"
	"github.com/alanhoffer/hf-dashboard/api/validators"
	internalorders "github.com/alanhoffer/hf-dashboard/internal/orders"
	"github.com/alanhoffer/hf-dashboard/pkg/enums"
	pkgerrors "github.com/alanhoffer/hf-dashboard/pkg/errors"
	"github.com/alanhoffer/hf-dashboard/pkg/logger"
)

type createOrderRequest struct {
	CustomerName       string  `json:"customer_name" validate:"notblank,max=200"`
	NumberOfCells      int     `json:"number_of_cells" validate:"required,gte=1"`
	DeliveryDate       string  `json:"delivery_date" validate:"required,isodate"`
	LarvaeTransferDate *string `json:"larvae_transfer_date" validate:"omitempty,isodate"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// List returns every order, newest first.
func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalorders.NewOrderDTOs(rows))
	}
}

// Create books a new pending order.
func Create(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var body createOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		delivery, err := validators.ParseDate("delivery_date", body.DeliveryDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := internalorders.CreateOrderInput{
			CustomerName:  body.CustomerName,
			NumberOfCells: body.NumberOfCells,
			DeliveryDate:  delivery,
		}
		if body.LarvaeTransferDate != nil && *body.LarvaeTransferDate != "" {
			transfer, err := validators.ParseDate("larvae_transfer_date", *body.LarvaeTransferDate)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.LarvaeTransferDate = &transfer
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"order_id":        order.ID.String(),
				"number_of_cells": order.NumberOfCells,
			})
			logg.Info(ctx, "order.created")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, internalorders.NewOrderDTO(*order))
	}
}

// Get returns one order.
func Get(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalorders.NewOrderDTO(*order))
	}
}

// UpdateStatus advances an order along its lifecycle.
func UpdateStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateStatus(r.Context(), id, enums.OrderStatus(body.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"order_id": order.ID.String(),
				"status":   string(order.Status),
			})
			logg.Info(ctx, "order.status_updated")
		}
		responses.WriteSuccess(w, internalorders.NewOrderDTO(*order))
	}
}
