package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MaxKocheshkov/API-service-for-retail/api/responses"
	"github.com/MaxKocheshkov/API-service-for-retail/api/validators"
	ordersvc "github.com/MaxKocheshkov/API-service-for-retail/internal/orders"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/enums"
	pkgerrors "github.com/MaxKocheshkov/API-service-for-retail/pkg/errors"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/logger"
)

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminOrderStatus moves an order through its lifecycle.
func AdminOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body orderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}

		order, err := svc.UpdateStatus(r.Context(), orderID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}
