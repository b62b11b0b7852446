package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/veritrace/qrbatch-backend/api/middleware"
	"github.com/veritrace/qrbatch-backend/api/responses"
	"github.com/veritrace/qrbatch-backend/api/validators"
	"github.com/veritrace/qrbatch-backend/internal/orders"
	pkgerrors "github.com/veritrace/qrbatch-backend/pkg/errors"
	"github.com/veritrace/qrbatch-backend/pkg/logger"
)

// OrderCreate registers a purchase order against the calling tenant.
func OrderCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req orders.CreateOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		manufacturerID, err := uuid.Parse(req.ManufacturerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "manufacturer_id must be a valid uuid"))
			return
		}
		productID, err := uuid.Parse(req.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product_id must be a valid uuid"))
			return
		}

		resp, err := svc.Create(r.Context(), orders.CreateOrderInput{
			TenantID:       middleware.TenantIDFromContext(r.Context()),
			Code:           req.Code,
			ManufacturerID: manufacturerID,
			ProductID:      productID,
			TotalUnits:     req.TotalUnits,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(r.Context(), w, http.StatusCreated, resp)
	}
}

// OrderGet returns one order with its manufacturer and product, tenant-scoped.
func OrderGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id must be a valid uuid"))
			return
		}

		resp, err := svc.Get(r.Context(), middleware.TenantIDFromContext(r.Context()), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(r.Context(), w, resp)
	}
}

// OrderRenderPO builds and uploads the purchase order PDF without changing
// the order status.
func OrderRenderPO(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id must be a valid uuid"))
			return
		}

		resp, err := svc.RenderPO(r.Context(), middleware.TenantIDFromContext(r.Context()), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(r.Context(), w, resp)
	}
}

// OrderSendPO renders the purchase order PDF, uploads it, and marks the order
// sent.
func OrderSendPO(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id must be a valid uuid"))
			return
		}

		resp, err := svc.SendPO(r.Context(), middleware.TenantIDFromContext(r.Context()), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(r.Context(), w, resp)
	}
}
