package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/veritrace/qrbatch-backend/api/middleware"
	"github.com/veritrace/qrbatch-backend/api/responses"
	"github.com/veritrace/qrbatch-backend/api/validators"
	"github.com/veritrace/qrbatch-backend/internal/products"
	pkgerrors "github.com/veritrace/qrbatch-backend/pkg/errors"
	"github.com/veritrace/qrbatch-backend/pkg/logger"
)

func ProductCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req products.CreateProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Create(r.Context(), middleware.TenantIDFromContext(r.Context()), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(r.Context(), w, http.StatusCreated, resp)
	}
}

func ProductGet(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id must be a valid uuid"))
			return
		}

		resp, err := svc.Get(r.Context(), middleware.TenantIDFromContext(r.Context()), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(r.Context(), w, resp)
	}
}
