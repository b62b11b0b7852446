package controllers

import (
	"net/http"

	"github.com/veritrace/qrbatch-backend/api/middleware"
	"github.com/veritrace/qrbatch-backend/api/responses"
	"github.com/veritrace/qrbatch-backend/api/validators"
	"github.com/veritrace/qrbatch-backend/internal/packaging"
	"github.com/veritrace/qrbatch-backend/pkg/logger"
)

// PackagingGet returns the tenant's packaging configuration.
func PackagingGet(svc packaging.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := svc.Get(r.Context(), middleware.TenantIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(r.Context(), w, resp)
	}
}

// PackagingPut creates or replaces the tenant's packaging configuration.
func PackagingPut(svc packaging.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req packaging.PutConfigRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Put(r.Context(), middleware.TenantIDFromContext(r.Context()), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(r.Context(), w, resp)
	}
}
