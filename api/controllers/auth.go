package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/veritrace/qrbatch-backend/api/responses"
	"github.com/veritrace/qrbatch-backend/api/validators"
	"github.com/veritrace/qrbatch-backend/internal/tenants"
	pkgerrors "github.com/veritrace/qrbatch-backend/pkg/errors"
	"github.com/veritrace/qrbatch-backend/pkg/logger"
)

// AuthToken exchanges a tenant id + API key for a tenant-scope token.
func AuthToken(svc tenants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tenants.TokenRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tenantID, err := uuid.Parse(req.TenantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant_id must be a valid uuid"))
			return
		}

		token, err := svc.IssueToken(r.Context(), tenantID, req.APIKey)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(r.Context(), w, token)
	}
}
