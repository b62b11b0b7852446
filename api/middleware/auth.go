package middleware

import (
	"net/http"
	"strings"

	"github.com/veritrace/qrbatch-backend/api/responses"
	pkgauth "github.com/veritrace/qrbatch-backend/pkg/auth"
	"github.com/veritrace/qrbatch-backend/pkg/config"
	pkgerrors "github.com/veritrace/qrbatch-backend/pkg/errors"
	"github.com/veritrace/qrbatch-backend/pkg/logger"
)

// TenantAuth validates a tenant-scope bearer token and seeds the request
// context with the tenant id. Nothing behind this middleware runs without a
// valid scope.
func TenantAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseTenantToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithTenantID(r.Context(), claims.TenantID)
			if logg != nil {
				ctx = logg.WithTenantID(ctx, claims.TenantID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
