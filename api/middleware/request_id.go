package middleware

import (
	"net/http"
	"strings"

	"github.com/veritrace/qrbatch-backend/pkg/idgen"
	"github.com/veritrace/qrbatch-backend/pkg/logger"
	"github.com/veritrace/qrbatch-backend/pkg/types"
)

const requestIDHeader = "X-Request-Id"

// RequestID mints a per-request traceability id, echoes it in the response
// header, and seeds both the context and the logger with it. A caller-supplied
// id is honored only if it carries the expected prefix.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if !strings.HasPrefix(reqID, idgen.RequestPrefix) {
				reqID = idgen.RequestID()
			}

			w.Header().Set(requestIDHeader, reqID)

			ctx := types.WithRequestID(r.Context(), reqID)
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
