package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/veritrace/qrbatch-backend/api/responses"
	"github.com/veritrace/qrbatch-backend/pkg/config"
	pkgerrors "github.com/veritrace/qrbatch-backend/pkg/errors"
	"github.com/veritrace/qrbatch-backend/pkg/logger"
)

const readinessTimeout = 3 * time.Second

// Pinger is the dependency health-check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-QRBatch-Env", cfg.App.Env)
		responses.WriteSuccess(r.Context(), w, map[string]string{"status": "live"})
	}
}

// HealthReady pings each wired dependency; any failure makes the service
// not-ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-QRBatch-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		statuses := map[string]string{}
		for name, dep := range deps {
			if dep == nil {
				statuses[name] = "not wired"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				statuses[name] = err.Error()
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" not ready").
						WithDetails(statuses))
				return
			}
			statuses[name] = "ok"
		}

		responses.WriteSuccess(r.Context(), w, map[string]any{
			"status":       "ready",
			"dependencies": statuses,
		})
	}
}
