package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/mzansigreen/office-backend/api/responses"
	"github.com/mzansigreen/office-backend/pkg/config"
	"github.com/mzansigreen/office-backend/pkg/db"
	"github.com/mzansigreen/office-backend/pkg/logger"
	"github.com/mzansigreen/office-backend/pkg/redis"
)

const readyCheckTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Office-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and redis. A failed dependency reports 503
// with the per-check status so operators can see which one is down.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Office-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		checks["db"] = checkDependency(ctx, logg, "db", dbP)
		checks["redis"] = checkDependency(ctx, logg, "redis", redisP)
		for _, status := range checks {
			if status != "ok" {
				healthy = false
			}
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		responses.WriteJSON(w, status, map[string]any{
			"status": readinessLabel(healthy),
			"checks": checks,
		})
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

func checkDependency(ctx context.Context, logg *logger.Logger, name string, p pinger) string {
	if p == nil {
		return "skipped"
	}
	if err := p.Ping(ctx); err != nil {
		if logg != nil {
			logg.Error(ctx, "health check failed: "+name, err)
		}
		return "down"
	}
	return "ok"
}

func readinessLabel(healthy bool) string {
	if healthy {
		return "ready"
	}
	return "degraded"
}
