package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/atelier-storefront/api/responses"
	"github.com/angelmondragon/atelier-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/atelier-storefront/pkg/errors"
	"github.com/angelmondragon/atelier-storefront/pkg/logger"
)

const (
	envHeader    = "X-Atelier-Env"
	readyTimeout = 2 * time.Second
)

// Pinger is anything readiness can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadinessCheck names one dependency probed by /health/ready.
type ReadinessCheck struct {
	Name   string
	Pinger Pinger
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every dependency and reports 503 when any of them fails.
func HealthReady(cfg *config.Config, logg *logger.Logger, checks ...ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		statuses := make(map[string]string, len(checks))
		failed := false
		for _, check := range checks {
			if check.Pinger == nil {
				continue
			}
			if err := check.Pinger.Ping(ctx); err != nil {
				failed = true
				statuses[check.Name] = "unavailable"
				if logg != nil {
					logg.Error(logg.WithField(r.Context(), "dependency", check.Name), "readiness check failed", err)
				}
				continue
			}
			statuses[check.Name] = "ok"
		}

		if failed {
			responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").
				WithDetails(map[string]any{"checks": statuses}))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": statuses})
	}
}
