package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/nvalenzo/threadhaus-backend/api/responses"
	"github.com/nvalenzo/threadhaus-backend/pkg/config"
	"github.com/nvalenzo/threadhaus-backend/pkg/logger"
)

const envHeader = "X-Threadhaus-Env"

type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the Redis and document gateway dependencies respond.
func HealthReady(cfg *config.Config, logg *logger.Logger, redisP, gatewayP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		healthy := true
		for name, p := range map[string]Pinger{"redis": redisP, "gateway": gatewayP} {
			if p == nil {
				checks[name] = "skipped"
				continue
			}
			if err := p.Ping(ctx); err != nil {
				checks[name] = "down"
				healthy = false
				if logg != nil {
					logg.Error(logg.WithField(ctx, "dependency", name), "health.check_failed", err)
				}
				continue
			}
			checks[name] = "ok"
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		responses.WriteSuccessStatus(w, status, checks)
	}
}

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"message": "pong"})
	}
}
