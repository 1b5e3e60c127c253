package controllers

import (
	"net/http"
	"os"

	"github.com/mkrishnan-dev/orderhub-backend/api/responses"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/config"
	pkgerrors "github.com/mkrishnan-dev/orderhub-backend/pkg/errors"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/logger"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-OrderHub-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the two runtime dependencies: the redis session store
// and the order data directory.
func HealthReady(cfg *config.Config, pinger redis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-OrderHub-Env", cfg.App.Env)

		if pinger != nil {
			if err := pinger.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}

		info, err := os.Stat(cfg.Data.Dir)
		if err != nil || !info.IsDir() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "data directory unavailable"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
