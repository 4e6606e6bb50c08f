package app

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/markmed/fleetman/pkg/httpserver"
	"github.com/markmed/fleetman/pkg/logger"
	"github.com/markmed/fleetman/pkg/push"
	"github.com/markmed/fleetman/pkg/requestid"
)

// AccountHeader carries the account id set by the authenticating proxy.
const AccountHeader = "X-Account-ID"

const readinessTimeout = 3 * time.Second

// Handler returns the HTTP routes of the service.
func (a *App) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)

	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(a.log, readinessTimeout, a.checks...))

	r.Method(http.MethodGet, "/events", push.Handler(a.registry, push.HeaderResolver(AccountHeader),
		push.WithWriteTimeout(a.cfg.Push.WriteTimeout),
		push.WithHandlerLogger(a.log),
	))

	r.Route("/internal", func(r chi.Router) {
		r.Get("/stats", a.handleStats)
	})

	return r
}

func (a *App) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(a.registry.Stats()); err != nil {
		a.log.ErrorContext(r.Context(), "encode stats", logger.Error(err))
	}
}
