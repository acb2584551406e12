package controllers

import (
	"context"
	"net/http"

	"github.com/tldpricer/tldpricer-backend/api/responses"
	pkgerrors "github.com/tldpricer/tldpricer-backend/pkg/errors"
	"github.com/tldpricer/tldpricer-backend/pkg/logger"
)

// Pinger is the slice of a backing store used by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// HealthLive reports process liveness. It never touches dependencies.
func HealthLive(serviceName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Service: serviceName})
	}
}

// HealthReady reports readiness by pinging the database and, when
// configured, the cache. Nil pingers are skipped.
func HealthReady(serviceName string, logg *logger.Logger, pingers ...Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, p := range pingers {
			if p == nil {
				continue
			}
			if err := p.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "readiness probe failed"))
				return
			}
		}
		responses.WriteJSON(w, http.StatusOK, healthResponse{Status: "ready", Service: serviceName})
	}
}
