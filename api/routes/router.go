package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tldpricer/tldpricer-backend/api/controllers"
	"github.com/tldpricer/tldpricer-backend/api/middleware"
	"github.com/tldpricer/tldpricer-backend/internal/extensions"
	"github.com/tldpricer/tldpricer-backend/internal/pricing"
	"github.com/tldpricer/tldpricer-backend/internal/registrars"
	"github.com/tldpricer/tldpricer-backend/pkg/logger"
	"github.com/tldpricer/tldpricer-backend/pkg/metrics"
)

// Deps carries everything the router needs. Optional fields may be nil
// and the corresponding routes degrade gracefully.
type Deps struct {
	ServiceName string
	Logger      *logger.Logger
	Metrics     *metrics.QueryMetrics

	Pricing    pricing.Service
	Extensions extensions.Service
	Registrars registrars.Service

	DBPinger    controllers.Pinger
	CachePinger controllers.Pinger
}

// New assembles the HTTP router: probes and metrics at the root,
// the public API under /api/v1.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(d.Logger))
	r.Use(middleware.RequestID(d.Logger))
	r.Use(middleware.Logging(d.Logger))
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(middleware.CORS())

	r.Get("/health/live", controllers.HealthLive(d.ServiceName))
	r.Get("/health/ready", controllers.HealthReady(d.ServiceName, d.Logger, d.DBPinger, d.CachePinger))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/prices", controllers.ListPrices(d.Pricing, d.Logger))
		api.Get("/cheapest-extensions", controllers.ListCheapest(d.Pricing, d.Logger))
		api.Get("/extensions", controllers.GetExtensions(d.Extensions, d.Logger))
		api.Get("/registrars", controllers.GetRegistrars(d.Registrars, d.Logger))
	})

	return r
}
