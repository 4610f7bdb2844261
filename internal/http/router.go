package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/omnibuslines/booking/internal/idempotency"
	"github.com/omnibuslines/booking/internal/observability"
	"github.com/omnibuslines/booking/internal/rateLimit"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(h *Handlers, logger observability.Logger, rl *rateLimit.RateLimiter, idemp *idempotency.Idempotency) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(logger))
	r.Use(TracingMiddleware)
	r.Use(MetricsMiddleware)
	r.Use(RateLimitMiddleware(rl))

	r.Get("/v1/routes", h.Routes)
	r.Get("/v1/routes/search", h.SearchRoutes)
	r.Get("/v1/cities", h.Cities)
	r.Get("/v1/insights/{city}", h.Insight)

	r.Post("/v1/flow", h.CreateFlow)
	r.Get("/v1/flow/{id}", h.GetFlow)
	r.Post("/v1/flow/{id}/search", h.FlowSearch)
	r.Post("/v1/flow/{id}/route", h.FlowSelectRoute)
	r.Post("/v1/flow/{id}/seat", h.FlowSelectSeat)
	r.Post("/v1/flow/{id}/seat/confirm", h.FlowConfirmSeat)
	r.Post("/v1/flow/{id}/passenger", h.FlowPassenger)
	r.With(IdempotencyMiddleware(idemp)).Post("/v1/flow/{id}/payment", h.FlowPayment)
	r.Post("/v1/flow/{id}/back", h.FlowBack)

	r.Get("/v1/tickets", h.Ticket)
	r.Get("/v1/tickets/{id}/pdf", h.TicketPDF)

	r.Get("/v1/admin/manifest", h.AdminManifest)
	r.Get("/v1/admin/stats", h.AdminStats)
	r.Post("/v1/admin/checkin", h.AdminCheckIn)
	r.Post("/v1/admin/reset", h.AdminReset)

	r.Get("/v1/healthz", h.Healthz)
	r.Get("/v1/readyz", h.Readyz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}
