package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/omnibuslines/booking/internal/admin"
	"github.com/omnibuslines/booking/internal/catalog"
	"github.com/omnibuslines/booking/internal/config"
	"github.com/omnibuslines/booking/internal/domain"
	"github.com/omnibuslines/booking/internal/flow"
	"github.com/omnibuslines/booking/internal/idempotency"
	"github.com/omnibuslines/booking/internal/insight"
	"github.com/omnibuslines/booking/internal/observability"
	"github.com/omnibuslines/booking/internal/ticket"
)

type Handlers struct {
	cfg      *config.Config
	catalog  *catalog.Catalog
	flows    *flow.Manager
	tickets  *ticket.Service
	admin    *admin.Console
	insights insight.Provider
	idemp    *idempotency.Idempotency
	logger   observability.Logger
}

func NewHandlers(cfg *config.Config, cat *catalog.Catalog, flows *flow.Manager, tickets *ticket.Service, adminConsole *admin.Console, insights insight.Provider, idemp *idempotency.Idempotency, logger observability.Logger) *Handlers {
	return &Handlers{
		cfg:      cfg,
		catalog:  cat,
		flows:    flows,
		tickets:  tickets,
		admin:    adminConsole,
		insights: insights,
		idemp:    idemp,
		logger:   logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeDomainError maps the domain sentinels onto status codes. Everything
// here is re-promptable; nothing is fatal.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrSeatOccupied), errors.Is(err, domain.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func (h *Handlers) Routes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Routes())
}

func (h *Handlers) SearchRoutes(w http.ResponseWriter, r *http.Request) {
	origin := r.URL.Query().Get("origin")
	destination := r.URL.Query().Get("destination")
	routes := h.catalog.Search(origin, destination)
	if routes == nil {
		routes = []domain.Route{}
	}
	writeJSON(w, http.StatusOK, routes)
}

func (h *Handlers) Cities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Cities())
}

func (h *Handlers) Insight(w http.ResponseWriter, r *http.Request) {
	city := chi.URLParam(r, "city")
	text := h.insights.Insight(r.Context(), city)
	writeJSON(w, http.StatusOK, map[string]string{"city": city, "text": text})
}

func (h *Handlers) CreateFlow(w http.ResponseWriter, r *http.Request) {
	s := h.flows.Create()
	writeJSON(w, http.StatusCreated, s.View())
}

func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (*flow.Session, bool) {
	id := chi.URLParam(r, "id")
	s, ok := h.flows.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return nil, false
	}
	return s, true
}

func (h *Handlers) GetFlow(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

func (h *Handlers) FlowSearch(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req flow.SearchParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	if _, err := s.Search(req.Origin, req.Destination); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

func (h *Handlers) FlowSelectRoute(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		RouteID string `json:"route_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	if err := s.SelectRoute(req.RouteID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

func (h *Handlers) FlowSelectSeat(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		SeatNumber int `json:"seat_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	if err := s.SelectSeat(req.SeatNumber); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

func (h *Handlers) FlowConfirmSeat(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.ConfirmSeat(); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

func (h *Handlers) FlowPassenger(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req domain.Passenger
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	if err := s.SubmitPassenger(req); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

func (h *Handlers) FlowPayment(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	key := r.Header.Get("Idempotency-Key")
	existing, err := h.idemp.Get(r.Context(), key)
	if err != nil {
		h.logger.WithField("error", err.Error()).Warn("idempotency lookup failed")
	}
	if existing != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(existing.Status)
		w.Write(existing.Result)
		return
	}

	price, fee, total, err := s.Total()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	booking, err := s.ConfirmPayment(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := map[string]interface{}{
		"booking": booking,
		"price":   price,
		"fee":     fee,
		"total":   total,
	}
	data, _ := json.Marshal(resp)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	w.Write(data)

	if err := h.idemp.Set(r.Context(), key, idempotency.Response{Status: http.StatusCreated, Result: data}); err != nil {
		h.logger.WithField("error", err.Error()).Warn("idempotency store failed")
	}
}

func (h *Handlers) FlowBack(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Stage flow.Stage `json:"stage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	if err := s.Back(req.Stage); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

func (h *Handlers) Ticket(w http.ResponseWriter, r *http.Request) {
	t, err := h.tickets.Lookup(r.URL.Query().Get("q"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handlers) TicketPDF(w http.ResponseWriter, r *http.Request) {
	t, err := h.tickets.Lookup(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	data, err := ticket.RenderPDF(t)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("failed to render ticket pdf")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to render pdf"})
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", t.Booking.ID))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handlers) AdminManifest(w http.ResponseWriter, r *http.Request) {
	route, manifest, err := h.admin.Manifest(r.URL.Query().Get("route_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if manifest == nil {
		manifest = []domain.Booking{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"route":    route,
		"manifest": manifest,
	})
}

func (h *Handlers) AdminStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.admin.Stats())
}

func (h *Handlers) AdminCheckIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BookingID string `json:"booking_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	booking, err := h.admin.CheckIn(r.Context(), req.BookingID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"booking": booking,
		"message": fmt.Sprintf("Checked in %s %s", booking.Passenger.FirstName, booking.Passenger.LastName),
	})
}

// AdminReset is destructive; the caller must confirm explicitly.
func (h *Handlers) AdminReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Confirm bool `json:"confirm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Confirm {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reset requires confirmation"})
		return
	}
	bookings := h.admin.Reset(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{"bookings": bookings})
}

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}
