// Package flow implements the booking wizard: a linear state machine from
// route search to payment that produces exactly one booking per run.
package flow

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/omnibuslines/booking/internal/catalog"
	"github.com/omnibuslines/booking/internal/domain"
	"github.com/omnibuslines/booking/internal/events"
	"github.com/omnibuslines/booking/internal/insight"
	"github.com/omnibuslines/booking/internal/observability"
	"github.com/omnibuslines/booking/internal/store"
)

type Stage string

const (
	StageRouteSearch      Stage = "ROUTE_SEARCH"
	StageSeatSelection    Stage = "SEAT_SELECTION"
	StagePassengerDetails Stage = "PASSENGER_DETAILS"
	StagePayment          Stage = "PAYMENT"
	StageComplete         Stage = "COMPLETE"
)

// BookingFee is the flat fee added to the route price at payment.
const BookingFee = 2.00

var stageOrder = map[Stage]int{
	StageRouteSearch:      0,
	StageSeatSelection:    1,
	StagePassengerDetails: 2,
	StagePayment:          3,
	StageComplete:         4,
}

type SearchParams struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// Session is one run of the wizard. Forward transitions happen only through
// the explicit action for the current stage; Back may return to any earlier
// stage.
type Session struct {
	mu sync.Mutex

	id        string
	stage     Stage
	search    SearchParams
	results   []domain.Route
	route     *domain.Route
	occupied  map[int]bool
	seat      int
	passenger domain.Passenger
	booking   *domain.Booking
	insights  *insight.Debouncer

	catalog      *catalog.Catalog
	store        *store.BookingStore
	publisher    events.Publisher
	paymentDelay time.Duration
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// Search filters the catalog by exact origin and destination match and
// kicks off the debounced insight fetch for the destination. Only valid
// while the session is at the search stage.
func (s *Session) Search(origin, destination string) ([]domain.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage != StageRouteSearch {
		return nil, errors.Wrapf(domain.ErrInvalidTransition, "search not available at stage %s", s.stage)
	}
	if origin == "" || destination == "" {
		return nil, errors.Wrap(domain.ErrInvalidInput, "origin and destination are required")
	}

	s.search = SearchParams{Origin: origin, Destination: destination}
	s.results = s.catalog.Search(origin, destination)
	s.insights.SetDestination(destination)
	return s.results, nil
}

// SelectRoute moves the wizard to seat selection. The occupied set is built
// from seats already booked on the route plus a synthesized remainder.
func (s *Session) SelectRoute(routeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage != StageRouteSearch {
		return errors.Wrapf(domain.ErrInvalidTransition, "route selection not available at stage %s", s.stage)
	}
	route, ok := s.catalog.Get(routeID)
	if !ok {
		return errors.Wrapf(domain.ErrNotFound, "route %s", routeID)
	}

	s.route = &route
	s.occupied = buildOccupied(route.TotalSeats, s.store.SeatsTaken(routeID))
	s.seat = 0
	s.stage = StageSeatSelection
	return nil
}

// SelectSeat sets the sole selected seat, replacing any prior selection.
// Occupied seats are rejected with no state change.
func (s *Session) SelectSeat(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage != StageSeatSelection {
		return errors.Wrapf(domain.ErrInvalidTransition, "seat selection not available at stage %s", s.stage)
	}
	if n < 1 || n > s.route.TotalSeats {
		return errors.Wrapf(domain.ErrInvalidInput, "seat %d out of range 1..%d", n, s.route.TotalSeats)
	}
	if s.occupied[n] {
		return errors.Wrapf(domain.ErrSeatOccupied, "seat %d", n)
	}
	s.seat = n
	return nil
}

// ConfirmSeat advances to passenger details once a seat is held.
func (s *Session) ConfirmSeat() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage != StageSeatSelection {
		return errors.Wrapf(domain.ErrInvalidTransition, "seat confirmation not available at stage %s", s.stage)
	}
	if s.seat == 0 {
		return errors.Wrap(domain.ErrInvalidInput, "pick a seat to continue")
	}
	s.stage = StagePassengerDetails
	return nil
}

// SubmitPassenger validates the details and advances to payment. Validation
// failures are re-promptable: the session stays at this stage.
func (s *Session) SubmitPassenger(p domain.Passenger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage != StagePassengerDetails {
		return errors.Wrapf(domain.ErrInvalidTransition, "passenger details not available at stage %s", s.stage)
	}
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" || strings.TrimSpace(p.Email) == "" {
		return errors.Wrap(domain.ErrInvalidInput, "please fill all fields")
	}
	s.passenger = p
	s.stage = StagePayment
	return nil
}

// Total returns the payment summary: route price, flat booking fee, total.
func (s *Session) Total() (price, fee, total float64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.route == nil {
		return 0, 0, 0, errors.Wrap(domain.ErrInvalidTransition, "no route selected")
	}
	return s.route.Price, BookingFee, s.route.Price + BookingFee, nil
}

// ConfirmPayment runs the mocked payment: a fixed simulated delay with no
// abort path once submitted, then the booking is constructed and handed to
// the store. Completing the flow is the only way a session creates a
// booking.
func (s *Session) ConfirmPayment(ctx context.Context) (domain.Booking, error) {
	s.mu.Lock()
	if s.stage != StagePayment {
		stage := s.stage
		s.mu.Unlock()
		return domain.Booking{}, errors.Wrapf(domain.ErrInvalidTransition, "payment not available at stage %s", stage)
	}
	route := *s.route
	seat := s.seat
	passenger := s.passenger
	delay := s.paymentDelay
	s.mu.Unlock()

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		// The simulated processor keeps going even if the caller went
		// away; the booking is still created.
	}

	booking := domain.NewBooking(route.ID, passenger, seat)
	s.store.Append(context.WithoutCancel(ctx), booking)
	s.publisher.BookingCreated(context.WithoutCancel(ctx), booking)
	observability.BookingsCreated.Inc()

	s.mu.Lock()
	s.booking = &booking
	s.stage = StageComplete
	s.insights.Stop()
	s.mu.Unlock()

	return booking, nil
}

// Back returns to an earlier stage. Skipping forward is rejected, and
// returning to route search discards the route and seat selection.
func (s *Session) Back(target Stage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	targetIdx, ok := stageOrder[target]
	if !ok {
		return errors.Wrapf(domain.ErrInvalidInput, "unknown stage %s", target)
	}
	if s.stage == StageComplete {
		return errors.Wrap(domain.ErrInvalidTransition, "flow already complete")
	}
	if targetIdx >= stageOrder[s.stage] {
		return errors.Wrapf(domain.ErrInvalidTransition, "cannot move forward from %s to %s", s.stage, target)
	}

	if target == StageRouteSearch {
		s.route = nil
		s.occupied = nil
		s.seat = 0
	}
	s.stage = target
	return nil
}

// InsightState exposes the side panel state; it never gates transitions.
func (s *Session) InsightState() insight.State {
	return s.insights.State()
}

func (s *Session) Booking() (domain.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.booking == nil {
		return domain.Booking{}, false
	}
	return *s.booking, true
}
