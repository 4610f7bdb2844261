// Package ticket renders a single booking as a boarding pass.
package ticket

import (
	"github.com/cockroachdb/errors"
	"github.com/omnibuslines/booking/internal/catalog"
	"github.com/omnibuslines/booking/internal/domain"
	"github.com/omnibuslines/booking/internal/store"
)

type Ticket struct {
	Booking domain.Booking `json:"booking"`
	Route   domain.Route   `json:"route"`
}

type Service struct {
	store   *store.BookingStore
	catalog *catalog.Catalog
}

func NewService(st *store.BookingStore, cat *catalog.Catalog) *Service {
	return &Service{store: st, catalog: cat}
}

// Lookup resolves the ticket to display. A non-empty query matches booking
// id or passenger email case-insensitively and misses are reported as
// not-found; an empty query falls back to the most recent booking. A
// booking whose route no longer resolves yields no ticket.
func (s *Service) Lookup(query string) (Ticket, error) {
	var booking domain.Booking
	var ok bool

	if query != "" {
		booking, ok = s.store.Lookup(query)
		if !ok {
			return Ticket{}, errors.Wrapf(domain.ErrNotFound, "no booking matches %q", query)
		}
	} else {
		booking, ok = s.store.Latest()
		if !ok {
			return Ticket{}, errors.Wrap(domain.ErrNotFound, "no bookings yet")
		}
	}

	route, ok := s.catalog.Get(booking.RouteID)
	if !ok {
		return Ticket{}, errors.Wrapf(domain.ErrNotFound, "route %s no longer exists", booking.RouteID)
	}

	return Ticket{Booking: booking, Route: route}, nil
}
