// Package admin backs the staff console: manifest per route, aggregate
// counters, check-in, and the destructive demo reset.
package admin

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/omnibuslines/booking/internal/catalog"
	"github.com/omnibuslines/booking/internal/domain"
	"github.com/omnibuslines/booking/internal/events"
	"github.com/omnibuslines/booking/internal/observability"
	"github.com/omnibuslines/booking/internal/store"
)

type Console struct {
	store     *store.BookingStore
	catalog   *catalog.Catalog
	publisher events.Publisher
}

func NewConsole(st *store.BookingStore, cat *catalog.Catalog, pub events.Publisher) *Console {
	return &Console{store: st, catalog: cat, publisher: pub}
}

type Stats struct {
	TotalBookings int     `json:"total_bookings"`
	CheckedIn     int     `json:"checked_in"`
	Revenue       float64 `json:"revenue"`
}

// Manifest lists the bookings for a route. An empty routeID defaults to the
// first catalog route.
func (c *Console) Manifest(routeID string) (domain.Route, []domain.Booking, error) {
	if routeID == "" {
		routes := c.catalog.Routes()
		if len(routes) == 0 {
			return domain.Route{}, nil, errors.Wrap(domain.ErrNotFound, "catalog is empty")
		}
		routeID = routes[0].ID
	}

	route, ok := c.catalog.Get(routeID)
	if !ok {
		return domain.Route{}, nil, errors.Wrapf(domain.ErrNotFound, "route %s", routeID)
	}
	return route, c.store.ByRoute(routeID), nil
}

// Stats computes the aggregate counters. Revenue sums route prices over
// bookings whose route still resolves; dangling references contribute zero.
func (c *Console) Stats() Stats {
	bookings := c.store.All()

	stats := Stats{TotalBookings: len(bookings)}
	for _, b := range bookings {
		if b.Status == domain.StatusCheckedIn {
			stats.CheckedIn++
		}
		if route, ok := c.catalog.Get(b.RouteID); ok {
			stats.Revenue += route.Price
		}
	}
	return stats
}

// CheckIn transitions the booking to checked-in. This is the only status
// transition reachable from outside the booking flow.
func (c *Console) CheckIn(ctx context.Context, id string) (domain.Booking, error) {
	booking, ok := c.store.Find(id)
	if !ok {
		return domain.Booking{}, errors.Wrapf(domain.ErrNotFound, "booking %s", id)
	}

	c.store.SetStatus(ctx, id, domain.StatusCheckedIn)
	booking.Status = domain.StatusCheckedIn
	c.publisher.BookingCheckedIn(ctx, booking)
	observability.CheckIns.Inc()
	return booking, nil
}

// Reset restores the seed bookings and clears the persisted slot.
func (c *Console) Reset(ctx context.Context) []domain.Booking {
	return c.store.Reset(ctx)
}
