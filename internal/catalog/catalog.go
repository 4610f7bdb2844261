// Package catalog holds the static route reference data. It is loaded once
// at startup and never mutated.
package catalog

import (
	"time"

	"github.com/omnibuslines/booking/internal/domain"
)

var cities = []string{
	"Paris",
	"Lyon",
	"Marseille",
	"Bordeaux",
	"Lille",
	"Strasbourg",
	"Nantes",
}

type Catalog struct {
	routes []domain.Route
}

func New() *Catalog {
	return &Catalog{routes: seedRoutes()}
}

func (c *Catalog) Routes() []domain.Route {
	out := make([]domain.Route, len(c.routes))
	copy(out, c.routes)
	return out
}

func (c *Catalog) Cities() []string {
	out := make([]string, len(cities))
	copy(out, cities)
	return out
}

// Get resolves a route by id. The boolean is false for dangling references;
// callers decide whether that means "no ticket" or "contributes zero".
func (c *Catalog) Get(id string) (domain.Route, bool) {
	for _, r := range c.routes {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Route{}, false
}

// Search matches origin and destination exactly. Anything else, including
// city pairs no service covers, yields an empty result.
func (c *Catalog) Search(origin, destination string) []domain.Route {
	var out []domain.Route
	for _, r := range c.routes {
		if r.Origin == origin && r.Destination == destination {
			out = append(out, r)
		}
	}
	return out
}

func seedRoutes() []domain.Route {
	return []domain.Route{
		{
			ID:            "rt_001",
			Origin:        "Paris",
			Destination:   "Lyon",
			DepartureTime: time.Date(2023, 11, 25, 8, 0, 0, 0, time.UTC),
			ArrivalTime:   time.Date(2023, 11, 25, 10, 0, 0, 0, time.UTC),
			Price:         45,
			TotalSeats:    50,
			BusNumber:     "OM-101",
		},
		{
			ID:            "rt_002",
			Origin:        "Paris",
			Destination:   "Bordeaux",
			DepartureTime: time.Date(2023, 11, 25, 9, 30, 0, 0, time.UTC),
			ArrivalTime:   time.Date(2023, 11, 25, 12, 45, 0, 0, time.UTC),
			Price:         55,
			TotalSeats:    50,
			BusNumber:     "OM-102",
		},
		{
			ID:            "rt_003",
			Origin:        "Lyon",
			Destination:   "Marseille",
			DepartureTime: time.Date(2023, 11, 25, 14, 0, 0, 0, time.UTC),
			ArrivalTime:   time.Date(2023, 11, 25, 16, 0, 0, 0, time.UTC),
			Price:         30,
			TotalSeats:    40,
			BusNumber:     "OM-204",
		},
		{
			ID:            "rt_004",
			Origin:        "Lille",
			Destination:   "Paris",
			DepartureTime: time.Date(2023, 11, 26, 7, 0, 0, 0, time.UTC),
			ArrivalTime:   time.Date(2023, 11, 26, 8, 0, 0, 0, time.UTC),
			Price:         25,
			TotalSeats:    60,
			BusNumber:     "OM-305",
		},
	}
}
