package domain

import (
	"time"
)

type BookingStatus string

const (
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCheckedIn BookingStatus = "CHECKED_IN"
	StatusCancelled BookingStatus = "CANCELLED"
)

// Route is static reference data: one scheduled origin-destination service.
type Route struct {
	ID            string    `json:"id"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	Price         float64   `json:"price"`
	TotalSeats    int       `json:"total_seats"`
	BusNumber     string    `json:"bus_number"`
}

type Passenger struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Booking references its Route by ID only; the catalog may not resolve it,
// and consumers must treat a dangling RouteID as "no route", not an error.
type Booking struct {
	ID          string        `json:"id"`
	RouteID     string        `json:"route_id"`
	Passenger   Passenger     `json:"passenger"`
	Status      BookingStatus `json:"status"`
	BookingDate time.Time     `json:"booking_date"`
	SeatNumber  int           `json:"seat_number"`
}
