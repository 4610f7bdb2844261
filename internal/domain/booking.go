package domain

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewBookingID returns "BK" plus ten uppercase hex characters drawn from a
// fresh UUID. Collisions are improbable enough for a store that never
// deduplicates on append.
func NewBookingID() string {
	u := uuid.New()
	return "BK" + strings.ToUpper(hex.EncodeToString(u[:5]))
}

func NewBooking(routeID string, passenger Passenger, seatNumber int) Booking {
	return Booking{
		ID:          NewBookingID(),
		RouteID:     routeID,
		Passenger:   passenger,
		Status:      StatusConfirmed,
		BookingDate: time.Now().UTC(),
		SeatNumber:  seatNumber,
	}
}
