// Package store owns the booking sequence. It is the only mutation surface
// for bookings: handlers get read access plus Append, SetStatus and Reset.
package store

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/omnibuslines/booking/internal/domain"
	"github.com/omnibuslines/booking/internal/observability"
)

// Blob is the persisted key-value slot the whole sequence serializes into.
type Blob interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
}

type BookingStore struct {
	mu       sync.Mutex
	bookings []domain.Booking
	blob     Blob
	logger   observability.Logger
}

func New(blob Blob, logger observability.Logger) *BookingStore {
	return &BookingStore{
		bookings: Seed(),
		blob:     blob,
		logger:   logger,
	}
}

// Seed returns the two demo bookings the store falls back to whenever the
// persisted blob is absent or unreadable.
func Seed() []domain.Booking {
	now := time.Now().UTC()
	return []domain.Booking{
		{
			ID:          "BK82910",
			RouteID:     "rt_001",
			Passenger:   domain.Passenger{FirstName: "Alice", LastName: "Dubois", Email: "alice@example.com"},
			Status:      domain.StatusConfirmed,
			BookingDate: now,
			SeatNumber:  12,
		},
		{
			ID:          "BK82911",
			RouteID:     "rt_001",
			Passenger:   domain.Passenger{FirstName: "Bob", LastName: "Martin", Email: "bob@example.com"},
			Status:      domain.StatusCheckedIn,
			BookingDate: now,
			SeatNumber:  14,
		},
	}
}

// Load rehydrates the sequence from the blob. Absence and corruption both
// degrade to the seed; Load never fails.
func (s *BookingStore) Load(ctx context.Context) []domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.blob.Load(ctx)
	if err != nil {
		s.logger.WithField("error", err.Error()).Warn("booking blob unreadable, using seed data")
		s.bookings = Seed()
		return s.snapshot()
	}
	if data == nil {
		s.bookings = Seed()
		return s.snapshot()
	}

	var bookings []domain.Booking
	if err := json.Unmarshal(data, &bookings); err != nil {
		s.logger.WithField("error", err.Error()).Warn("booking blob corrupt, using seed data")
		s.bookings = Seed()
		return s.snapshot()
	}

	s.bookings = bookings
	return s.snapshot()
}

func (s *BookingStore) All() []domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Append adds the booking to the end of the sequence. No identifier
// deduplication is performed.
func (s *BookingStore) Append(ctx context.Context, b domain.Booking) []domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bookings = append(s.bookings, b)
	s.persist(ctx)
	return s.snapshot()
}

// SetStatus replaces the status of the booking with the given id. It is a
// no-op when the id is unknown; the boolean reports whether a record changed.
func (s *BookingStore) SetStatus(ctx context.Context, id string, status domain.BookingStatus) ([]domain.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.bookings {
		if s.bookings[i].ID == id {
			s.bookings[i].Status = status
			s.persist(ctx)
			return s.snapshot(), true
		}
	}
	return s.snapshot(), false
}

// Reset restores the seed sequence and clears the persisted slot.
func (s *BookingStore) Reset(ctx context.Context) []domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bookings = Seed()
	if err := s.blob.Clear(ctx); err != nil {
		s.logger.WithField("error", err.Error()).Warn("failed to clear booking blob")
	}
	return s.snapshot()
}

// Find resolves a booking by exact identifier.
func (s *BookingStore) Find(id string) (domain.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.bookings {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Booking{}, false
}

// Lookup returns the first booking whose id or passenger email matches the
// query case-insensitively.
func (s *BookingStore) Lookup(query string) (domain.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(query)
	for _, b := range s.bookings {
		if strings.ToLower(b.ID) == q || strings.ToLower(b.Passenger.Email) == q {
			return b, true
		}
	}
	return domain.Booking{}, false
}

// Latest returns the most recently appended booking.
func (s *BookingStore) Latest() (domain.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.bookings) == 0 {
		return domain.Booking{}, false
	}
	return s.bookings[len(s.bookings)-1], true
}

// ByRoute returns the manifest for a route, in insertion order.
func (s *BookingStore) ByRoute(routeID string) []domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Booking
	for _, b := range s.bookings {
		if b.RouteID == routeID {
			out = append(out, b)
		}
	}
	return out
}

// SeatsTaken lists seat numbers already booked on a route, cancelled
// bookings excluded.
func (s *BookingStore) SeatsTaken(routeID string) []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []int
	for _, b := range s.bookings {
		if b.RouteID == routeID && b.Status != domain.StatusCancelled {
			out = append(out, b.SeatNumber)
		}
	}
	return out
}

// persist writes the full sequence to the blob. Failures are logged and
// counted but never surfaced; the in-memory sequence stays authoritative.
// Callers must hold the mutex.
func (s *BookingStore) persist(ctx context.Context) {
	data, err := json.Marshal(s.bookings)
	if err != nil {
		observability.StorePersistFailures.Inc()
		s.logger.WithField("error", err.Error()).Error("failed to serialize bookings")
		return
	}
	if err := s.blob.Save(ctx, data); err != nil {
		observability.StorePersistFailures.Inc()
		s.logger.WithField("error", err.Error()).Error("failed to persist bookings")
	}
}

func (s *BookingStore) snapshot() []domain.Booking {
	out := make([]domain.Booking, len(s.bookings))
	copy(out, s.bookings)
	return out
}
