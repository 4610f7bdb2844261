package store_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/omnibuslines/booking/internal/domain"
	"github.com/omnibuslines/booking/internal/observability"
	"github.com/omnibuslines/booking/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBlob is an in-memory stand-in for the Redis slot.
type fakeBlob struct {
	data    []byte
	loadErr error
	saveErr error
	saves   int
}

func (f *fakeBlob) Load(context.Context) ([]byte, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.data, nil
}

func (f *fakeBlob) Save(_ context.Context, data []byte) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.data = data
	f.saves++
	return nil
}

func (f *fakeBlob) Clear(context.Context) error {
	f.data = nil
	return nil
}

func newStore(blob store.Blob) *store.BookingStore {
	return store.New(blob, observability.NewLogger())
}

func TestLoad_AbsentBlobYieldsSeed(t *testing.T) {
	s := newStore(&fakeBlob{})

	bookings := s.Load(context.Background())

	require.Len(t, bookings, 2)
	assert.Equal(t, "BK82910", bookings[0].ID)
	assert.Equal(t, "BK82911", bookings[1].ID)
	assert.Equal(t, domain.StatusConfirmed, bookings[0].Status)
	assert.Equal(t, domain.StatusCheckedIn, bookings[1].Status)
}

func TestLoad_CorruptBlobYieldsSeed(t *testing.T) {
	for _, blob := range [][]byte{
		[]byte("not json"),
		[]byte(`{"wrong":"shape"}`),
		[]byte(`[{"id":`),
	} {
		s := newStore(&fakeBlob{data: blob})

		bookings := s.Load(context.Background())
		assert.Len(t, bookings, 2, "blob %q should fall back to seed", blob)
	}
}

func TestLoad_ValidBlobRoundTrips(t *testing.T) {
	original := store.Seed()
	original = append(original, domain.NewBooking("rt_002", domain.Passenger{
		FirstName: "Carol", LastName: "Leroy", Email: "carol@example.com",
	}, 7))
	data, err := json.Marshal(original)
	require.NoError(t, err)

	s := newStore(&fakeBlob{data: data})
	bookings := s.Load(context.Background())

	require.Len(t, bookings, 3)
	assert.Equal(t, original[2].ID, bookings[2].ID)
	assert.Equal(t, 7, bookings[2].SeatNumber)
}

func TestAppend_PreservesOrderAndPersists(t *testing.T) {
	blob := &fakeBlob{}
	s := newStore(blob)
	s.Load(context.Background())

	b := domain.NewBooking("rt_003", domain.Passenger{
		FirstName: "Denis", LastName: "Petit", Email: "denis@example.com",
	}, 3)
	bookings := s.Append(context.Background(), b)

	require.Len(t, bookings, 3)
	assert.Equal(t, "BK82910", bookings[0].ID)
	assert.Equal(t, "BK82911", bookings[1].ID)
	assert.Equal(t, b.ID, bookings[2].ID)
	assert.Equal(t, 1, blob.saves)

	latest, ok := s.Latest()
	require.True(t, ok)
	assert.Equal(t, b.ID, latest.ID)
}

func TestSetStatus_ExactlyOneRecordChanges(t *testing.T) {
	blob := &fakeBlob{}
	s := newStore(blob)
	before := s.Load(context.Background())

	after, changed := s.SetStatus(context.Background(), "BK82910", domain.StatusCheckedIn)

	require.True(t, changed)
	assert.Equal(t, domain.StatusCheckedIn, after[0].Status)
	// Everything else about the record is untouched.
	assert.Equal(t, before[0].ID, after[0].ID)
	assert.Equal(t, before[0].Passenger, after[0].Passenger)
	assert.Equal(t, before[0].SeatNumber, after[0].SeatNumber)
	assert.Equal(t, before[1], after[1])
	assert.Equal(t, 1, blob.saves)
}

func TestSetStatus_UnknownIDIsNoop(t *testing.T) {
	blob := &fakeBlob{}
	s := newStore(blob)
	before := s.Load(context.Background())

	after, changed := s.SetStatus(context.Background(), "BK00000", domain.StatusCancelled)

	assert.False(t, changed)
	assert.Equal(t, before, after)
	assert.Equal(t, 0, blob.saves)
}

func TestReset_RestoresSeedAndClearsBlob(t *testing.T) {
	blob := &fakeBlob{}
	s := newStore(blob)
	s.Load(context.Background())
	s.Append(context.Background(), domain.NewBooking("rt_001", domain.Passenger{
		FirstName: "Eve", LastName: "Moreau", Email: "eve@example.com",
	}, 5))
	require.NotNil(t, blob.data)

	bookings := s.Reset(context.Background())

	assert.Len(t, bookings, 2)
	assert.Nil(t, blob.data)
}

func TestPersistFailure_IsSwallowed(t *testing.T) {
	blob := &fakeBlob{saveErr: assert.AnError}
	s := newStore(blob)
	s.Load(context.Background())

	bookings := s.Append(context.Background(), domain.NewBooking("rt_001", domain.Passenger{
		FirstName: "Fred", LastName: "Roux", Email: "fred@example.com",
	}, 9))

	// The in-memory sequence stays authoritative.
	assert.Len(t, bookings, 3)
}

func TestLookup_CaseInsensitiveIDAndEmail(t *testing.T) {
	s := newStore(&fakeBlob{})
	s.Load(context.Background())

	byID, ok := s.Lookup("bk82910")
	require.True(t, ok)
	assert.Equal(t, "BK82910", byID.ID)

	byEmail, ok := s.Lookup("ALICE@EXAMPLE.COM")
	require.True(t, ok)
	assert.Equal(t, "BK82910", byEmail.ID)

	_, ok = s.Lookup("nobody@example.com")
	assert.False(t, ok)
}

func TestByRouteAndSeatsTaken(t *testing.T) {
	s := newStore(&fakeBlob{})
	s.Load(context.Background())
	cancelled := domain.NewBooking("rt_001", domain.Passenger{
		FirstName: "Gil", LastName: "Blanc", Email: "gil@example.com",
	}, 20)
	cancelled.Status = domain.StatusCancelled
	s.Append(context.Background(), cancelled)

	assert.Len(t, s.ByRoute("rt_001"), 3)
	assert.Empty(t, s.ByRoute("rt_004"))

	// Cancelled bookings free their seat.
	assert.ElementsMatch(t, []int{12, 14}, s.SeatsTaken("rt_001"))
}
