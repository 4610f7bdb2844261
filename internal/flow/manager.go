package flow

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/omnibuslines/booking/internal/catalog"
	"github.com/omnibuslines/booking/internal/events"
	"github.com/omnibuslines/booking/internal/insight"
	"github.com/omnibuslines/booking/internal/store"
)

// Manager owns the live wizard sessions, keyed by session id.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	catalog      *catalog.Catalog
	store        *store.BookingStore
	publisher    events.Publisher
	provider     insight.Provider
	debounce     time.Duration
	paymentDelay time.Duration
}

func NewManager(cat *catalog.Catalog, st *store.BookingStore, pub events.Publisher, provider insight.Provider, debounce, paymentDelay time.Duration) *Manager {
	return &Manager{
		sessions:     make(map[string]*Session),
		catalog:      cat,
		store:        st,
		publisher:    pub,
		provider:     provider,
		debounce:     debounce,
		paymentDelay: paymentDelay,
	}
}

func (m *Manager) Create() *Session {
	s := &Session{
		id:           uuid.NewString(),
		stage:        StageRouteSearch,
		insights:     insight.NewDebouncer(m.provider, m.debounce),
		catalog:      m.catalog,
		store:        m.store,
		publisher:    m.publisher,
		paymentDelay: m.paymentDelay,
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()
	return s
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}
