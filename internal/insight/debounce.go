package insight

import (
	"context"
	"sync"
	"time"
)

// State is what the side panel renders: the blurb for the current
// destination, or a loading flag while the fetch is pending.
type State struct {
	City    string `json:"city"`
	Text    string `json:"text"`
	Loading bool   `json:"loading"`
}

// Debouncer issues one provider fetch per destination after a quiet period.
// Changing the destination restarts the quiet period and cancels any fetch
// already in flight, so a slow response for an old destination can never
// overwrite a newer one.
type Debouncer struct {
	provider Provider
	quiet    time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
	state  State
}

func NewDebouncer(provider Provider, quiet time.Duration) *Debouncer {
	return &Debouncer{provider: provider, quiet: quiet}
}

// SetDestination records a destination change and schedules the fetch.
func (d *Debouncer) SetDestination(city string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}

	if city == "" {
		d.state = State{}
		return
	}

	d.state = State{City: city, Loading: true}
	d.timer = time.AfterFunc(d.quiet, func() {
		d.fetch(city)
	})
}

func (d *Debouncer) fetch(city string) {
	d.mu.Lock()
	if d.state.City != city {
		d.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.mu.Unlock()

	text := d.provider.Insight(ctx, city)

	d.mu.Lock()
	defer d.mu.Unlock()
	if ctx.Err() != nil || d.state.City != city {
		return
	}
	d.state = State{City: city, Text: text}
	d.cancel = nil
}

func (d *Debouncer) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Stop cancels any pending or in-flight fetch.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
