package flow

import (
	"github.com/omnibuslines/booking/internal/domain"
	"github.com/omnibuslines/booking/internal/insight"
)

// View is the JSON shape of a session for the HTTP layer.
type View struct {
	ID           string          `json:"id"`
	Stage        Stage           `json:"stage"`
	Search       SearchParams    `json:"search"`
	Results      []domain.Route  `json:"results,omitempty"`
	Route        *domain.Route   `json:"route,omitempty"`
	SeatMap      [][]Seat        `json:"seat_map,omitempty"`
	SelectedSeat int             `json:"selected_seat,omitempty"`
	Insight      insight.State   `json:"insight"`
	Booking      *domain.Booking `json:"booking,omitempty"`
}

func (s *Session) View() View {
	seatMap := s.SeatMap()
	insightState := s.InsightState()

	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:           s.id,
		Stage:        s.stage,
		Search:       s.search,
		Results:      s.results,
		Route:        s.route,
		SeatMap:      seatMap,
		SelectedSeat: s.seat,
		Insight:      insightState,
		Booking:      s.booking,
	}
	return v
}
