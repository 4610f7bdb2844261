package flow

import (
	"math/rand"
	"time"
)

const seatsPerRow = 4

// synthesizedOccupancy is how many extra seats are marked taken per route
// selection to make the manifest look believably busy.
const synthesizedOccupancy = 12

type Seat struct {
	Number   int  `json:"number"`
	Occupied bool `json:"occupied"`
	Selected bool `json:"selected"`
}

// SeatMap derives the layout purely from the route's capacity: four seats
// per row with an aisle between columns two and three.
func (s *Session) SeatMap() [][]Seat {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.route == nil {
		return nil
	}

	total := s.route.TotalSeats
	rows := (total + seatsPerRow - 1) / seatsPerRow
	layout := make([][]Seat, 0, rows)
	for row := 0; row < rows; row++ {
		var cols []Seat
		for col := 0; col < seatsPerRow; col++ {
			n := row*seatsPerRow + col + 1
			if n > total {
				break
			}
			cols = append(cols, Seat{
				Number:   n,
				Occupied: s.occupied[n],
				Selected: s.seat == n,
			})
		}
		layout = append(layout, cols)
	}
	return layout
}

// buildOccupied unions the seats genuinely booked on the route with a
// synthesized random set, so a sold seat can never be offered again while
// the bus still looks busy for the demo.
func buildOccupied(totalSeats int, booked []int) map[int]bool {
	occupied := make(map[int]bool, len(booked)+synthesizedOccupancy)
	for _, n := range booked {
		if n >= 1 && n <= totalSeats {
			occupied[n] = true
		}
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	want := synthesizedOccupancy
	if want > totalSeats-1 {
		want = totalSeats - 1
	}
	for len(occupied) < want {
		occupied[rng.Intn(totalSeats)+1] = true
	}
	return occupied
}
