package models

import "time"

type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatSelecting SeatStatus = "selecting"
	SeatBooked    SeatStatus = "booked"
)

// Seat is one seat of a trip. HeldBy is empty iff Status is available.
type Seat struct {
	Status SeatStatus `json:"status"`
	HeldBy string     `json:"held_by,omitempty"`
	HeldAt time.Time  `json:"held_at,omitempty"`
}

func (s Seat) Available() bool { return s.Status == SeatAvailable }

// SeatMap is the per-trip seat layout keyed by seat code.
type SeatMap map[string]Seat
