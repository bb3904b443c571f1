package models

import (
	"strings"
	"time"

	"busbooking/internal/domain"
)

// Customer is the identity attached to a booking. Phone is the dedupe key.
type Customer struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	NationalID string `json:"national_id"`
	Email      string `json:"email,omitempty"`
}

// Validate checks the fields a booking cannot be recorded without.
func (c Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return domain.ValidationError{Field: "name", Msg: "wajib diisi"}
	}
	if strings.TrimSpace(c.Phone) == "" {
		return domain.ValidationError{Field: "phone", Msg: "wajib diisi"}
	}
	if strings.TrimSpace(c.NationalID) == "" {
		return domain.ValidationError{Field: "national_id", Msg: "wajib diisi"}
	}
	return nil
}

// Booking is an append-only confirmed reservation record.
type Booking struct {
	ID            string    `json:"id"`
	TripID        string    `json:"trip_id"`
	SeatIDs       []string  `json:"seat_ids"`
	Customer      Customer  `json:"customer"`
	UploadedFiles []string  `json:"uploaded_files,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

const BookingStatusConfirmed = "confirmed"
