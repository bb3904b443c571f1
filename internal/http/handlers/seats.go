package handlers

import (
	"net/http"
	"time"

	"busbooking/internal/domain/models"
	"busbooking/internal/http/middleware"
	"busbooking/internal/services"

	"github.com/gin-gonic/gin"
)

// SeatHandlers exposes the seat ledger over HTTP.
type SeatHandlers struct {
	Ledger      *services.SeatLedger
	HoldTimeout time.Duration
}

// SeatView is the external seat representation. HoldExpiresAt is a hint
// (unix seconds) only present while the seat is selecting.
type SeatView struct {
	Status        models.SeatStatus `json:"status"`
	HeldBy        string            `json:"held_by,omitempty"`
	HoldExpiresAt *int64            `json:"hold_expires_at,omitempty"`
}

func (h SeatHandlers) seatView(seat models.Seat) SeatView {
	view := SeatView{Status: seat.Status, HeldBy: seat.HeldBy}
	if seat.Status == models.SeatSelecting && !seat.HeldAt.IsZero() {
		expiry := seat.HeldAt.Add(h.HoldTimeout).Unix()
		view.HoldExpiresAt = &expiry
	}
	return view
}

// GET /api/trips/:id/seats
func (h SeatHandlers) GetSeats(c *gin.Context) {
	tripID := c.Param("id")
	seats := h.Ledger.GetSeats(tripID)

	views := make(map[string]SeatView, len(seats))
	for seatID, seat := range seats {
		views[seatID] = h.seatView(seat)
	}
	c.JSON(http.StatusOK, gin.H{"trip_id": tripID, "seats": views})
}

// POST /api/trips/:id/seats/:seat/hold
func (h SeatHandlers) Hold(c *gin.Context) {
	tripID := c.Param("id")
	seatID := c.Param("seat")
	holder := middleware.GetSessionID(c)

	if err := h.Ledger.Hold(tripID, seatID, holder); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "kursi dipilih"})
}

// POST /api/trips/:id/seats/:seat/release
func (h SeatHandlers) Release(c *gin.Context) {
	tripID := c.Param("id")
	seatID := c.Param("seat")
	holder := middleware.GetSessionID(c)

	if err := h.Ledger.Release(tripID, seatID, holder); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "kursi dilepas"})
}
