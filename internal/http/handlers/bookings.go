package handlers

import (
	"net/http"

	"busbooking/internal/domain/models"
	"busbooking/internal/http/middleware"
	"busbooking/internal/services"

	"github.com/gin-gonic/gin"
)

// BookingLister reads stored booking records per trip.
type BookingLister interface {
	ListByTrip(tripID string) ([]models.Booking, error)
}

// BookingHandlers drives the commit flow: seat ledger first, booking
// recorder only for genuinely new commits.
type BookingHandlers struct {
	Ledger   *services.SeatLedger
	Recorder *services.BookingRecorder
	Bookings BookingLister
	Docs     services.DocsService
}

type bookRequest struct {
	SeatIDs       []string        `json:"seat_ids"`
	Customer      models.Customer `json:"customer_info"`
	UploadedFiles []string        `json:"uploaded_files"`
}

// POST /api/trips/:id/book
func (h BookingHandlers) Book(c *gin.Context) {
	tripID := c.Param("id")
	holder := middleware.GetSessionID(c)

	var req bookRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	// Validate the customer before touching the ledger so a malformed
	// request mutates nothing.
	if err := req.Customer.Validate(); err != nil {
		RespondDomainError(c, err)
		return
	}

	result, err := h.Ledger.Commit(tripID, req.SeatIDs, holder)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	if result.Existing {
		// Retried commit: seats were booked by an earlier call that
		// already created the record.
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"existing": true,
			"message":  "tiket sudah pernah dibooking",
		})
		return
	}

	booking, err := h.Recorder.CreateBooking(tripID, req.SeatIDs, req.Customer, req.UploadedFiles)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"existing":   false,
		"booking_id": booking.ID,
		"message":    "booking berhasil",
	})
}

// GET /api/trips/:id/bookings
func (h BookingHandlers) ListByTrip(c *gin.Context) {
	tripID := c.Param("id")
	bookings, err := h.Bookings.ListByTrip(tripID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "gagal mengambil booking", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip_id": tripID, "bookings": bookings})
}

// GET /api/bookings/:id/e-ticket
func (h BookingHandlers) ETicket(c *gin.Context) {
	docs := h.Docs
	docs.RequestID = middleware.GetRequestID(c)

	pdf, filename, err := docs.GenerateETicket(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
