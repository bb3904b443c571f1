package services

import (
	"bytes"
	"fmt"
	"strings"

	"busbooking/internal/domain/models"
	"busbooking/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// BookingReader loads a stored booking record by id.
type BookingReader interface {
	GetByID(id string) (models.Booking, error)
}

// DocsService renders downloadable e-tickets for confirmed bookings.
type DocsService struct {
	Bookings  BookingReader
	RequestID string
}

func (s DocsService) GenerateETicket(bookingID string) ([]byte, string, error) {
	booking, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket", "booking_id="+bookingID)
	return buildETicketPDF(booking)
}

func buildETicketPDF(b models.Booking) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Kode Booking : %s", b.ID),
		fmt.Sprintf("Trip         : %s", b.TripID),
		fmt.Sprintf("Kursi        : %s", strings.Join(b.SeatIDs, ", ")),
		fmt.Sprintf("Nama         : %s", safe(b.Customer.Name, "-")),
		fmt.Sprintf("No HP        : %s", safe(b.Customer.Phone, "-")),
		fmt.Sprintf("No Identitas : %s", safe(b.Customer.NationalID, "-")),
		fmt.Sprintf("Status       : %s", b.Status),
		fmt.Sprintf("Dibuat       : %s", b.CreatedAt.Format("2006-01-02 15:04")),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Catatan: e-ticket berlaku untuk kursi yang tercantum. Harap tunjukkan saat keberangkatan.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%s.pdf", b.ID)
	return buf.Bytes(), filename, nil
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
