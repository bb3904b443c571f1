package notify

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"busbooking/internal/domain/models"
)

// EmailService sends booking confirmations over SMTP. It is best-effort by
// contract: a failed or skipped send never propagates to the booking path.
type EmailService struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	// send is swappable in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService(host string, port int, username, password, from string) *EmailService {
	if from == "" {
		from = username
	}
	s := &EmailService{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		send:     smtp.SendMail,
	}
	if !s.Enabled() {
		log.Printf("[EMAIL] service nonaktif (SMTP username/password kosong)")
	} else {
		log.Printf("[EMAIL] siap via %s:%d", host, port)
	}
	return s
}

func (s *EmailService) Enabled() bool {
	return s.Username != "" && s.Password != ""
}

func (s *EmailService) SendBookingConfirmation(to string, booking models.Booking) error {
	if !s.Enabled() {
		log.Printf("[EMAIL] lewati kirim, service belum dikonfigurasi")
		return nil
	}
	if !strings.Contains(to, "@") {
		log.Printf("[EMAIL] alamat tidak valid: %s", to)
		return nil
	}

	subject := fmt.Sprintf("Konfirmasi booking %s", booking.ID)
	body := confirmationBody(booking)

	var msg strings.Builder
	msg.WriteString("From: " + s.From + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
	if err := s.send(addr, auth, s.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("kirim email ke %s: %w", to, err)
	}
	log.Printf("[EMAIL] konfirmasi %s terkirim ke %s", booking.ID, to)
	return nil
}

func confirmationBody(b models.Booking) string {
	lines := []string{
		"Booking anda sudah dikonfirmasi.",
		"",
		"Kode booking : " + b.ID,
		"Trip         : " + b.TripID,
		"Kursi        : " + strings.Join(b.SeatIDs, ", "),
		"Nama         : " + b.Customer.Name,
		"Telepon      : " + b.Customer.Phone,
		"Waktu        : " + b.CreatedAt.Format("2006-01-02 15:04"),
		"",
		"Tunjukkan kode booking saat keberangkatan.",
	}
	return strings.Join(lines, "\r\n")
}
