package services

import (
	"encoding/hex"
	"log"
	"strings"
	"sync"
	"time"

	"busbooking/internal/async"
	"busbooking/internal/domain/models"
	"busbooking/internal/utils"

	"github.com/google/uuid"
)

// BookingStore appends confirmed booking records to the per-trip log.
type BookingStore interface {
	Append(booking models.Booking) error
}

// CustomerStore is the append-only customer log.
type CustomerStore interface {
	Append(customer models.Customer) error
	LoadAll() ([]models.Customer, error)
}

// Notifier sends a best-effort booking confirmation.
type Notifier interface {
	SendBookingConfirmation(to string, booking models.Booking) error
}

// BookingRecorder records confirmed bookings and deduplicates customers by
// phone. The mutex guards only the in-memory customer index; every durable
// append and the notification run on the write pool so booking calls
// return as soon as the in-memory work is done.
type BookingRecorder struct {
	mu        sync.Mutex
	customers map[string]models.Customer

	bookings      BookingStore
	customerStore CustomerStore
	writer        *async.Pool
	notifier      Notifier
	now           func() time.Time
}

func NewBookingRecorder(bookings BookingStore, customers CustomerStore, writer *async.Pool, notifier Notifier) *BookingRecorder {
	r := &BookingRecorder{
		customers:     make(map[string]models.Customer),
		bookings:      bookings,
		customerStore: customers,
		writer:        writer,
		notifier:      notifier,
		now:           time.Now,
	}
	if customers != nil {
		known, err := customers.LoadAll()
		if err != nil {
			log.Printf("[BOOKING] gagal load customers: %v", err)
		}
		for _, c := range known {
			if c.Phone != "" {
				r.customers[c.Phone] = c
			}
		}
		log.Printf("[BOOKING] %d customer dimuat", len(r.customers))
	}
	return r
}

func newBookingID() string {
	u := uuid.New()
	return "BK" + strings.ToUpper(hex.EncodeToString(u[:4]))
}

// CreateBooking validates the customer, builds the record, and schedules
// the durable appends and the confirmation mail. It returns before any of
// the background writes happen.
func (r *BookingRecorder) CreateBooking(tripID string, seatIDs []string, customer models.Customer, uploadedFiles []string) (models.Booking, error) {
	if err := customer.Validate(); err != nil {
		return models.Booking{}, err
	}

	booking := models.Booking{
		ID:            newBookingID(),
		TripID:        tripID,
		SeatIDs:       append([]string(nil), seatIDs...),
		Customer:      customer,
		UploadedFiles: append([]string(nil), uploadedFiles...),
		Status:        models.BookingStatusConfirmed,
		CreatedAt:     r.now(),
	}

	if r.bookings != nil && r.writer != nil {
		r.writer.Submit(func() {
			if err := r.bookings.Append(booking); err != nil {
				log.Printf("[BOOKING] gagal simpan booking %s: %v", booking.ID, err)
			}
		})
	}

	r.saveCustomer(customer)

	if r.notifier != nil && strings.TrimSpace(customer.Email) != "" && r.writer != nil {
		to := customer.Email
		r.writer.Submit(func() {
			if err := r.notifier.SendBookingConfirmation(to, booking); err != nil {
				log.Printf("[BOOKING] notifikasi %s gagal: %v", booking.ID, err)
			}
		})
	}

	utils.LogEvent("", "booking", "create", "id="+booking.ID+" trip="+tripID)
	return booking, nil
}

// saveCustomer inserts the customer into the in-memory index and, when new,
// schedules the durable append. The durable write happens outside the lock.
func (r *BookingRecorder) saveCustomer(customer models.Customer) {
	phone := strings.TrimSpace(customer.Phone)
	if phone == "" {
		return
	}

	r.mu.Lock()
	if _, ok := r.customers[phone]; ok {
		r.mu.Unlock()
		return
	}
	r.customers[phone] = customer
	r.mu.Unlock()

	if r.customerStore == nil || r.writer == nil {
		return
	}
	r.writer.Submit(func() {
		if err := r.customerStore.Append(customer); err != nil {
			log.Printf("[BOOKING] gagal simpan customer %s: %v", phone, err)
		}
	})
}

// KnownCustomers reports the size of the dedupe index.
func (r *BookingRecorder) KnownCustomers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.customers)
}
