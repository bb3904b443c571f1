package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

// BookingRepository is the append-only booking log. Rows are never updated
// or deleted.
type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) EnsureTable() error {
	if r.DB == nil {
		return fmt.Errorf("db tidak tersedia")
	}
	_, err := r.DB.Exec(`
		CREATE TABLE IF NOT EXISTS bookings (
			id             VARCHAR(16)  NOT NULL PRIMARY KEY,
			trip_id        VARCHAR(64)  NOT NULL,
			seat_ids       TEXT         NOT NULL,
			customer_name  VARCHAR(191) NOT NULL,
			customer_phone VARCHAR(32)  NOT NULL,
			national_id    VARCHAR(32)  NOT NULL,
			customer_email VARCHAR(191) NOT NULL DEFAULT '',
			uploaded_files TEXT         NOT NULL,
			status         VARCHAR(16)  NOT NULL,
			created_at     DATETIME     NOT NULL,
			KEY idx_bookings_trip (trip_id)
		)`)
	return err
}

func (r BookingRepository) Append(b models.Booking) error {
	seatIDs, err := json.Marshal(b.SeatIDs)
	if err != nil {
		return err
	}
	files, err := json.Marshal(b.UploadedFiles)
	if err != nil {
		return err
	}
	_, err = r.DB.Exec(`
		INSERT INTO bookings
			(id, trip_id, seat_ids, customer_name, customer_phone, national_id, customer_email, uploaded_files, status, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		b.ID, b.TripID, string(seatIDs), b.Customer.Name, b.Customer.Phone,
		b.Customer.NationalID, b.Customer.Email, string(files), b.Status, b.CreatedAt)
	return err
}

func (r BookingRepository) ListByTrip(tripID string) ([]models.Booking, error) {
	rows, err := r.DB.Query(`
		SELECT id, trip_id, seat_ids, customer_name, customer_phone, national_id, customer_email, uploaded_files, status, created_at
		FROM bookings WHERE trip_id=? ORDER BY created_at`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r BookingRepository) GetByID(id string) (models.Booking, error) {
	row := r.DB.QueryRow(`
		SELECT id, trip_id, seat_ids, customer_name, customer_phone, national_id, customer_email, uploaded_files, status, created_at
		FROM bookings WHERE id=? LIMIT 1`, id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	return b, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (models.Booking, error) {
	var b models.Booking
	var seatIDs, files string
	err := row.Scan(&b.ID, &b.TripID, &seatIDs, &b.Customer.Name, &b.Customer.Phone,
		&b.Customer.NationalID, &b.Customer.Email, &files, &b.Status, &b.CreatedAt)
	if err != nil {
		return models.Booking{}, err
	}
	_ = json.Unmarshal([]byte(seatIDs), &b.SeatIDs)
	_ = json.Unmarshal([]byte(files), &b.UploadedFiles)
	return b, nil
}
