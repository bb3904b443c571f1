package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"busbooking/internal/domain/models"
)

// SeatSnapshotRepository stores one row per trip with the serialized seat
// map. Writes overwrite prior content; only the latest snapshot matters.
type SeatSnapshotRepository struct {
	DB *sql.DB
}

func (r SeatSnapshotRepository) EnsureTable() error {
	if r.DB == nil {
		return fmt.Errorf("db tidak tersedia")
	}
	_, err := r.DB.Exec(`
		CREATE TABLE IF NOT EXISTS seat_snapshots (
			trip_id    VARCHAR(64) NOT NULL PRIMARY KEY,
			seats      LONGTEXT    NOT NULL,
			updated_at TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`)
	return err
}

func (r SeatSnapshotRepository) Save(tripID string, seats models.SeatMap) error {
	payload, err := json.Marshal(seats)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", tripID, err)
	}
	_, err = r.DB.Exec(`
		INSERT INTO seat_snapshots (trip_id, seats) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE seats=VALUES(seats)`,
		tripID, string(payload))
	return err
}

func (r SeatSnapshotRepository) LoadAll() (map[string]models.SeatMap, error) {
	rows, err := r.DB.Query(`SELECT trip_id, seats FROM seat_snapshots`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]models.SeatMap)
	for rows.Next() {
		var tripID, payload string
		if err := rows.Scan(&tripID, &payload); err != nil {
			return nil, err
		}
		var seats models.SeatMap
		if err := json.Unmarshal([]byte(payload), &seats); err != nil {
			// A corrupt row must not keep the server from starting.
			continue
		}
		out[tripID] = seats
	}
	return out, rows.Err()
}
