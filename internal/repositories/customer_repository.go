package repositories

import (
	"database/sql"
	"fmt"

	"busbooking/internal/domain/models"
)

// CustomerRepository is the append-only customer log. Deduplication happens
// in memory before Append is ever called; the table itself is a plain log.
type CustomerRepository struct {
	DB *sql.DB
}

func (r CustomerRepository) EnsureTable() error {
	if r.DB == nil {
		return fmt.Errorf("db tidak tersedia")
	}
	_, err := r.DB.Exec(`
		CREATE TABLE IF NOT EXISTS customers (
			id          BIGINT       NOT NULL AUTO_INCREMENT PRIMARY KEY,
			name        VARCHAR(191) NOT NULL,
			phone       VARCHAR(32)  NOT NULL,
			national_id VARCHAR(32)  NOT NULL,
			email       VARCHAR(191) NOT NULL DEFAULT '',
			created_at  TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
			KEY idx_customers_phone (phone)
		)`)
	return err
}

func (r CustomerRepository) Append(c models.Customer) error {
	_, err := r.DB.Exec(`
		INSERT INTO customers (name, phone, national_id, email) VALUES (?,?,?,?)`,
		c.Name, c.Phone, c.NationalID, c.Email)
	return err
}

func (r CustomerRepository) LoadAll() ([]models.Customer, error) {
	rows, err := r.DB.Query(`SELECT name, phone, national_id, email FROM customers`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Customer{}
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.Name, &c.Phone, &c.NationalID, &c.Email); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
