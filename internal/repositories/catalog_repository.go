package repositories

import (
	"database/sql"
	"strings"

	"busbooking/internal/domain/models"
)

// CatalogRepository reads the route/trip catalog. The tables are seeded by
// operations tooling; this repository never writes them.
type CatalogRepository struct {
	DB *sql.DB
}

func (r CatalogRepository) SearchRoutes(fromCity, toCity string) ([]models.Route, error) {
	query := `SELECT id, from_city, to_city, COALESCE(duration,''), COALESCE(price,0) FROM routes`
	conds := []string{}
	args := []any{}
	if strings.TrimSpace(fromCity) != "" {
		conds = append(conds, "LOWER(from_city)=LOWER(?)")
		args = append(args, strings.TrimSpace(fromCity))
	}
	if strings.TrimSpace(toCity) != "" {
		conds = append(conds, "LOWER(to_city)=LOWER(?)")
		args = append(args, strings.TrimSpace(toCity))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY from_city, to_city"

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Route{}
	for rows.Next() {
		var rt models.Route
		if err := rows.Scan(&rt.ID, &rt.FromCity, &rt.ToCity, &rt.Duration, &rt.Price); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (r CatalogRepository) Cities() ([]string, []string, error) {
	from, err := r.distinct(`SELECT DISTINCT from_city FROM routes ORDER BY from_city`)
	if err != nil {
		return nil, nil, err
	}
	to, err := r.distinct(`SELECT DISTINCT to_city FROM routes ORDER BY to_city`)
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func (r CatalogRepository) SearchTrips(routeID, date string) ([]models.Trip, error) {
	query := `SELECT id, route_id, trip_date, departure_time, total_seats, COALESCE(price,0) FROM trips`
	conds := []string{}
	args := []any{}
	if strings.TrimSpace(routeID) != "" {
		conds = append(conds, "route_id=?")
		args = append(args, strings.TrimSpace(routeID))
	}
	if strings.TrimSpace(date) != "" {
		conds = append(conds, "trip_date=?")
		args = append(args, strings.TrimSpace(date))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY departure_time"

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Trip{}
	for rows.Next() {
		var t models.Trip
		if err := rows.Scan(&t.ID, &t.RouteID, &t.Date, &t.DepartureTime, &t.TotalSeats, &t.Price); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r CatalogRepository) Dates(routeID string) ([]string, error) {
	if strings.TrimSpace(routeID) == "" {
		return r.distinct(`SELECT DISTINCT trip_date FROM trips ORDER BY trip_date`)
	}
	rows, err := r.DB.Query(`SELECT DISTINCT trip_date FROM trips WHERE route_id=? ORDER BY trip_date`, strings.TrimSpace(routeID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStrings(rows)
}

func (r CatalogRepository) distinct(query string) ([]string, error) {
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStrings(rows)
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
