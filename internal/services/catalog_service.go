package services

import (
	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

// CatalogRepo serves the read-only route/trip catalog.
type CatalogRepo interface {
	SearchRoutes(fromCity, toCity string) ([]models.Route, error)
	Cities() (fromCities, toCities []string, err error)
	SearchTrips(routeID, date string) ([]models.Trip, error)
	Dates(routeID string) ([]string, error)
}

// SeatCounter is the slice of the seat ledger the catalog needs.
type SeatCounter interface {
	Known(tripID string) bool
	AvailableCount(tripID string) int
}

// CatalogService answers browse queries, merging live availability from
// the seat ledger into trip results.
type CatalogService struct {
	Repo  CatalogRepo
	Seats SeatCounter
}

func (s CatalogService) Cities() (map[string][]string, error) {
	from, to, err := s.Repo.Cities()
	if err != nil {
		return nil, domain.InternalError{Msg: "gagal mengambil daftar kota", Err: err}
	}
	return map[string][]string{"from_cities": from, "to_cities": to}, nil
}

func (s CatalogService) SearchRoutes(fromCity, toCity string) ([]models.Route, error) {
	routes, err := s.Repo.SearchRoutes(fromCity, toCity)
	if err != nil {
		return nil, domain.InternalError{Msg: "gagal mencari rute", Err: err}
	}
	return routes, nil
}

func (s CatalogService) Dates(routeID string) ([]string, error) {
	dates, err := s.Repo.Dates(routeID)
	if err != nil {
		return nil, domain.InternalError{Msg: "gagal mengambil tanggal", Err: err}
	}
	return dates, nil
}

// SearchTrips lists departures for a route/date. Trips the ledger has not
// initialized yet are reported with their full capacity; initializing a
// seat map here would pull disk I/O into a browse query for nothing.
func (s CatalogService) SearchTrips(routeID, date string) ([]models.Trip, error) {
	trips, err := s.Repo.SearchTrips(routeID, date)
	if err != nil {
		return nil, domain.InternalError{Msg: "gagal mencari trip", Err: err}
	}
	for i := range trips {
		if s.Seats != nil && s.Seats.Known(trips[i].ID) {
			trips[i].AvailableSeats = s.Seats.AvailableCount(trips[i].ID)
		} else {
			trips[i].AvailableSeats = trips[i].TotalSeats
		}
	}
	return trips, nil
}
