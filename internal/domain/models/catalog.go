package models

// Route is a read-only catalog entry describing a city pair.
type Route struct {
	ID       string `json:"id"`
	FromCity string `json:"from_city"`
	ToCity   string `json:"to_city"`
	Duration string `json:"duration,omitempty"`
	Price    int64  `json:"price"`
}

// Trip is one scheduled departure on a route. AvailableSeats is filled in
// by the catalog service from the seat ledger, not stored.
type Trip struct {
	ID             string `json:"id"`
	RouteID        string `json:"route_id"`
	Date           string `json:"date"`
	DepartureTime  string `json:"departure_time"`
	TotalSeats     int    `json:"total_seats"`
	Price          int64  `json:"price"`
	AvailableSeats int    `json:"available_seats"`
}
