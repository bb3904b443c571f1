package services

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"busbooking/internal/async"
	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

// SnapshotStore persists one trip's seat map, last write wins.
type SnapshotStore interface {
	Save(tripID string, seats models.SeatMap) error
	LoadAll() (map[string]models.SeatMap, error)
}

const (
	seatsPerSection = 20
	// Default layout: two decks of 20 seats (T1-A01..A20, T2-B01..B20),
	// used whenever a trip has no persisted seat map.
	deckOnePrefix = "T1-A"
	deckTwoPrefix = "T2-B"
)

// SeatLedger is the single in-memory authority for seat status across all
// trips. Every read-modify-write runs as one critical section under mu;
// durable snapshots are scheduled on the write pool after the lock is
// released so request latency never includes disk I/O.
type SeatLedger struct {
	mu    sync.Mutex
	trips map[string]models.SeatMap

	store  SnapshotStore
	writer *async.Pool
	now    func() time.Time
}

func NewSeatLedger(store SnapshotStore, writer *async.Pool) *SeatLedger {
	l := &SeatLedger{
		trips:  make(map[string]models.SeatMap),
		store:  store,
		writer: writer,
		now:    time.Now,
	}
	if store != nil {
		loaded, err := store.LoadAll()
		if err != nil {
			log.Printf("[SEATS] gagal load snapshot: %v", err)
		} else if loaded != nil {
			l.trips = loaded
		}
	}
	return l
}

func defaultSeatMap() models.SeatMap {
	seats := make(models.SeatMap, 2*seatsPerSection)
	for i := 1; i <= seatsPerSection; i++ {
		seats[fmt.Sprintf("%s%02d", deckOnePrefix, i)] = models.Seat{Status: models.SeatAvailable}
		seats[fmt.Sprintf("%s%02d", deckTwoPrefix, i)] = models.Seat{Status: models.SeatAvailable}
	}
	return seats
}

func copySeatMap(src models.SeatMap) models.SeatMap {
	dst := make(models.SeatMap, len(src))
	for id, seat := range src {
		dst[id] = seat
	}
	return dst
}

// GetSeats returns a copy of the trip's seat map, creating the default
// layout when the trip has never been seen.
func (l *SeatLedger) GetSeats(tripID string) models.SeatMap {
	l.mu.Lock()
	defer l.mu.Unlock()

	seats, ok := l.trips[tripID]
	if !ok {
		seats = defaultSeatMap()
		l.trips[tripID] = seats
	}
	return copySeatMap(seats)
}

// Hold moves an available seat to selecting on behalf of holder.
func (l *SeatLedger) Hold(tripID, seatID, holder string) error {
	snap, err := l.holdLocked(tripID, seatID, holder)
	if err != nil {
		return err
	}
	l.persist(tripID, snap)
	return nil
}

func (l *SeatLedger) holdLocked(tripID, seatID, holder string) (models.SeatMap, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	seats, ok := l.trips[tripID]
	if !ok {
		return nil, domain.NotFoundError{Resource: "trip"}
	}
	seat, ok := seats[seatID]
	if !ok {
		return nil, domain.NotFoundError{Resource: "kursi"}
	}
	if !seat.Available() {
		return nil, domain.ConflictError{Resource: seatID, Msg: fmt.Sprintf("kursi sedang %s", seat.Status)}
	}

	seat.Status = models.SeatSelecting
	seat.HeldBy = holder
	seat.HeldAt = l.now()
	seats[seatID] = seat
	return copySeatMap(seats), nil
}

// Release returns a selecting seat to available. Only the holder that took
// the hold may release it; booked seats are never released.
func (l *SeatLedger) Release(tripID, seatID, holder string) error {
	snap, err := l.releaseLocked(tripID, seatID, holder)
	if err != nil {
		return err
	}
	l.persist(tripID, snap)
	return nil
}

func (l *SeatLedger) releaseLocked(tripID, seatID, holder string) (models.SeatMap, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	seats, ok := l.trips[tripID]
	if !ok {
		return nil, domain.NotFoundError{Resource: "trip"}
	}
	seat, ok := seats[seatID]
	if !ok {
		return nil, domain.NotFoundError{Resource: "kursi"}
	}
	if seat.Status != models.SeatSelecting {
		return nil, domain.ConflictError{Resource: seatID, Msg: fmt.Sprintf("kursi sedang %s, tidak bisa dilepas", seat.Status)}
	}
	if seat.HeldBy != holder {
		return nil, domain.ConflictError{Resource: seatID, Msg: "bukan pemegang kursi"}
	}

	seats[seatID] = models.Seat{Status: models.SeatAvailable}
	return copySeatMap(seats), nil
}

// CommitResult reports whether a commit created new bookings or replayed
// an earlier successful one.
type CommitResult struct {
	Existing bool
}

// Commit books every seat in seatIDs atomically. All seats must be
// selecting by holder; if every seat is already booked by holder the call
// is an idempotent replay and succeeds with Existing set so the caller can
// skip creating a duplicate booking record. Any other state on any seat
// aborts the whole batch with no mutation.
func (l *SeatLedger) Commit(tripID string, seatIDs []string, holder string) (CommitResult, error) {
	snap, res, err := l.commitLocked(tripID, seatIDs, holder)
	if err != nil {
		return CommitResult{}, err
	}
	if snap != nil {
		l.persist(tripID, snap)
	}
	return res, nil
}

func (l *SeatLedger) commitLocked(tripID string, seatIDs []string, holder string) (models.SeatMap, CommitResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(seatIDs) == 0 {
		return nil, CommitResult{}, domain.ValidationError{Field: "seat_ids", Msg: "tidak boleh kosong"}
	}
	seats, ok := l.trips[tripID]
	if !ok {
		return nil, CommitResult{}, domain.NotFoundError{Resource: "trip"}
	}

	// Check-then-act as one critical section: verify the whole batch
	// before touching any seat.
	toBook := 0
	for _, seatID := range seatIDs {
		seat, ok := seats[seatID]
		if !ok {
			return nil, CommitResult{}, domain.NotFoundError{Resource: "kursi"}
		}
		switch {
		case seat.Status == models.SeatSelecting && seat.HeldBy == holder:
			toBook++
		case seat.Status == models.SeatBooked && seat.HeldBy == holder:
			// replay of an earlier commit, nothing to do for this seat
		default:
			return nil, CommitResult{}, domain.ConflictError{
				Resource: seatID,
				Msg:      fmt.Sprintf("status kursi tidak sesuai (%s)", seat.Status),
			}
		}
	}

	if toBook == 0 {
		// Every seat already booked by this holder: idempotent replay.
		return nil, CommitResult{Existing: true}, nil
	}

	now := l.now()
	for _, seatID := range seatIDs {
		seat := seats[seatID]
		if seat.Status == models.SeatSelecting {
			seat.Status = models.SeatBooked
			seat.HeldAt = now
			seats[seatID] = seat
		}
	}
	return copySeatMap(seats), CommitResult{}, nil
}

// ExpireStale resets every selecting seat whose hold is older than maxAge.
// Booked seats are never touched. Returns the number of seats reset.
func (l *SeatLedger) ExpireStale(maxAge time.Duration) int {
	snaps, count := l.expireLocked(maxAge)
	for tripID, snap := range snaps {
		l.persist(tripID, snap)
	}
	return count
}

func (l *SeatLedger) expireLocked(maxAge time.Duration) (map[string]models.SeatMap, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	count := 0
	modified := make(map[string]models.SeatMap)
	for tripID, seats := range l.trips {
		touched := false
		for seatID, seat := range seats {
			if seat.Status != models.SeatSelecting {
				continue
			}
			if now.Sub(seat.HeldAt) <= maxAge {
				continue
			}
			seats[seatID] = models.Seat{Status: models.SeatAvailable}
			count++
			touched = true
		}
		if touched {
			modified[tripID] = copySeatMap(seats)
		}
	}
	return modified, count
}

// AvailableCount reports how many seats of the trip are available.
// Unknown trips report 0 without initializing the layout.
func (l *SeatLedger) AvailableCount(tripID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	seats, ok := l.trips[tripID]
	if !ok {
		return 0
	}
	count := 0
	for _, seat := range seats {
		if seat.Available() {
			count++
		}
	}
	return count
}

// Known reports whether the trip has an initialized seat map.
func (l *SeatLedger) Known(tripID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.trips[tripID]
	return ok
}

// Snapshot returns copies of up to limit trips (sorted by trip id for a
// stable broadcast payload).
func (l *SeatLedger) Snapshot(limit int) map[string]models.SeatMap {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := make([]string, 0, len(l.trips))
	for tripID := range l.trips {
		ids = append(ids, tripID)
	}
	sort.Strings(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	out := make(map[string]models.SeatMap, len(ids))
	for _, tripID := range ids {
		out[tripID] = copySeatMap(l.trips[tripID])
	}
	return out
}

func (l *SeatLedger) persist(tripID string, snap models.SeatMap) {
	if l.store == nil || l.writer == nil || snap == nil {
		return
	}
	l.writer.Submit(func() {
		if err := l.store.Save(tripID, snap); err != nil {
			log.Printf("[SEATS] gagal simpan snapshot trip=%s: %v", tripID, err)
		}
	})
}
