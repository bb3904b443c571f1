package services

import (
	"sync"
	"testing"
	"time"

	"busbooking/internal/async"
	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

func newTestLedger() *SeatLedger {
	return NewSeatLedger(nil, nil)
}

func TestGetSeatsInitializesDefaultLayout(t *testing.T) {
	l := newTestLedger()
	seats := l.GetSeats("TRIP-1")

	if len(seats) != 40 {
		t.Fatalf("expected 40 seats, got %d", len(seats))
	}
	for _, id := range []string{"T1-A01", "T1-A20", "T2-B01", "T2-B20"} {
		seat, ok := seats[id]
		if !ok {
			t.Fatalf("seat %s missing from default layout", id)
		}
		if seat.Status != models.SeatAvailable {
			t.Fatalf("seat %s expected available, got %s", id, seat.Status)
		}
	}
}

func TestGetSeatsReturnsCopy(t *testing.T) {
	l := newTestLedger()
	seats := l.GetSeats("TRIP-1")
	seats["T1-A01"] = models.Seat{Status: models.SeatBooked, HeldBy: "intruder"}

	again := l.GetSeats("TRIP-1")
	if again["T1-A01"].Status != models.SeatAvailable {
		t.Fatalf("mutating the returned map leaked into the ledger")
	}
}

func TestHoldConflictSecondHolder(t *testing.T) {
	l := newTestLedger()
	l.GetSeats("T1")

	if err := l.Hold("T1", "T1-A01", "s1"); err != nil {
		t.Fatalf("first hold failed: %v", err)
	}
	err := l.Hold("T1", "T1-A01", "s2")
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict for second holder, got %v", err)
	}

	seat := l.GetSeats("T1")["T1-A01"]
	if seat.Status != models.SeatSelecting || seat.HeldBy != "s1" {
		t.Fatalf("seat should stay selecting by s1, got %s/%s", seat.Status, seat.HeldBy)
	}
}

func TestHoldUnknownTripAndSeat(t *testing.T) {
	l := newTestLedger()

	if err := l.Hold("NOPE", "T1-A01", "s1"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found for unknown trip, got %v", err)
	}

	l.GetSeats("T1")
	if err := l.Hold("T1", "T9-Z99", "s1"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found for unknown seat, got %v", err)
	}
}

func TestReleaseOnlyByHolder(t *testing.T) {
	l := newTestLedger()
	l.GetSeats("T1")
	if err := l.Hold("T1", "T1-A01", "s1"); err != nil {
		t.Fatalf("hold failed: %v", err)
	}

	if err := l.Release("T1", "T1-A01", "s2"); !domain.IsConflict(err) {
		t.Fatalf("expected conflict for wrong holder, got %v", err)
	}
	seat := l.GetSeats("T1")["T1-A01"]
	if seat.Status != models.SeatSelecting {
		t.Fatalf("failed release must not mutate, seat is %s", seat.Status)
	}

	if err := l.Release("T1", "T1-A01", "s1"); err != nil {
		t.Fatalf("release by holder failed: %v", err)
	}
	seat = l.GetSeats("T1")["T1-A01"]
	if seat.Status != models.SeatAvailable || seat.HeldBy != "" {
		t.Fatalf("released seat should be available with no holder, got %s/%s", seat.Status, seat.HeldBy)
	}
}

func TestReleaseBookedSeatRejected(t *testing.T) {
	l := newTestLedger()
	l.GetSeats("T1")
	mustHold(t, l, "T1", "T1-A01", "s1")
	mustCommit(t, l, "T1", []string{"T1-A01"}, "s1")

	if err := l.Release("T1", "T1-A01", "s1"); !domain.IsConflict(err) {
		t.Fatalf("booked seat must not be releasable, got %v", err)
	}
	if got := l.GetSeats("T1")["T1-A01"].Status; got != models.SeatBooked {
		t.Fatalf("seat should stay booked, got %s", got)
	}
}

func TestCommitBooksHeldSeats(t *testing.T) {
	l := newTestLedger()
	l.GetSeats("T1")
	mustHold(t, l, "T1", "T1-A01", "s1")
	mustHold(t, l, "T1", "T1-A02", "s1")

	res, err := l.Commit("T1", []string{"T1-A01", "T1-A02"}, "s1")
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if res.Existing {
		t.Fatalf("first commit must not be flagged existing")
	}
	for _, id := range []string{"T1-A01", "T1-A02"} {
		seat := l.GetSeats("T1")[id]
		if seat.Status != models.SeatBooked || seat.HeldBy != "s1" {
			t.Fatalf("seat %s expected booked by s1, got %s/%s", id, seat.Status, seat.HeldBy)
		}
	}
}

func TestCommitIdempotentReplay(t *testing.T) {
	l := newTestLedger()
	l.GetSeats("T1")
	mustHold(t, l, "T1", "T1-A01", "s1")
	mustCommit(t, l, "T1", []string{"T1-A01"}, "s1")

	res, err := l.Commit("T1", []string{"T1-A01"}, "s1")
	if err != nil {
		t.Fatalf("replayed commit failed: %v", err)
	}
	if !res.Existing {
		t.Fatalf("replayed commit must be flagged existing")
	}
}

func TestCommitAllOrNothing(t *testing.T) {
	l := newTestLedger()
	l.GetSeats("T1")
	mustHold(t, l, "T1", "T1-A01", "s1")
	mustCommit(t, l, "T1", []string{"T1-A01"}, "s1")
	// T1-A02 was never held.

	_, err := l.Commit("T1", []string{"T1-A01", "T1-A02"}, "s1")
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict for mixed batch, got %v", err)
	}
	seats := l.GetSeats("T1")
	if seats["T1-A01"].Status != models.SeatBooked {
		t.Fatalf("booked seat must not change, got %s", seats["T1-A01"].Status)
	}
	if seats["T1-A02"].Status != models.SeatAvailable {
		t.Fatalf("never-held seat must not change, got %s", seats["T1-A02"].Status)
	}
}

func TestCommitAbortsWhenSeatHeldByOther(t *testing.T) {
	l := newTestLedger()
	l.GetSeats("T1")
	mustHold(t, l, "T1", "T1-A01", "s1")
	mustHold(t, l, "T1", "T1-A02", "s2")

	_, err := l.Commit("T1", []string{"T1-A01", "T1-A02"}, "s1")
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	seats := l.GetSeats("T1")
	if seats["T1-A01"].Status != models.SeatSelecting || seats["T1-A01"].HeldBy != "s1" {
		t.Fatalf("s1's hold must survive an aborted commit")
	}
	if seats["T1-A02"].HeldBy != "s2" {
		t.Fatalf("s2's hold must survive an aborted commit")
	}
}

func TestExpireStaleResetsOldHolds(t *testing.T) {
	l := newTestLedger()
	base := time.Now()
	l.now = func() time.Time { return base }

	l.GetSeats("T1")
	mustHold(t, l, "T1", "T1-A02", "s1")

	l.now = func() time.Time { return base.Add(301 * time.Second) }
	if n := l.ExpireStale(300 * time.Second); n != 1 {
		t.Fatalf("expected 1 expired seat, got %d", n)
	}
	seat := l.GetSeats("T1")["T1-A02"]
	if seat.Status != models.SeatAvailable || seat.HeldBy != "" {
		t.Fatalf("expired seat should be available, got %s/%s", seat.Status, seat.HeldBy)
	}
}

func TestExpireStaleKeepsFreshAndBooked(t *testing.T) {
	l := newTestLedger()
	base := time.Now()
	l.now = func() time.Time { return base }

	l.GetSeats("T1")
	mustHold(t, l, "T1", "T1-A01", "s1")
	mustCommit(t, l, "T1", []string{"T1-A01"}, "s1")
	mustHold(t, l, "T1", "T1-A02", "s1")

	// A02 is only 10s old, A01 is booked: neither expires.
	l.now = func() time.Time { return base.Add(10 * time.Second) }
	if n := l.ExpireStale(300 * time.Second); n != 0 {
		t.Fatalf("nothing should expire yet, got %d", n)
	}

	// Way past the timeout the booked seat still stays booked.
	l.now = func() time.Time { return base.Add(24 * time.Hour) }
	if n := l.ExpireStale(300 * time.Second); n != 1 {
		t.Fatalf("only the selecting seat should expire, got %d", n)
	}
	if got := l.GetSeats("T1")["T1-A01"].Status; got != models.SeatBooked {
		t.Fatalf("booked seat must never expire, got %s", got)
	}
}

func TestAvailableCount(t *testing.T) {
	l := newTestLedger()

	if got := l.AvailableCount("UNKNOWN"); got != 0 {
		t.Fatalf("unknown trip should count 0, got %d", got)
	}
	if l.Known("UNKNOWN") {
		t.Fatalf("AvailableCount must not initialize the trip")
	}

	l.GetSeats("T1")
	if got := l.AvailableCount("T1"); got != 40 {
		t.Fatalf("fresh trip should count 40, got %d", got)
	}
	mustHold(t, l, "T1", "T1-A01", "s1")
	if got := l.AvailableCount("T1"); got != 39 {
		t.Fatalf("after one hold expected 39, got %d", got)
	}
}

func TestConcurrentHoldsExactlyOneWins(t *testing.T) {
	l := newTestLedger()
	l.GetSeats("T1")

	const holders = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0

	for i := 0; i < holders; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := l.Hold("T1", "T1-A01", string(rune('a'+n%26))+"holder"); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("exactly one concurrent hold must win, got %d", successes)
	}
}

type memSnapshotStore struct {
	mu    sync.Mutex
	saved map[string]models.SeatMap
}

func (m *memSnapshotStore) Save(tripID string, seats models.SeatMap) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		m.saved = make(map[string]models.SeatMap)
	}
	m.saved[tripID] = seats
	return nil
}

func (m *memSnapshotStore) LoadAll() (map[string]models.SeatMap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]models.SeatMap, len(m.saved))
	for k, v := range m.saved {
		out[k] = v
	}
	return out, nil
}

func TestMutationsScheduleSnapshots(t *testing.T) {
	store := &memSnapshotStore{}
	writer := async.NewPool(2, 16)
	l := NewSeatLedger(store, writer)

	l.GetSeats("T1")
	mustHold(t, l, "T1", "T1-A05", "s1")
	writer.Close()

	store.mu.Lock()
	snap, ok := store.saved["T1"]
	store.mu.Unlock()
	if !ok {
		t.Fatalf("hold should have persisted a snapshot")
	}
	if snap["T1-A05"].Status != models.SeatSelecting {
		t.Fatalf("snapshot should carry the selecting state, got %s", snap["T1-A05"].Status)
	}
}

func TestLedgerSeedsFromStore(t *testing.T) {
	store := &memSnapshotStore{
		saved: map[string]models.SeatMap{
			"T9": {
				"T1-A01": {Status: models.SeatBooked, HeldBy: "s7"},
			},
		},
	}
	l := NewSeatLedger(store, nil)

	if !l.Known("T9") {
		t.Fatalf("persisted trip should be known at startup")
	}
	if got := l.GetSeats("T9")["T1-A01"].Status; got != models.SeatBooked {
		t.Fatalf("persisted state lost, got %s", got)
	}
}

func TestSnapshotLimit(t *testing.T) {
	l := newTestLedger()
	l.GetSeats("A")
	l.GetSeats("B")
	l.GetSeats("C")

	snap := l.Snapshot(2)
	if len(snap) != 2 {
		t.Fatalf("expected 2 trips, got %d", len(snap))
	}
	// Sorted by trip id, so A and B survive the cap.
	for _, id := range []string{"A", "B"} {
		if _, ok := snap[id]; !ok {
			t.Fatalf("trip %s missing from capped snapshot", id)
		}
	}
}

func mustHold(t *testing.T, l *SeatLedger, trip, seat, holder string) {
	t.Helper()
	if err := l.Hold(trip, seat, holder); err != nil {
		t.Fatalf("hold %s/%s by %s failed: %v", trip, seat, holder, err)
	}
}

func mustCommit(t *testing.T, l *SeatLedger, trip string, seats []string, holder string) {
	t.Helper()
	if _, err := l.Commit(trip, seats, holder); err != nil {
		t.Fatalf("commit %s/%v by %s failed: %v", trip, seats, holder, err)
	}
}
