package broadcast

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"time"

	"busbooking/internal/domain/models"
)

// maxPayloadBytes keeps the datagram under the usual 64KB UDP limit with
// headroom for headers.
const maxPayloadBytes = 64000

// SnapshotSource is the slice of the seat ledger the broadcaster reads.
type SnapshotSource interface {
	Snapshot(limit int) map[string]models.SeatMap
}

// Broadcaster periodically pushes the current seat state over UDP so UI
// clients can sync without polling. Oversized or failed sends are dropped;
// the next tick carries fresher state anyway.
type Broadcaster struct {
	Source    SnapshotSource
	Addr      string
	Interval  time.Duration
	TripLimit int
}

type seatUpdateMessage struct {
	Type      string                    `json:"type"`
	Timestamp int64                     `json:"timestamp"`
	SeatsData map[string]models.SeatMap `json:"seats_data"`
}

// Run loops until ctx is done. A dial failure disables broadcasting for
// the life of the process rather than failing startup.
func (b *Broadcaster) Run(ctx context.Context) {
	conn, err := net.Dial("udp", b.Addr)
	if err != nil {
		log.Printf("[BROADCAST] dial %s gagal, broadcast nonaktif: %v", b.Addr, err)
		return
	}
	defer conn.Close()

	interval := b.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("[BROADCAST] seat update tiap %s ke %s", interval, b.Addr)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			payload, ok := b.buildPayload(time.Now())
			if !ok {
				continue
			}
			if _, err := conn.Write(payload); err != nil {
				log.Printf("[BROADCAST] kirim gagal: %v", err)
			}
		}
	}
}

// buildPayload returns the JSON datagram, or ok=false when there is
// nothing to send or the payload exceeds the size cap.
func (b *Broadcaster) buildPayload(now time.Time) ([]byte, bool) {
	seats := b.Source.Snapshot(b.TripLimit)
	if len(seats) == 0 {
		return nil, false
	}
	payload, err := json.Marshal(seatUpdateMessage{
		Type:      "SEAT_UPDATE",
		Timestamp: now.Unix(),
		SeatsData: seats,
	})
	if err != nil {
		log.Printf("[BROADCAST] encode gagal: %v", err)
		return nil, false
	}
	if len(payload) >= maxPayloadBytes {
		return nil, false
	}
	return payload, true
}
