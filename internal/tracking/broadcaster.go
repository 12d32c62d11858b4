package tracking

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"backend-biketrack/internal/stream"
)

// Broadcaster periodically pushes a telemetry snapshot to every connection
// of each user with tracked bikes. Its period is independent of the
// simulation tick; how fast bikes move is decoupled from how often clients
// are told.
type Broadcaster struct {
	store    *Store
	hub      *stream.Hub
	interval time.Duration
}

func NewBroadcaster(store *Store, hub *stream.Hub, interval time.Duration) *Broadcaster {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Broadcaster{store: store, hub: hub, interval: interval}
}

func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.Tick()
		}
	}
}

// Tick sends one location_update per user owning tracked bikes. Users with
// no reachable connections are skipped; their bikes keep advancing
// server-side regardless.
func (b *Broadcaster) Tick() {
	for _, userID := range b.store.Users() {
		if !b.hub.HasClients(userID) && !b.hub.FanOut() {
			continue
		}

		bikes := b.store.ListByUser(userID)
		if len(bikes) == 0 {
			continue
		}

		updates := make([]BikeUpdate, 0, len(bikes))
		for _, bike := range bikes {
			updates = append(updates, BikeUpdate{
				BikeID:    bike.BikeID,
				Location:  bike.LastLocation,
				Speed:     bike.Speed,
				Battery:   bike.Battery,
				IsMoving:  bike.IsMoving,
				Timestamp: bike.LastUpdated,
			})
		}

		payload, err := json.Marshal(locationUpdateMessage{Type: typeLocationUpdate, Bikes: updates})
		if err != nil {
			log.Printf("marshal location update for user %d: %v", userID, err)
			continue
		}
		b.hub.Broadcast(userID, payload)
	}
}
