package tracking

import (
	"context"
	"log"
	"math"
	"math/rand"
	"time"

	"backend-biketrack/internal/shared/geo"
)

const (
	// Bikes within this distance of their destination have arrived.
	arrivalThresholdKm = 0.05

	// Degrees of movement per tick. A deliberately slow, visually smooth
	// pace; not derived from elapsed time times real speed.
	moveStepDeg = 0.00001

	movingBatteryDrain = 0.2
	idleBatteryDrain   = 0.05
)

// Simulator advances every moving bike toward its destination on a fixed
// period. It is the only writer of position, speed, battery and path, and
// the only actor that clears a destination on arrival.
type Simulator struct {
	store    *Store
	interval time.Duration
}

func NewSimulator(store *Store, interval time.Duration) *Simulator {
	if interval <= 0 {
		interval = time.Second
	}
	return &Simulator{store: store, interval: interval}
}

func (s *Simulator) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick advances every tracked bike once. Bikes removed between the ID
// snapshot and the per-bike update are skipped, never re-inserted.
func (s *Simulator) Tick() {
	now := time.Now().UnixMilli()
	for _, bikeID := range s.store.IDs() {
		s.store.Update(bikeID, func(bike *TrackedBike) {
			advance(bike, now)
		})
	}
}

func advance(bike *TrackedBike, now int64) {
	drain := idleBatteryDrain

	if bike.IsMoving && bike.Destination != nil {
		drain = movingBatteryDrain
		dest := *bike.Destination

		d := geo.HaversineKm(bike.LastLocation.Lat, bike.LastLocation.Lng, dest.Lat, dest.Lng)
		if d > arrivalThresholdKm {
			dLat, dLng := geo.UnitDirection(bike.LastLocation.Lat, bike.LastLocation.Lng, dest.Lat, dest.Lng)
			bike.LastLocation.Lat += dLat * moveStepDeg
			bike.LastLocation.Lng += dLng * moveStepDeg
			bike.Path = append(bike.Path, PathPoint{
				Lat:       bike.LastLocation.Lat,
				Lng:       bike.LastLocation.Lng,
				Timestamp: now,
			})
			bike.Speed = 5 + rand.Intn(10)
			d = geo.HaversineKm(bike.LastLocation.Lat, bike.LastLocation.Lng, dest.Lat, dest.Lng)
		}
		// re-checked after advancing so a bike is never left moving
		// inside the arrival radius
		if d <= arrivalThresholdKm {
			bike.LastLocation = dest
			bike.Path = append(bike.Path, PathPoint{Lat: dest.Lat, Lng: dest.Lng, Timestamp: now})
			bike.Destination = nil
			bike.IsMoving = false
			bike.Speed = 0
			log.Printf("bike %d reached destination", bike.BikeID)
		}
	} else {
		bike.Speed = 0
	}

	bike.Battery = math.Max(0, bike.Battery-rand.Float64()*drain)
	bike.LastUpdated = now
}
