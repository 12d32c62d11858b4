package tracking

import (
	"errors"
	"math/rand"
	"sync"
	"time"
)

const defaultPathLimit = 600

// ErrNotOwner is returned when a bike is not tracked at all or is tracked
// for a different user. Callers cannot distinguish the two cases.
var ErrNotOwner = errors.New("bike not tracked for this user")

// Store holds every tracked bike, keyed by bike ID. It is the single
// coupling point between the protocol layer, the simulator and the
// broadcaster; every mutation runs under the write lock so no reader ever
// observes a half-updated record.
type Store struct {
	mu        sync.RWMutex
	bikes     map[int]*TrackedBike
	pathLimit int
}

func NewStore(pathLimit int) *Store {
	if pathLimit <= 0 {
		pathLimit = defaultPathLimit
	}
	return &Store{
		bikes:     map[int]*TrackedBike{},
		pathLimit: pathLimit,
	}
}

// StartTracking creates a record for bikeID or, when one already exists,
// re-binds it to the new owner and rental while keeping its position and
// path. The re-bind deliberately skips an ownership check (rental handoff);
// this is the only code path that reassigns a bike to another user.
func (s *Store) StartTracking(bikeID, userID, rentalID int, start Coordinate) (TrackedBike, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.bikes[bikeID]; ok {
		existing.UserID = userID
		existing.RentalID = rentalID
		existing.LastUpdated = time.Now().UnixMilli()
		return cloneBike(existing), true
	}

	now := time.Now().UnixMilli()
	bike := &TrackedBike{
		BikeID:        bikeID,
		UserID:        userID,
		RentalID:      rentalID,
		StartLocation: start,
		LastLocation:  start,
		Battery:       float64(70 + rand.Intn(30)),
		Speed:         0,
		IsMoving:      false,
		LastUpdated:   now,
		Path:          []PathPoint{{Lat: start.Lat, Lng: start.Lng, Timestamp: now}},
	}
	s.bikes[bikeID] = bike
	return cloneBike(bike), false
}

// SetDestination marks the bike as moving toward dest. Ownership is checked
// under the same lock as the mutation.
func (s *Store) SetDestination(bikeID, userID int, dest Coordinate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bike, ok := s.bikes[bikeID]
	if !ok || bike.UserID != userID {
		return ErrNotOwner
	}
	d := dest
	bike.Destination = &d
	bike.IsMoving = true
	bike.LastUpdated = time.Now().UnixMilli()
	return nil
}

// StopTracking removes the bike. Once this returns, no simulation or
// broadcast tick can observe or resurrect the record.
func (s *Store) StopTracking(bikeID, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bike, ok := s.bikes[bikeID]
	if !ok || bike.UserID != userID {
		return ErrNotOwner
	}
	delete(s.bikes, bikeID)
	return nil
}

// Update applies fn to the record under the write lock. Returns false when
// the bike is no longer tracked, in which case fn is not called.
func (s *Store) Update(bikeID int, fn func(*TrackedBike)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	bike, ok := s.bikes[bikeID]
	if !ok {
		return false
	}
	fn(bike)
	if len(bike.Path) > s.pathLimit {
		trimmed := make([]PathPoint, s.pathLimit)
		copy(trimmed, bike.Path[len(bike.Path)-s.pathLimit:])
		bike.Path = trimmed
	}
	return true
}

func (s *Store) Get(bikeID int) (TrackedBike, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bike, ok := s.bikes[bikeID]
	if !ok {
		return TrackedBike{}, false
	}
	return cloneBike(bike), true
}

func (s *Store) ListByUser(userID int) []TrackedBike {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var bikes []TrackedBike
	for _, bike := range s.bikes {
		if bike.UserID == userID {
			bikes = append(bikes, cloneBike(bike))
		}
	}
	return bikes
}

// Users returns the distinct owners of all tracked bikes.
func (s *Store) Users() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[int]struct{}{}
	var users []int
	for _, bike := range s.bikes {
		if _, ok := seen[bike.UserID]; !ok {
			seen[bike.UserID] = struct{}{}
			users = append(users, bike.UserID)
		}
	}
	return users
}

func (s *Store) IDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int, 0, len(s.bikes))
	for id := range s.bikes {
		ids = append(ids, id)
	}
	return ids
}

func cloneBike(bike *TrackedBike) TrackedBike {
	clone := *bike
	clone.Path = append([]PathPoint(nil), bike.Path...)
	if bike.Destination != nil {
		dest := *bike.Destination
		clone.Destination = &dest
	}
	return clone
}
