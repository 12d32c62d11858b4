package tracking

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type PathPoint struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Timestamp int64   `json:"timestamp"`
}

// TrackedBike is the live tracking record for one rented bike. Timestamps
// are epoch milliseconds, matching the wire protocol.
type TrackedBike struct {
	BikeID        int         `json:"bikeId"`
	UserID        int         `json:"userId"`
	RentalID      int         `json:"rentalId"`
	StartLocation Coordinate  `json:"startLocation"`
	LastLocation  Coordinate  `json:"lastLocation"`
	Destination   *Coordinate `json:"destination,omitempty"`
	Battery       float64     `json:"battery"`
	Speed         int         `json:"speed"`
	IsMoving      bool        `json:"isMoving"`
	LastUpdated   int64       `json:"lastUpdated"`
	Path          []PathPoint `json:"path"`
}

// BikeUpdate is the reduced projection pushed on every broadcast tick.
// Path history is only delivered in the initial tracking_data snapshot.
type BikeUpdate struct {
	BikeID    int        `json:"bikeId"`
	Location  Coordinate `json:"location"`
	Speed     int        `json:"speed"`
	Battery   float64    `json:"battery"`
	IsMoving  bool       `json:"isMoving"`
	Timestamp int64      `json:"timestamp"`
}
