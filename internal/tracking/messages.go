package tracking

// Inbound message types.
const (
	typeAuth           = "auth"
	typeStartTracking  = "start_tracking"
	typeStopTracking   = "stop_tracking"
	typeSetDestination = "set_destination"
)

// Outbound message types.
const (
	typeAuthSuccess     = "auth_success"
	typeTrackingData    = "tracking_data"
	typeTrackingStarted = "tracking_started"
	typeTrackingStopped = "tracking_stopped"
	typeDestinationSet  = "destination_set"
	typeLocationUpdate  = "location_update"
	typeError           = "error"
)

type envelope struct {
	Type string `json:"type"`
}

type authRequest struct {
	UserID int `json:"userId" validate:"required,gt=0"`
}

type startTrackingRequest struct {
	BikeID        int        `json:"bikeId" validate:"required,gt=0"`
	RentalID      int        `json:"rentalId" validate:"required,gt=0"`
	StartLocation Coordinate `json:"startLocation"`
}

type stopTrackingRequest struct {
	BikeID int `json:"bikeId" validate:"required,gt=0"`
}

type setDestinationRequest struct {
	BikeID      int        `json:"bikeId" validate:"required,gt=0"`
	Destination Coordinate `json:"destination"`
}

type authSuccessMessage struct {
	Type   string `json:"type"`
	UserID int    `json:"userId"`
}

type trackingDataMessage struct {
	Type  string        `json:"type"`
	Bikes []TrackedBike `json:"bikes"`
}

type bikeAckMessage struct {
	Type   string `json:"type"`
	BikeID int    `json:"bikeId"`
}

type destinationSetMessage struct {
	Type        string     `json:"type"`
	BikeID      int        `json:"bikeId"`
	Destination Coordinate `json:"destination"`
}

type locationUpdateMessage struct {
	Type  string       `json:"type"`
	Bikes []BikeUpdate `json:"bikes"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
