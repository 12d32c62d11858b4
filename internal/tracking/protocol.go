package tracking

import (
	"encoding/json"
	"log"

	"backend-biketrack/internal/stream"

	"github.com/go-playground/validator/v10"
)

const (
	errNotAuthenticated        = "Not authenticated"
	errUnauthorizedStop        = "Unauthorized to stop tracking for this bike"
	errUnauthorizedDestination = "Unauthorized to set destination for this bike"
)

// Protocol dispatches inbound websocket commands against the store and the
// connection hub. One instance serves every connection; per-connection state
// lives on the stream.Client.
type Protocol struct {
	store    *Store
	hub      *stream.Hub
	validate *validator.Validate
}

func NewProtocol(store *Store, hub *stream.Hub) *Protocol {
	return &Protocol{
		store:    store,
		hub:      hub,
		validate: validator.New(),
	}
}

// HandleMessage processes one inbound envelope. Malformed payloads and
// unknown types are logged and dropped; the connection stays open.
func (p *Protocol) HandleMessage(c *stream.Client, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("dropping malformed message on conn %s: %v", c.ID, err)
		return
	}

	switch env.Type {
	case typeAuth:
		p.handleAuth(c, raw)
	case typeStartTracking:
		p.handleStartTracking(c, raw)
	case typeStopTracking:
		p.handleStopTracking(c, raw)
	case typeSetDestination:
		p.handleSetDestination(c, raw)
	default:
		log.Printf("dropping message with unknown type %q on conn %s", env.Type, c.ID)
	}
}

func (p *Protocol) handleAuth(c *stream.Client, raw []byte) {
	var req authRequest
	if !p.decode(c, raw, &req) {
		return
	}

	p.hub.Attach(c, req.UserID)
	log.Printf("user %d authenticated on conn %s", req.UserID, c.ID)

	p.reply(c, authSuccessMessage{Type: typeAuthSuccess, UserID: req.UserID})

	if bikes := p.store.ListByUser(req.UserID); len(bikes) > 0 {
		p.reply(c, trackingDataMessage{Type: typeTrackingData, Bikes: bikes})
	}
}

func (p *Protocol) handleStartTracking(c *stream.Client, raw []byte) {
	if c.UserID == 0 {
		p.replyError(c, errNotAuthenticated)
		return
	}

	var req startTrackingRequest
	if !p.decode(c, raw, &req) {
		return
	}

	_, rebound := p.store.StartTracking(req.BikeID, c.UserID, req.RentalID, req.StartLocation)
	if rebound {
		log.Printf("updated tracking for bike %d by user %d", req.BikeID, c.UserID)
	} else {
		log.Printf("started tracking bike %d for user %d", req.BikeID, c.UserID)
	}

	p.reply(c, bikeAckMessage{Type: typeTrackingStarted, BikeID: req.BikeID})
}

func (p *Protocol) handleStopTracking(c *stream.Client, raw []byte) {
	if c.UserID == 0 {
		p.replyError(c, errNotAuthenticated)
		return
	}

	var req stopTrackingRequest
	if !p.decode(c, raw, &req) {
		return
	}

	if err := p.store.StopTracking(req.BikeID, c.UserID); err != nil {
		p.replyError(c, errUnauthorizedStop)
		return
	}
	log.Printf("stopped tracking bike %d for user %d", req.BikeID, c.UserID)

	p.reply(c, bikeAckMessage{Type: typeTrackingStopped, BikeID: req.BikeID})
}

func (p *Protocol) handleSetDestination(c *stream.Client, raw []byte) {
	if c.UserID == 0 {
		p.replyError(c, errNotAuthenticated)
		return
	}

	var req setDestinationRequest
	if !p.decode(c, raw, &req) {
		return
	}

	if err := p.store.SetDestination(req.BikeID, c.UserID, req.Destination); err != nil {
		p.replyError(c, errUnauthorizedDestination)
		return
	}
	log.Printf("set destination for bike %d", req.BikeID)

	p.reply(c, destinationSetMessage{
		Type:        typeDestinationSet,
		BikeID:      req.BikeID,
		Destination: req.Destination,
	})
}

func (p *Protocol) decode(c *stream.Client, raw []byte, dst any) bool {
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Printf("dropping malformed payload on conn %s: %v", c.ID, err)
		return false
	}
	if err := p.validate.Struct(dst); err != nil {
		log.Printf("dropping invalid payload on conn %s: %v", c.ID, err)
		return false
	}
	return true
}

func (p *Protocol) reply(c *stream.Client, msg any) {
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal reply: %v", err)
		return
	}
	c.Enqueue(payload)
}

func (p *Protocol) replyError(c *stream.Client, message string) {
	p.reply(c, errorMessage{Type: typeError, Message: message})
}
