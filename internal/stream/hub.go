package stream

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hub maps a user ID to the set of live connections authenticated as that
// user. A user may hold several connections at once (multiple devices).
type Hub struct {
	redis   *redis.Client
	clients map[int]map[*Client]struct{}
	mu      sync.RWMutex
}

// Client is one websocket connection. UserID is zero until the connection
// authenticates and the client is attached to the hub.
type Client struct {
	ID     string
	UserID int
	Send   chan []byte
}

func NewClient() *Client {
	return &Client{
		ID:   uuid.NewString(),
		Send: make(chan []byte, 64),
	}
}

// Enqueue hands a payload to the connection's writer without blocking.
// A full buffer means the consumer is too slow and the frame is dropped.
func (c *Client) Enqueue(payload []byte) {
	select {
	case c.Send <- payload:
	default:
	}
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[int]map[*Client]struct{}{},
	}

	if redisClient != nil {
		pubsub := redisClient.PSubscribe(context.Background(), "tracking:user:*:broadcast")
		go h.forwardRedis(pubsub)
	}
	return h
}

// Attach registers the client under userID. A client that was already
// attached under another user is moved, which is how re-authentication on a
// live connection behaves.
func (h *Hub) Attach(client *Client, userID int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.detachLocked(client)
	client.UserID = userID
	if h.clients[userID] == nil {
		h.clients[userID] = map[*Client]struct{}{}
	}
	h.clients[userID][client] = struct{}{}
}

// Release removes the client from the hub and closes its send channel.
// Safe to call for clients that never authenticated.
func (h *Hub) Release(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.detachLocked(client)
	close(client.Send)
}

func (h *Hub) detachLocked(client *Client) {
	if client.UserID == 0 {
		return
	}
	if userClients, ok := h.clients[client.UserID]; ok {
		delete(userClients, client)
		if len(userClients) == 0 {
			delete(h.clients, client.UserID)
		}
	}
	client.UserID = 0
}

func (h *Hub) HasClients(userID int) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// FanOut reports whether broadcasts reach other instances through Redis.
func (h *Hub) FanOut() bool {
	return h.redis != nil
}

// Broadcast delivers a payload to every connection of userID. With Redis
// configured the payload goes through pub/sub so whichever instance holds
// the user's sockets delivers it; on publish failure delivery falls back to
// the local connections.
func (h *Hub) Broadcast(userID int, payload []byte) {
	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(userID), payload).Err()
		if err == nil {
			return
		}
		log.Printf("redis publish error: %v", err)
	}
	h.deliver(userID, payload)
}

func (h *Hub) deliver(userID int, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		client.Enqueue(payload)
	}
}

func (h *Hub) forwardRedis(pubsub *redis.PubSub) {
	defer pubsub.Close()
	for msg := range pubsub.Channel() {
		userID, ok := userIDFromChannel(msg.Channel)
		if !ok {
			continue
		}
		h.deliver(userID, []byte(msg.Payload))
	}
}

func redisChannel(userID int) string {
	return "tracking:user:" + strconv.Itoa(userID) + ":broadcast"
}

func userIDFromChannel(ch string) (int, bool) {
	// tracking:user:{id}:broadcast
	const prefix = "tracking:user:"
	const suffix = ":broadcast"
	if !strings.HasPrefix(ch, prefix) || !strings.HasSuffix(ch, suffix) {
		return 0, false
	}
	id, err := strconv.Atoi(ch[len(prefix) : len(ch)-len(suffix)])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
