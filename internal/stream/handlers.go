package stream

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// MessageHandler processes one inbound text message from a connection.
// Replies are enqueued on the client directly.
type MessageHandler interface {
	HandleMessage(client *Client, raw []byte)
}

func RegisterRoutes(r fiber.Router, hub *Hub, handler MessageHandler) {
	r.Get("/ws", websocket.New(func(c *websocket.Conn) {
		client := NewClient()

		done := make(chan struct{})
		go func() {
			defer close(done)
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					// dead consumer; force the read loop to exit too
					_ = c.Close()
					return
				}
			}
		}()

		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				break
			}
			handler.HandleMessage(client, raw)
		}

		hub.Release(client)
		<-done
	}))
}
