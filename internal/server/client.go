package server

import (
	"log"

	"four-hundred-game/internal/protocol"
)

// Client represents a single remote connection, TCP or WebSocket.
type Client struct {
	hub       *Hub
	transport transport
	send      chan []byte
	ID        string // connection id; the seat's player id is tracked by the hub
}

// ReadPump reads frames from the connection and funnels decoded
// envelopes into the hub's single processing loop. A frame that fails to
// decode closes this connection only; the host keeps running.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.transport.Close()
	}()

	for {
		frame, err := c.transport.ReadFrame()
		if err != nil {
			log.Printf("read error from client %s (%s): %v", c.ID, c.transport.RemoteAddr(), err)
			break
		}

		msg, err := protocol.Decode(frame)
		if err != nil {
			log.Printf("malformed frame from client %s: %v", c.ID, err)
			// WritePump is the sole writer on the connection; the reply
			// is queued, never written from the read goroutine.
			if reply, merr := protocol.NewMessage(hostSenderID, protocol.ActionError,
				protocol.ErrorPayload{Message: "malformed message"}); merr == nil {
				select {
				case c.send <- reply:
				default:
				}
			}
			break
		}

		c.hub.inbound <- clientMessage{client: c, message: msg}
	}
}

// WritePump drains the send channel onto the connection.
func (c *Client) WritePump() {
	defer c.transport.Close()

	for message := range c.send {
		if err := c.transport.WriteFrame(message); err != nil {
			log.Printf("write error to client %s: %v", c.ID, err)
			break
		}
	}
}
