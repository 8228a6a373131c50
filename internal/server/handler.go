package server

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all connections for development
		return true
	},
}

// ServeWs upgrades an HTTP request to a WebSocket carrying the same
// message envelopes as the raw TCP listener.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := &Client{
		hub:       hub,
		transport: newWSTransport(conn),
		send:      make(chan []byte, 256),
	}
	hub.register <- client

	go client.WritePump()
	go client.ReadPump()
}
