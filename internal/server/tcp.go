package server

import (
	"log"
	"net"
)

// ListenTCP accepts raw TCP connections speaking newline-delimited JSON
// envelopes and hands each one to the hub. Blocks until the listener
// fails.
func ListenTCP(hub *Hub, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Printf("TCP listener started on %s", addr)

	for {
		conn, err := listener.Accept()
		if err != nil {
			log.Printf("Failed to accept connection: %v", err)
			return err
		}

		client := &Client{
			hub:       hub,
			transport: newTCPTransport(conn),
			send:      make(chan []byte, 256),
		}
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
