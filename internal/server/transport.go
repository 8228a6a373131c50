package server

import (
	"bufio"
	"bytes"
	"net"

	"github.com/gorilla/websocket"
)

// transport abstracts one framed connection. The protocol runs the same
// over both transports: one JSON envelope per frame.
type transport interface {
	ReadFrame() ([]byte, error)
	WriteFrame([]byte) error
	Close() error
	RemoteAddr() string
}

// tcpTransport frames messages as newline-delimited JSON over a raw TCP
// stream, the format the game has always spoken on the local network.
type tcpTransport struct {
	conn   net.Conn
	reader *bufio.Reader
}

func newTCPTransport(conn net.Conn) *tcpTransport {
	return &tcpTransport{
		conn:   conn,
		reader: bufio.NewReader(conn),
	}
}

func (t *tcpTransport) ReadFrame() ([]byte, error) {
	line, err := t.reader.ReadBytes('\n')
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(line, "\r\n"), nil
}

func (t *tcpTransport) WriteFrame(frame []byte) error {
	if _, err := t.conn.Write(frame); err != nil {
		return err
	}
	_, err := t.conn.Write([]byte{'\n'})
	return err
}

func (t *tcpTransport) Close() error {
	return t.conn.Close()
}

func (t *tcpTransport) RemoteAddr() string {
	return t.conn.RemoteAddr().String()
}

// wsTransport carries the same envelopes over a WebSocket connection for
// browser clients.
type wsTransport struct {
	conn *websocket.Conn
}

func newWSTransport(conn *websocket.Conn) *wsTransport {
	return &wsTransport{conn: conn}
}

func (t *wsTransport) ReadFrame() ([]byte, error) {
	_, frame, err := t.conn.ReadMessage()
	return frame, err
}

func (t *wsTransport) WriteFrame(frame []byte) error {
	return t.conn.WriteMessage(websocket.TextMessage, frame)
}

func (t *wsTransport) Close() error {
	return t.conn.Close()
}

func (t *wsTransport) RemoteAddr() string {
	return t.conn.RemoteAddr().String()
}
