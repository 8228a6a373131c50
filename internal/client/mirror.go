// Package client implements a thin TCP client for a hosted match. It
// keeps a local mirror of the authoritative game state: every
// STATE_SYNC replaces the mirror wholesale, so applying the same sync
// twice is a no-op and a missed frame is healed by the next one.
package client

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"sync"

	"four-hundred-game/internal/protocol"
	"four-hundred-game/internal/shared"
)

// Mirror is a connection to a host plus the last snapshot it sent.
type Mirror struct {
	conn   net.Conn
	writeM sync.Mutex

	mu       sync.RWMutex
	state    protocol.GameSnapshot
	selfID   string
	hasState bool

	// OnUpdate fires after each applied STATE_SYNC, OnError on each
	// ERROR frame from the host. Both run on the read goroutine.
	OnUpdate func(protocol.GameSnapshot)
	OnError  func(string)
}

// Dial connects to a host and joins the match. Pass a previously
// assigned playerID to reclaim a seat after a disconnect, or empty for
// a fresh seat.
func Dial(addr, name, playerID string) (*Mirror, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to host %s: %w", addr, err)
	}

	m := &Mirror{conn: conn, selfID: playerID}
	go m.readLoop()

	join := protocol.JoinPayload{Name: name, PlayerID: playerID}
	if err := m.send(protocol.ActionJoin, join); err != nil {
		conn.Close()
		return nil, err
	}
	return m, nil
}

func (m *Mirror) readLoop() {
	reader := bufio.NewReader(m.conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			log.Printf("connection to host lost: %v", err)
			return
		}

		msg, err := protocol.Decode(line)
		if err != nil {
			log.Printf("dropping malformed frame from host: %v", err)
			continue
		}

		switch msg.Action {
		case protocol.ActionStateSync:
			var snap protocol.GameSnapshot
			if err := json.Unmarshal(msg.Payload, &snap); err != nil {
				log.Printf("dropping unreadable state sync: %v", err)
				continue
			}
			m.ApplySnapshot(snap)

		case protocol.ActionError:
			var payload protocol.ErrorPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				continue
			}
			if m.OnError != nil {
				m.OnError(payload.Message)
			}

		case protocol.ActionPong:
			// Keepalive reply, nothing to track.

		default:
			log.Printf("ignoring %s from host", msg.Action)
		}
	}
}

// ApplySnapshot replaces the mirrored state with the host's snapshot.
// Replacement is wholesale, so reapplying the current snapshot changes
// nothing.
func (m *Mirror) ApplySnapshot(snap protocol.GameSnapshot) {
	m.mu.Lock()
	if snap.YourPlayerID != "" {
		m.selfID = snap.YourPlayerID
	}
	snap.YourPlayerID = m.selfID
	m.state = snap
	m.hasState = true
	m.mu.Unlock()

	if m.OnUpdate != nil {
		m.OnUpdate(snap)
	}
}

// State returns the last mirrored snapshot and whether one has arrived.
func (m *Mirror) State() (protocol.GameSnapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state, m.hasState
}

// PlayerID returns the seat id the host assigned on join.
func (m *Mirror) PlayerID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.selfID
}

// PlaceBid sends a bid intent. The host validates; the mirror only
// changes when a STATE_SYNC comes back.
func (m *Mirror) PlaceBid(bid int) error {
	return m.send(protocol.ActionPlaceBid, protocol.PlaceBidPayload{Bid: bid})
}

// PlayCard sends a play intent for the given card.
func (m *Mirror) PlayCard(card shared.Card) error {
	return m.send(protocol.ActionPlayCard, protocol.PlayCardPayload{Card: card.String()})
}

// RequestSync asks the host for a fresh full snapshot.
func (m *Mirror) RequestSync() error {
	return m.send(protocol.ActionRequestSync, nil)
}

// Ping sends a keepalive probe.
func (m *Mirror) Ping() error {
	return m.send(protocol.ActionPing, nil)
}

// Leave gives up the seat and closes the connection.
func (m *Mirror) Leave() error {
	if err := m.send(protocol.ActionLeave, nil); err != nil {
		return err
	}
	return m.Close()
}

// Close tears down the connection without leaving the seat, so the
// same player id can reclaim it later.
func (m *Mirror) Close() error {
	return m.conn.Close()
}

func (m *Mirror) send(action protocol.Action, payload interface{}) error {
	m.mu.RLock()
	sender := m.selfID
	m.mu.RUnlock()

	frame, err := protocol.NewMessage(sender, action, payload)
	if err != nil {
		return err
	}

	m.writeM.Lock()
	defer m.writeM.Unlock()
	if _, err := m.conn.Write(append(frame, '\n')); err != nil {
		return fmt.Errorf("failed to send %s: %w", action, err)
	}
	return nil
}
