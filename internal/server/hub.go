package server

import (
	"encoding/json"
	"log"
	"time"

	"four-hundred-game/internal/config"
	"four-hundred-game/internal/database"
	"four-hundred-game/internal/game"
	"four-hundred-game/internal/protocol"
	"four-hundred-game/internal/shared"

	"github.com/google/uuid"
)

// hostSenderID marks host-originated envelopes.
const hostSenderID = "HOST"

// clientMessage pairs a decoded envelope with the connection it came from.
type clientMessage struct {
	client  *Client
	message protocol.Message
}

var botNames = []string{"Bot Rami", "Bot Layla", "Bot Ziad", "Bot Hana"}

// Hub owns the single authoritative match. Every intent (remote frames,
// disconnects, AI kicks) funnels through the one Run loop, so the
// engine is only ever mutated from one goroutine. Connection handlers
// produce to the hub's channels and consume broadcast frames; they never
// touch the engine.
type Hub struct {
	cfg   *config.Config
	store *database.Service
	match *game.Game

	clients        map[*Client]bool
	playerByClient map[*Client]string
	clientByPlayer map[string]*Client

	register   chan *Client
	unregister chan *Client
	inbound    chan clientMessage
	aiKick     chan struct{}
	events     chan game.Event
}

// NewHub creates the hub and its match: the configured number of human
// seats waiting for remote players, the rest filled with AI opponents.
func NewHub(cfg *config.Config, store *database.Service) *Hub {
	humanSeats := cfg.HumanSeats
	if humanSeats < 0 {
		humanSeats = 0
	}
	if humanSeats > game.NumPlayers {
		humanSeats = game.NumPlayers
	}

	var players [game.NumPlayers]*shared.Player
	for i := 0; i < game.NumPlayers; i++ {
		if i < humanSeats {
			players[i] = shared.NewPlayer("", shared.Human, 0)
		} else {
			players[i] = shared.NewPlayer(botNames[i], shared.AI, 0)
		}
	}

	h := &Hub{
		cfg:            cfg,
		store:          store,
		clients:        make(map[*Client]bool),
		playerByClient: make(map[*Client]string),
		clientByPlayer: make(map[string]*Client),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		inbound:        make(chan clientMessage),
		aiKick:         make(chan struct{}, game.NumPlayers),
		events:         make(chan game.Event, 64),
	}
	h.match = game.NewGame(players, game.Options{
		WinThreshold: cfg.WinThreshold,
		Networked:    true,
	})
	h.match.SetEventSink(func(ev game.Event) {
		select {
		case h.events <- ev:
		default:
			log.Printf("hub: event channel full, dropping %T", ev)
		}
	})
	return h
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	if h.cfg.HumanSeats <= 0 {
		// AI-only match: nothing to wait for.
		if err := h.match.Start(); err == nil {
			h.scheduleAI()
		}
	}

	for {
		select {
		case client := <-h.register:
			client.ID = uuid.NewString()
			h.clients[client] = true
			log.Printf("client %s (%s) connected", client.ID, client.transport.RemoteAddr())

		case client := <-h.unregister:
			if _, ok := h.clients[client]; !ok {
				continue
			}
			delete(h.clients, client)
			close(client.send)
			if playerID, attached := h.playerByClient[client]; attached {
				delete(h.playerByClient, client)
				delete(h.clientByPlayer, playerID)
				log.Printf("client %s detached from player %s; seat waits for reconnection", client.ID, playerID)
				// The round keeps running; remaining players see the
				// connectivity change.
				h.broadcastState()
			} else {
				log.Printf("client %s disconnected", client.ID)
			}

		case cm := <-h.inbound:
			h.handleMessage(cm.client, cm.message)

		case <-h.aiKick:
			h.advanceAI()

		case ev := <-h.events:
			h.handleEvent(ev)
		}
	}
}

// handleMessage processes one decoded envelope inside the hub loop.
func (h *Hub) handleMessage(client *Client, msg protocol.Message) {
	switch msg.Action {
	case protocol.ActionJoin:
		h.handleJoin(client, msg)

	case protocol.ActionLeave:
		h.detach(client)

	case protocol.ActionPlaceBid:
		playerID, ok := h.playerByClient[client]
		if !ok {
			h.sendError(client, "join the match before bidding")
			return
		}
		var payload protocol.PlaceBidPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			h.sendError(client, "invalid PLACE_BID payload")
			return
		}
		if err := h.match.PlaceBid(playerID, payload.Bid); err != nil {
			h.sendError(client, err.Error())
			return
		}
		h.broadcastState()
		h.scheduleAI()

	case protocol.ActionPlayCard:
		playerID, ok := h.playerByClient[client]
		if !ok {
			h.sendError(client, "join the match before playing")
			return
		}
		var payload protocol.PlayCardPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			h.sendError(client, "invalid PLAY_CARD payload")
			return
		}
		card, err := shared.ParseCard(payload.Card)
		if err != nil {
			h.sendError(client, err.Error())
			return
		}
		if err := h.match.PlayCard(playerID, card); err != nil {
			h.sendError(client, err.Error())
			return
		}
		h.broadcastState()
		h.scheduleAI()

	case protocol.ActionRequestSync:
		h.sendSync(client, h.playerByClient[client])

	case protocol.ActionPing:
		if frame, err := protocol.NewMessage(hostSenderID, protocol.ActionPong, nil); err == nil {
			h.sendFrame(client, frame)
		}

	default:
		log.Printf("ignoring %s from client %s", msg.Action, client.ID)
	}
}

// handleJoin attaches the connection to a seat: a named seat when the
// join carries a known player id (reconnection by identity), otherwise
// the first free human seat.
func (h *Hub) handleJoin(client *Client, msg protocol.Message) {
	if _, seated := h.playerByClient[client]; seated {
		h.sendSync(client, h.playerByClient[client])
		return
	}

	var payload protocol.JoinPayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			h.sendError(client, "invalid JOIN payload")
			return
		}
	}

	var seat *shared.Player
	if payload.PlayerID != "" {
		p := h.match.PlayerByID(payload.PlayerID)
		if p == nil || p.IsAI() {
			h.sendError(client, "unknown player id")
			return
		}
		if h.clientByPlayer[p.ID] != nil {
			h.sendError(client, "seat already connected")
			return
		}
		seat = p
	} else {
		for _, p := range h.match.Players {
			if !p.IsAI() && h.clientByPlayer[p.ID] == nil {
				seat = p
				break
			}
		}
		if seat == nil {
			h.sendError(client, "match is full")
			return
		}
	}

	if payload.Name != "" {
		seat.Name = payload.Name
	}
	h.playerByClient[client] = seat.ID
	h.clientByPlayer[seat.ID] = client
	log.Printf("client %s seated as player %s (%s)", client.ID, seat.ID, seat.Name)

	h.sendSync(client, seat.ID)

	if h.allHumansSeated() {
		if err := h.match.Start(); err == nil {
			log.Printf("all seats attached, match %s starting", h.match.ID)
		}
		h.broadcastState()
		h.scheduleAI()
	} else {
		h.broadcastState()
	}
}

func (h *Hub) allHumansSeated() bool {
	for _, p := range h.match.Players {
		if !p.IsAI() && h.clientByPlayer[p.ID] == nil {
			return false
		}
	}
	return true
}

func (h *Hub) detach(client *Client) {
	playerID, attached := h.playerByClient[client]
	if !attached {
		return
	}
	delete(h.playerByClient, client)
	delete(h.clientByPlayer, playerID)
	log.Printf("client %s left seat %s", client.ID, playerID)
	h.broadcastState()
}

// advanceAI performs one paced AI action and reschedules while the AI
// still holds the turn.
func (h *Hub) advanceAI() {
	acted, err := h.match.AdvanceAI()
	if err != nil {
		log.Printf("ai advance failed: %v", err)
		return
	}
	if acted {
		h.broadcastState()
		h.scheduleAI()
	}
}

// scheduleAI arms a one-shot timer that posts back into the hub loop
// when the current seat is AI-controlled. The delay is presentation
// pacing only; it never blocks the loop or the engine.
func (h *Hub) scheduleAI() {
	if !h.match.NeedsAI() {
		return
	}
	time.AfterFunc(h.cfg.AIMoveDelay(), func() {
		h.aiKick <- struct{}{}
	})
}

// snapshot builds the wire state with per-seat connectivity filled in.
func (h *Hub) snapshot() protocol.GameSnapshot {
	snap := h.match.Snapshot()
	for i := range snap.Players {
		ps := &snap.Players[i]
		ps.Connected = ps.Kind == string(shared.AI) || h.clientByPlayer[ps.ID] != nil
	}
	return snap
}

// broadcastState sends a full STATE_SYNC to every connected client.
func (h *Hub) broadcastState() {
	frame, err := protocol.NewMessage(hostSenderID, protocol.ActionStateSync, h.snapshot())
	if err != nil {
		log.Printf("failed to build state sync: %v", err)
		return
	}
	for client := range h.clients {
		h.sendFrame(client, frame)
	}
}

// sendSync sends a full STATE_SYNC to one client, tagging its own seat.
func (h *Hub) sendSync(client *Client, yourPlayerID string) {
	snap := h.snapshot()
	snap.YourPlayerID = yourPlayerID
	frame, err := protocol.NewMessage(hostSenderID, protocol.ActionStateSync, snap)
	if err != nil {
		log.Printf("failed to build state sync: %v", err)
		return
	}
	h.sendFrame(client, frame)
}

// sendError sends an ERROR with a human-readable reason to one client
// only; the match state is untouched.
func (h *Hub) sendError(client *Client, reason string) {
	frame, err := protocol.NewMessage(hostSenderID, protocol.ActionError, protocol.ErrorPayload{Message: reason})
	if err != nil {
		log.Printf("failed to build error message: %v", err)
		return
	}
	h.sendFrame(client, frame)
}

// sendFrame queues a frame without ever blocking the hub loop. A client
// whose queue is full is assumed dead and unregistered.
func (h *Hub) sendFrame(client *Client, frame []byte) {
	select {
	case client.send <- frame:
	default:
		log.Printf("client %s send queue full, dropping connection", client.ID)
		go func() {
			h.unregister <- client
		}()
	}
}

// handleEvent reacts to engine events delivered through the sink channel.
func (h *Hub) handleEvent(ev game.Event) {
	switch ev := ev.(type) {
	case game.RoundFinished:
		log.Printf("round %d finished: team scores %v", ev.Result.RoundNumber, ev.Result.TeamScores)
	case game.GameFinished:
		log.Printf("match %s finished, team %d wins", h.match.ID, ev.WinnerTeam)
		h.persistResult(ev.WinnerTeam)
	}
}

// persistResult stores the finished match in the results database.
func (h *Hub) persistResult(winnerTeam int) {
	if h.store == nil {
		return
	}
	snap := h.match.Snapshot()
	result := database.MatchResult{
		ID:           snap.MatchID,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		RoundsPlayed: snap.RoundNumber,
		WinnerTeam:   winnerTeam,
	}
	names := [4]*string{&result.Player1, &result.Player2, &result.Player3, &result.Player4}
	teams := [4]*int{&result.Player1Team, &result.Player2Team, &result.Player3Team, &result.Player4Team}
	for i, ps := range snap.Players {
		if i >= 4 {
			break
		}
		*names[i] = ps.Name
		*teams[i] = ps.TeamID
		if ps.TeamID == shared.Team1 {
			result.Team1Score += ps.Score
		} else {
			result.Team2Score += ps.Score
		}
	}
	if err := h.store.Insert(result); err != nil {
		log.Printf("failed to store match result: %v", err)
	}
}
