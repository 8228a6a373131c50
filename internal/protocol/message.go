package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrMalformedMessage is returned when a wire frame cannot be decoded.
// The connection that produced it is closed; the host keeps running.
var ErrMalformedMessage = errors.New("malformed message")

// Action identifies the intent of a wire message.
type Action string

const (
	ActionJoin        Action = "JOIN"
	ActionLeave       Action = "LEAVE"
	ActionPlaceBid    Action = "PLACE_BID"
	ActionPlayCard    Action = "PLAY_CARD"
	ActionRequestSync Action = "REQUEST_SYNC"
	ActionStateSync   Action = "STATE_SYNC"
	ActionPing        Action = "PING"
	ActionPong        Action = "PONG"
	ActionError       Action = "ERROR"
)

var knownActions = map[Action]bool{
	ActionJoin:        true,
	ActionLeave:       true,
	ActionPlaceBid:    true,
	ActionPlayCard:    true,
	ActionRequestSync: true,
	ActionStateSync:   true,
	ActionPing:        true,
	ActionPong:        true,
	ActionError:       true,
}

// Message is the envelope every frame carries, client to host and back.
type Message struct {
	MessageID      string          `json:"message_id"`
	SenderPlayerID string          `json:"sender_player_id"`
	Action         Action          `json:"action"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	Timestamp      int64           `json:"timestamp"`
}

// NewMessage builds and serializes an envelope with a fresh message id
// and the current timestamp.
func NewMessage(senderPlayerID string, action Action, payload interface{}) ([]byte, error) {
	msg := Message{
		MessageID:      uuid.NewString(),
		SenderPlayerID: senderPlayerID,
		Action:         action,
		Timestamp:      time.Now().UnixMilli(),
	}
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		msg.Payload = payloadBytes
	}
	return json.Marshal(msg)
}

// Decode parses a wire frame into an envelope, rejecting frames that are
// not valid JSON or carry an unknown action.
func Decode(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if !knownActions[msg.Action] {
		return Message{}, fmt.Errorf("%w: unknown action %q", ErrMalformedMessage, msg.Action)
	}
	return msg, nil
}

// --- Client -> Host payloads ---

// JoinPayload requests a seat. PlayerID is set when reconnecting: the
// host re-attaches the connection to that seat instead of assigning a
// new one.
type JoinPayload struct {
	Name     string `json:"name"`
	PlayerID string `json:"player_id,omitempty"`
}

type PlaceBidPayload struct {
	Bid int `json:"bid"`
}

// PlayCardPayload carries the card in its "<SUIT>_<RANK>" encoding.
type PlayCardPayload struct {
	Card string `json:"card"`
}

// --- Host -> Client payloads ---

type ErrorPayload struct {
	Message string `json:"message"`
}

// PlayerState is one seat's slice of a snapshot.
type PlayerState struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Kind      string   `json:"kind"`
	TeamID    int      `json:"team_id"`
	Bid       int      `json:"bid"`
	TricksWon int      `json:"tricks_won"`
	Score     int      `json:"score"`
	Rating    int      `json:"rating"`
	Hand      []string `json:"hand"`
	Connected bool     `json:"connected"`
}

// TrickCardState is one card on the table.
type TrickCardState struct {
	PlayerID string `json:"player_id"`
	Card     string `json:"card"`
}

// RoundResultState is an immutable round record: team number to summed
// cumulative score after that round.
type RoundResultState struct {
	RoundNumber int         `json:"round_number"`
	TeamScores  map[int]int `json:"team_scores"`
}

// GameSnapshot is the full host-produced projection of match state,
// sent verbatim to every client as a STATE_SYNC payload. Clients
// replace their mirror wholesale; applying the same snapshot twice is a
// no-op.
//
// Every hand is included for every recipient, as the game has always
// done. Redacting other players' hands per recipient would harden the
// protocol but changes observable behavior; it remains an open question.
type GameSnapshot struct {
	MatchID            string             `json:"match_id"`
	Phase              string             `json:"phase"`
	RoundNumber        int                `json:"round_number"`
	TrickNumber        int                `json:"trick_number"`
	CurrentPlayerIndex int                `json:"current_player_index"`
	DealerIndex        int                `json:"dealer_index"`
	WinThreshold       int                `json:"win_threshold"`
	WinnerTeam         int                `json:"winner_team,omitempty"`
	Players            []PlayerState      `json:"players"`
	CurrentTrick       []TrickCardState   `json:"current_trick"`
	History            []RoundResultState `json:"history,omitempty"`

	// YourPlayerID is set only on the direct reply to a JOIN so the
	// client learns which seat it holds; broadcasts leave it empty.
	YourPlayerID string `json:"your_player_id,omitempty"`
}
