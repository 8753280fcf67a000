package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/dropfour/dropfour/internal/model"
)

// Client-to-server intents
const (
	IntentJoinRoom    = "join_room"
	IntentToggleReady = "toggle_ready"
	IntentStartGame   = "start_game"
	IntentMakeMove    = "make_move"
	IntentNextRound   = "next_round"
	IntentResetScores = "reset_scores"
)

// Server-to-client events
const (
	// EventAssigned is sent to one connection after a successful join
	EventAssigned = "player_assigned"
	// EventError is sent to one connection after a rejected join/start
	EventError = "error_message"
	// EventUpdate is broadcast to the whole room after any state change
	EventUpdate = "game_update"
)

// Envelope wraps every message on the wire
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// JoinRoomPayload carries a join_room intent. SeatToken is empty on a first
// join and echoes a previously assigned token on reconnect.
type JoinRoomPayload struct {
	Token       model.RoomToken `json:"token"`
	Secret      string          `json:"secret"`
	DisplayName string          `json:"displayName"`
	SeatToken   model.SeatToken `json:"seatToken,omitempty"`
}

// RoomPayload carries intents that only name a room
type RoomPayload struct {
	Token model.RoomToken `json:"token"`
}

// MovePayload carries a make_move intent
type MovePayload struct {
	Token  model.RoomToken `json:"token"`
	Column int             `json:"column"`
}

// AssignedPayload tells a joining connection its color and seat token
type AssignedPayload struct {
	Color     model.Color     `json:"color"`
	SeatToken model.SeatToken `json:"seatToken"`
}

// ErrorPayload carries a human-readable failure message
type ErrorPayload struct {
	Message string `json:"message"`
}

// Encode builds a wire message from an event type and payload
func Encode(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", msgType, err)
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}

// DecodePayload unmarshals an envelope's payload into dst
func DecodePayload[T any](env Envelope) (T, error) {
	var dst T
	if err := json.Unmarshal(env.Payload, &dst); err != nil {
		return dst, fmt.Errorf("decoding %s payload: %w", env.Type, err)
	}
	return dst, nil
}
