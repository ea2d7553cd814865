package server

import (
	"encoding/json"
	"time"

	"github.com/cardroom/holdem/internal/engine"
)

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants used for the client-server protocol
const (
	// Client to server messages
	MessageTypeJoin     MessageType = "join"
	MessageTypeLeave    MessageType = "leave"
	MessageTypeAction   MessageType = "action"
	MessageTypeStart    MessageType = "start_hand"
	MessageTypeTip      MessageType = "tip"
	MessageTypeAddChips MessageType = "add_chips"

	// Server to client messages
	MessageTypeWelcome  MessageType = "welcome"
	MessageTypeState    MessageType = "state"
	MessageTypeRejected MessageType = "rejected"
	MessageTypeError    MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server payloads

type JoinData struct {
	PlayerName string `json:"playerName"`
}

type ActionData struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

type TipData struct {
	To     string `json:"to"`
	Amount int    `json:"amount"`
}

type AddChipsData struct {
	Amount int `json:"amount"`
}

// Server → Client payloads

type WelcomeData struct {
	PlayerID string          `json:"playerId"`
	Settings engine.Settings `json:"settings"`
}

type RejectedData struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StateData is the full room snapshot plus the recipient's own legal
// actions, so clients never have to re-derive legality.
type StateData struct {
	Room         engine.RoomState `json:"room"`
	ValidActions []string         `json:"validActions,omitempty"`
	CallAmount   int              `json:"callAmount,omitempty"`
	MinRaise     int              `json:"minRaise,omitempty"`
	MaxRaise     int              `json:"maxRaise,omitempty"`
}

// ParseAction maps a wire action string to an engine action
func ParseAction(s string) (engine.Action, bool) {
	switch s {
	case "fold":
		return engine.ActionFold, true
	case "check":
		return engine.ActionCheck, true
	case "call":
		return engine.ActionCall, true
	case "raise":
		return engine.ActionRaise, true
	case "allin":
		return engine.ActionAllIn, true
	}
	return 0, false
}
