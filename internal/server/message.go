package server

import (
	"encoding/json"
	"time"

	"github.com/wanlucas/poker-game/internal/game"
)

// MessageType names a WebSocket message.
type MessageType string

// Client to server.
const (
	MessageTypeJoin       MessageType = "join"
	MessageTypeLeave      MessageType = "leave"
	MessageTypeListTables MessageType = "list_tables"
	MessageTypeAction     MessageType = "action"
)

// Server to client.
const (
	MessageTypeJoined        MessageType = "joined"
	MessageTypeLeft          MessageType = "left"
	MessageTypeTableList     MessageType = "table_list"
	MessageTypeError         MessageType = "error"
	MessageTypeGameState     MessageType = "game_state"
	MessageTypeHoleCards     MessageType = "hole_cards"
	MessageTypeActionNeeded  MessageType = "action_needed"
	MessageTypeActionTimeout MessageType = "action_timeout"
	MessageTypeRoundEnd      MessageType = "round_end"
)

// Message is the envelope every WebSocket frame carries.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage wraps a payload in an envelope with the current timestamp.
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

// Client to server payloads.

type JoinData struct {
	Table string `json:"table"`
	Name  string `json:"name"`
}

type LeaveData struct {
	Table string `json:"table"`
}

type ActionData struct {
	Table  string `json:"table"`
	Action string `json:"action"`
	Value  int    `json:"value,omitempty"`
}

// Server to client payloads.

type JoinedData struct {
	Table    string `json:"table"`
	PlayerID string `json:"playerId"`
}

type LeftData struct {
	Table string `json:"table"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type TableInfo struct {
	Name        string `json:"name"`
	PlayerCount int    `json:"playerCount"`
	MaxPlayers  int    `json:"maxPlayers"`
	SmallBlind  int    `json:"smallBlind"`
	Started     bool   `json:"started"`
}

type TableListData struct {
	Tables []TableInfo `json:"tables"`
}

// PlayerState is a player as everyone at the table sees them; hole cards
// travel separately, only to their owner.
type PlayerState struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Bankroll   int    `json:"bankroll"`
	CurrentBet int    `json:"currentBet"`
	Folded     bool   `json:"folded"`
}

type GameStateData struct {
	Table     string        `json:"table"`
	Street    string        `json:"street,omitempty"`
	Pot       int           `json:"pot"`
	Community []string      `json:"community"`
	Players   []PlayerState `json:"players"`
	ToAct     string        `json:"toAct,omitempty"`
}

type HoleCardsData struct {
	Table string   `json:"table"`
	Cards []string `json:"cards"`
}

type ActionNeededData struct {
	Table          string `json:"table"`
	PlayerID       string `json:"playerId"`
	BiggestBet     int    `json:"biggestBet"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

type ActionTimeoutData struct {
	Table    string `json:"table"`
	PlayerID string `json:"playerId"`
	Action   string `json:"action"` // the forced action: check or fold
}

type WinnerInfo struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Hand     string `json:"hand,omitempty"`
}

type RoundEndData struct {
	Table   string       `json:"table"`
	Pot     int          `json:"pot"`
	Winners []WinnerInfo `json:"winners"`
}

func playerStateFromGame(p *game.Player) PlayerState {
	return PlayerState{
		ID:         p.ID,
		Name:       p.Name,
		Bankroll:   p.Bankroll,
		CurrentBet: p.CurrentBet,
		Folded:     p.Folded,
	}
}
