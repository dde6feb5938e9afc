package wall

import (
	"encoding/json"

	"github.com/multiview/multiview/internal/app"
)

// Message types exchanged with wall pages.
const (
	TypeState    = "state"
	TypePlayer   = "player"
	TypeSettings = "settings"
	TypeError    = "error"
	TypeCommand  = "command"
	TypePointer  = "pointer"
	TypePing     = "ping"
)

// Message is the envelope of every websocket frame.
type Message struct {
	Type    string         `json:"type"`
	State   *app.Snapshot  `json:"state,omitempty"`
	Player  *PlayerMessage `json:"player,omitempty"`
	Visible *bool          `json:"visible,omitempty"`
	Error   string         `json:"error,omitempty"`
	Command *app.Wire      `json:"command,omitempty"`
}

// PlayerMessage tells a page to call one iframe API function on the player
// of the item with Key.
type PlayerMessage struct {
	Key     string `json:"key"`
	VideoID string `json:"videoId"`
	Action  string `json:"action"`
	Func    string `json:"func"`
	Args    []any  `json:"args,omitempty"`
}

func encode(m Message) []byte {
	b, _ := json.Marshal(m)
	return b
}
