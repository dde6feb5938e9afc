package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/multiview/multiview/internal/player"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrMissingField   = errors.New("missing field")
	ErrInvalidField   = errors.New("invalid field")
)

// Wire is the JSON and form shape of a command.
type Wire struct {
	Op     string   `json:"op"`
	IDs    []string `json:"ids,omitempty"`
	Text   string   `json:"text,omitempty"`
	Slot   *int     `json:"slot,omitempty"`
	A      *int     `json:"a,omitempty"`
	B      *int     `json:"b,omitempty"`
	Mode   string   `json:"mode,omitempty"`
	On     *bool    `json:"on,omitempty"`
	Width  int      `json:"width,omitempty"`
	Height int      `json:"height,omitempty"`
	Action string   `json:"action,omitempty"`
	Offset float64  `json:"offset,omitempty"`
}

// DecodeCommand parses one JSON command.
func DecodeCommand(data []byte) (Command, error) {
	var w Wire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode command: %w", err)
	}
	return w.Command()
}

// Command converts the wire form to a typed command.
func (w Wire) Command() (Command, error) {
	switch strings.ToLower(strings.TrimSpace(w.Op)) {
	case "insert":
		return Insert{IDs: w.IDs}, nil
	case "add":
		return AddText{Text: w.Text}, nil
	case "remove":
		slot, err := required("slot", w.Slot)
		if err != nil {
			return nil, err
		}
		return Remove{Slot: slot}, nil
	case "swap":
		a, err := required("a", w.A)
		if err != nil {
			return nil, err
		}
		b, err := required("b", w.B)
		if err != nil {
			return nil, err
		}
		return Swap{A: a, B: b}, nil
	case "size":
		if w.Mode == "" {
			return nil, fmt.Errorf("%w: mode", ErrMissingField)
		}
		return SetSizeMode{Mode: w.Mode}, nil
	case "edit":
		if w.On == nil {
			return ToggleEdit{}, nil
		}
		return SetEdit{On: *w.On}, nil
	case "toggle-edit":
		return ToggleEdit{}, nil
	case "resize":
		return Resize{Width: w.Width, Height: w.Height}, nil
	case "pick":
		slot, err := required("slot", w.Slot)
		if err != nil {
			return nil, err
		}
		return OpenPicker{Slot: slot}, nil
	case "choose":
		slot, err := required("slot", w.Slot)
		if err != nil {
			return nil, err
		}
		return ChoosePosition{Slot: slot}, nil
	case "hover":
		slot, err := required("slot", w.Slot)
		if err != nil {
			return nil, err
		}
		return Hover{Slot: slot}, nil
	case "leave":
		slot, err := required("slot", w.Slot)
		if err != nil {
			return nil, err
		}
		return Leave{Slot: slot}, nil
	case "set-video":
		slot, err := required("slot", w.Slot)
		if err != nil {
			return nil, err
		}
		return SetVideo{Slot: slot, Text: w.Text}, nil
	case "clear":
		return Clear{}, nil
	case "player":
		action, err := player.ParseAction(w.Action)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidField, err)
		}
		slot := AllSlots
		if w.Slot != nil {
			slot = *w.Slot
		}
		return Player{Command: playerCommand(action, w.Offset), Slot: slot}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, w.Op)
}

// CommandFromForm reads a command from submitted form fields.
func CommandFromForm(form url.Values) (Command, error) {
	w := Wire{
		Op:     form.Get("op"),
		Text:   form.Get("text"),
		Mode:   form.Get("mode"),
		Action: form.Get("action"),
	}
	var err error
	if w.Slot, err = formInt(form, "slot"); err != nil {
		return nil, err
	}
	if w.A, err = formInt(form, "a"); err != nil {
		return nil, err
	}
	if w.B, err = formInt(form, "b"); err != nil {
		return nil, err
	}
	if raw := form.Get("on"); raw != "" {
		on, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: on=%q", ErrInvalidField, raw)
		}
		w.On = &on
	}
	if raw := form.Get("offset"); raw != "" {
		if w.Offset, err = strconv.ParseFloat(raw, 64); err != nil {
			return nil, fmt.Errorf("%w: offset=%q", ErrInvalidField, raw)
		}
	}
	for _, key := range []string{"width", "height"} {
		v, err := formInt(form, key)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		if key == "width" {
			w.Width = *v
		} else {
			w.Height = *v
		}
	}
	return w.Command()
}

func playerCommand(action player.Action, offset float64) player.Command {
	switch action {
	case player.ActionSeek:
		return player.SeekTo(offset, true)
	case player.ActionLive:
		return player.JumpToLive()
	}
	return player.Command{Action: action}
}

func required(field string, v *int) (int, error) {
	if v == nil {
		return 0, fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	return *v, nil
}

func formInt(form url.Values, key string) (*int, error) {
	raw := form.Get(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidField, key, raw)
	}
	return &n, nil
}
