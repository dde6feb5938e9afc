// Package player defines the fire-and-forget command vocabulary sent to
// embedded players. Nothing here observes playback state.
package player

import (
	"errors"
	"fmt"
	"strings"
)

// Action names a player command.
type Action string

const (
	ActionPlay   Action = "play"
	ActionPause  Action = "pause"
	ActionMute   Action = "mute"
	ActionUnmute Action = "unmute"
	ActionSeek   Action = "seek"
	// ActionLive seeks far past the end so live streams jump to the live edge.
	ActionLive Action = "live"
)

// LiveOffsetSeconds is the seek offset used to reach the live edge.
const LiveOffsetSeconds = 1e9

var ErrUnknownAction = errors.New("unknown player action")

// Command is one message for one player.
type Command struct {
	Action         Action  `json:"action"`
	Offset         float64 `json:"offset,omitempty"`
	AllowSeekAhead bool    `json:"allowSeekAhead,omitempty"`
}

// Play, Pause, Mute and Unmute build the argument-less commands.
func Play() Command   { return Command{Action: ActionPlay} }
func Pause() Command  { return Command{Action: ActionPause} }
func Mute() Command   { return Command{Action: ActionMute} }
func Unmute() Command { return Command{Action: ActionUnmute} }

func SeekTo(offset float64, allowSeekAhead bool) Command {
	return Command{Action: ActionSeek, Offset: offset, AllowSeekAhead: allowSeekAhead}
}

// JumpToLive is a seek to LiveOffsetSeconds with seek-ahead enabled.
func JumpToLive() Command {
	return Command{Action: ActionLive, Offset: LiveOffsetSeconds, AllowSeekAhead: true}
}

// ParseAction accepts the action names case-insensitively.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionPlay, ActionPause, ActionMute, ActionUnmute, ActionSeek, ActionLive:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Func returns the iframe API function name and arguments for the command.
func (c Command) Func() (string, []any) {
	switch c.Action {
	case ActionPlay:
		return "playVideo", nil
	case ActionPause:
		return "pauseVideo", nil
	case ActionMute:
		return "mute", nil
	case ActionUnmute:
		return "unMute", nil
	case ActionSeek, ActionLive:
		return "seekTo", []any{c.Offset, c.AllowSeekAhead}
	}
	return "", nil
}

// Player is the opaque handle owned by one grid item. Send must not block.
type Player interface {
	Send(cmd Command)
}

// Factory creates the handle for a newly inserted item.
type Factory interface {
	NewPlayer(key, videoID string) Player
}

// Nop discards every command. It is the handle used for pages rendered
// without a live connection.
type Nop struct{}

func (Nop) Send(Command) {}

func (Nop) NewPlayer(string, string) Player { return Nop{} }

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(key, videoID string) Player

func (f FactoryFunc) NewPlayer(key, videoID string) Player { return f(key, videoID) }
