// Package app ties the grid core together behind one controller. All
// mutation goes through Dispatch with a typed command.
package app

import (
	"fmt"
	"log/slog"

	"github.com/multiview/multiview/internal/grid"
	"github.com/multiview/multiview/internal/layout"
	"github.com/multiview/multiview/internal/picker"
	"github.com/multiview/multiview/internal/player"
	"github.com/multiview/multiview/internal/urlstate"
	"github.com/multiview/multiview/internal/validate"
	"github.com/multiview/multiview/internal/videoid"
)

// Config holds the collaborators of a controller. Zero values are usable.
type Config struct {
	MaxVideos  int
	Players    player.Factory
	View       grid.View
	PickerHost picker.Host
}

// Diagnostic records a command that was rejected or degraded to a no-op.
type Diagnostic struct {
	Op      string `json:"op"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string { return d.Op + ": " + d.Message }

// Controller owns the order map, the picker, the size mode and the flags of
// one grid.
type Controller struct {
	order      *grid.OrderMap
	picker     *picker.Picker
	mode       layout.SizeMode
	viewportW  float64
	viewportH  float64
	autoplay   bool
	mute       bool
	debug      bool
	maxVideos  int
	spec       layout.Spec
	recomputes int
	diags      []Diagnostic
}

func NewController(cfg Config) *Controller {
	c := &Controller{
		mode:      layout.DefaultSizeMode,
		maxVideos: cfg.MaxVideos,
	}
	opts := []grid.Option{grid.WithChangeHook(func(int) { c.recompute() })}
	if cfg.View != nil {
		opts = append(opts, grid.WithView(cfg.View))
	}
	if cfg.Players != nil {
		opts = append(opts, grid.WithPlayers(cfg.Players))
	}
	c.order = grid.NewOrderMap(opts...)
	c.picker = picker.New(c.order, cfg.PickerHost)
	c.recompute()
	return c
}

func (c *Controller) Order() *grid.OrderMap     { return c.order }
func (c *Controller) Picker() *picker.Picker    { return c.picker }
func (c *Controller) Layout() layout.Spec       { return c.spec }
func (c *Controller) SizeMode() layout.SizeMode { return c.mode }
func (c *Controller) EditMode() bool            { return c.order.EditMode() }
func (c *Controller) Debug() bool               { return c.debug }

// Recomputes counts layout recomputations.
func (c *Controller) Recomputes() int { return c.recomputes }

// Diagnostics returns the diagnostics recorded since the last Reset.
func (c *Controller) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(c.diags))
	copy(out, c.diags)
	return out
}

// ResetDiagnostics drops recorded diagnostics.
func (c *Controller) ResetDiagnostics() { c.diags = nil }

// Dispatch applies commands in order. It never panics on bad input: invalid
// commands are recorded as diagnostics and skipped.
func (c *Controller) Dispatch(cmds ...Command) {
	for _, cmd := range cmds {
		if cmd == nil {
			continue
		}
		cmd.apply(c)
	}
}

// Load populates the controller from a decoded URL state.
func (c *Controller) Load(s urlstate.State) {
	if s.SizeMode != "" {
		c.Dispatch(SetSizeMode{Mode: string(s.SizeMode)})
	}
	c.Dispatch(
		Resize{Width: s.ViewportWidth, Height: s.ViewportHeight},
		SetFlags{Autoplay: s.Autoplay, Mute: s.Mute, Debug: s.Debug},
	)
	if len(s.IDs) > 0 {
		c.Dispatch(Insert{IDs: s.IDs})
	}
	c.Dispatch(SetEdit{On: s.Edit})
	if s.Edit && s.Pick >= 0 {
		c.Dispatch(OpenPicker{Slot: s.Pick})
	}
}

// State exports the controller for URL encoding.
func (c *Controller) State() urlstate.State {
	s := urlstate.State{
		IDs:            c.order.IDs(),
		SizeMode:       c.mode,
		Autoplay:       c.autoplay,
		Mute:           c.mute,
		Debug:          c.debug,
		Edit:           c.order.EditMode(),
		Pick:           urlstate.NoPick,
		ViewportWidth:  int(c.viewportW),
		ViewportHeight: int(c.viewportH),
	}
	if item := c.picker.Attached(); item != nil && s.Edit {
		s.Pick = item.Slot()
	}
	return s
}

// Query is the URL query of the current state.
func (c *Controller) Query() string { return urlstate.Encode(c.State()) }

func (c *Controller) recompute() {
	c.spec = layout.Compute(c.order.Len(), c.mode, c.viewportW, c.viewportH)
	c.picker.SetGeometry(c.spec)
	c.recomputes++
}

func (c *Controller) reject(op, format string, args ...any) {
	d := Diagnostic{Op: op, Message: fmt.Sprintf(format, args...)}
	c.diags = append(c.diags, d)
	slog.Debug("grid: command ignored", "op", op, "reason", d.Message)
}

func (c *Controller) insert(op string, ids []string) {
	if len(ids) == 0 {
		c.reject(op, "no video IDs")
		return
	}
	valid := make([]string, 0, len(ids))
	for _, raw := range ids {
		id, msg := normalizeID(raw)
		if msg != "" {
			c.reject(op, "%s", msg)
			continue
		}
		valid = append(valid, id)
	}
	if msg := validate.VideoCount(c.order.Len(), len(valid), c.maxVideos); msg != "" {
		c.reject(op, "%s", msg)
		valid = valid[:max(c.maxVideos-c.order.Len(), 0)]
	}
	for _, id := range valid {
		c.order.InsertAtEnd(id)
	}
}

// normalizeID reduces raw to a bare video ID, or returns a message saying why
// it cannot be used.
func normalizeID(raw string) (string, string) {
	id := videoid.ExtractID(raw)
	if msg := validate.VideoID(id); msg != "" {
		return "", msg
	}
	if !videoid.Valid(id) {
		return "", fmt.Sprintf("%q is not a video ID", raw)
	}
	return id, ""
}

func (c *Controller) send(op string, slot int, cmd player.Command) {
	if slot < 0 {
		for _, item := range c.order.Items() {
			item.Send(cmd)
		}
		return
	}
	item := c.order.At(slot)
	if item == nil {
		c.reject(op, "slot %d is not occupied", slot)
		return
	}
	item.Send(cmd)
}
