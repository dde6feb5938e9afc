package app

import (
	"github.com/multiview/multiview/internal/layout"
	"github.com/multiview/multiview/internal/player"
	"github.com/multiview/multiview/internal/validate"
	"github.com/multiview/multiview/internal/videoid"
)

// Command is one typed UI event. Commands are applied by Controller.Dispatch.
type Command interface {
	Op() string
	apply(c *Controller)
}

// Insert appends videos at the end of the grid.
type Insert struct {
	IDs []string
}

func (Insert) Op() string { return "insert" }

func (cmd Insert) apply(c *Controller) { c.insert(cmd.Op(), cmd.IDs) }

// AddText extracts IDs from free text and appends them. Empty text is a no-op.
type AddText struct {
	Text string
}

func (AddText) Op() string { return "add" }

func (cmd AddText) apply(c *Controller) {
	if msg := validate.AddText(cmd.Text); msg != "" {
		c.reject(cmd.Op(), "%s", msg)
		return
	}
	ids := videoid.ExtractIDs(cmd.Text)
	if len(ids) == 0 {
		return
	}
	c.insert(cmd.Op(), ids)
}

// Remove deletes the item in Slot and compacts the grid.
type Remove struct {
	Slot int
}

func (Remove) Op() string { return "remove" }

func (cmd Remove) apply(c *Controller) {
	if !c.order.RemoveAndCompact(cmd.Slot) {
		c.reject(cmd.Op(), "slot %d is not occupied", cmd.Slot)
		return
	}
	c.picker.Follow(cmd.Slot)
}

// Swap exchanges two slots.
type Swap struct {
	A, B int
}

func (Swap) Op() string { return "swap" }

func (cmd Swap) apply(c *Controller) {
	if cmd.A == cmd.B {
		return
	}
	if !c.order.Swap(cmd.A, cmd.B) {
		c.reject(cmd.Op(), "cannot swap slots %d and %d", cmd.A, cmd.B)
		return
	}
	if item := c.picker.Attached(); item != nil {
		c.picker.Open(item)
	}
}

// SetSizeMode switches the layout policy.
type SetSizeMode struct {
	Mode string
}

func (SetSizeMode) Op() string { return "size" }

func (cmd SetSizeMode) apply(c *Controller) {
	mode, err := layout.ParseSizeMode(cmd.Mode)
	if err != nil {
		c.reject(cmd.Op(), "%v", err)
		return
	}
	if mode == c.mode {
		return
	}
	c.mode = mode
	c.recompute()
}

// SetEdit turns edit mode on or off. Turning it on opens the picker on the
// first item.
type SetEdit struct {
	On bool
}

func (SetEdit) Op() string { return "edit" }

func (cmd SetEdit) apply(c *Controller) {
	if cmd.On == c.order.EditMode() {
		return
	}
	c.order.SetEditMode(cmd.On)
	if !cmd.On {
		c.picker.Close()
		return
	}
	if c.order.Len() > 0 {
		c.picker.Open(c.order.At(0))
	}
}

// ToggleEdit flips edit mode.
type ToggleEdit struct{}

func (ToggleEdit) Op() string { return "toggle-edit" }

func (ToggleEdit) apply(c *Controller) {
	SetEdit{On: !c.order.EditMode()}.apply(c)
}

// Resize records the viewport. Zero sizes mean the viewport is unknown.
type Resize struct {
	Width, Height int
}

func (Resize) Op() string { return "resize" }

func (cmd Resize) apply(c *Controller) {
	if cmd.Width < 0 || cmd.Height < 0 {
		c.reject(cmd.Op(), "negative viewport %dx%d", cmd.Width, cmd.Height)
		return
	}
	w, h := float64(cmd.Width), float64(cmd.Height)
	if cmd.Width == 0 || cmd.Height == 0 {
		w, h = 0, 0
	}
	if w == c.viewportW && h == c.viewportH {
		return
	}
	c.viewportW, c.viewportH = w, h
	c.recompute()
}

// SetFlags sets the playback and debug flags carried by the URL.
type SetFlags struct {
	Autoplay bool
	Mute     bool
	Debug    bool
}

func (SetFlags) Op() string { return "flags" }

func (cmd SetFlags) apply(c *Controller) {
	c.autoplay, c.mute, c.debug = cmd.Autoplay, cmd.Mute, cmd.Debug
}

// OpenPicker attaches the picker to the item in Slot. Only valid in edit mode.
type OpenPicker struct {
	Slot int
}

func (OpenPicker) Op() string { return "pick" }

func (cmd OpenPicker) apply(c *Controller) {
	if !c.order.EditMode() {
		c.reject(cmd.Op(), "edit mode is off")
		return
	}
	if !c.picker.OpenSlot(cmd.Slot) {
		c.reject(cmd.Op(), "slot %d is not occupied", cmd.Slot)
	}
}

// ChoosePosition swaps the item holding the picker into Slot.
type ChoosePosition struct {
	Slot int
}

func (ChoosePosition) Op() string { return "choose" }

func (cmd ChoosePosition) apply(c *Controller) {
	if c.picker.Attached() == nil {
		c.reject(cmd.Op(), "picker is not open")
		return
	}
	if cmd.Slot == c.picker.Attached().Slot() {
		return
	}
	if !c.picker.Choose(cmd.Slot) {
		c.reject(cmd.Op(), "slot %d is not occupied", cmd.Slot)
	}
}

// Hover highlights the item behind a picker button.
type Hover struct {
	Slot int
}

func (Hover) Op() string { return "hover" }

func (cmd Hover) apply(c *Controller) { c.picker.Hover(cmd.Slot) }

// Leave clears a hover highlight.
type Leave struct {
	Slot int
}

func (Leave) Op() string { return "leave" }

func (cmd Leave) apply(c *Controller) { c.picker.Leave(cmd.Slot) }

// SetVideo replaces the video in Slot with the ID found in Text.
type SetVideo struct {
	Slot int
	Text string
}

func (SetVideo) Op() string { return "set-video" }

func (cmd SetVideo) apply(c *Controller) {
	id, msg := normalizeID(cmd.Text)
	if msg != "" {
		c.reject(cmd.Op(), "%s", msg)
		return
	}
	if !c.order.SetVideoID(cmd.Slot, id) {
		c.reject(cmd.Op(), "cannot set slot %d to %q", cmd.Slot, id)
	}
}

// Clear removes every video.
type Clear struct{}

func (Clear) Op() string { return "clear" }

func (Clear) apply(c *Controller) {
	c.picker.Close()
	c.order.Clear()
}

// AllSlots targets every item with a player command.
const AllSlots = -1

// Player sends a fire-and-forget command to one item, or to every item when
// Slot is AllSlots.
type Player struct {
	Command player.Command
	Slot    int
}

func (Player) Op() string { return "player" }

func (cmd Player) apply(c *Controller) {
	switch cmd.Command.Action {
	case player.ActionMute:
		if cmd.Slot == AllSlots {
			c.mute = true
		}
	case player.ActionUnmute:
		if cmd.Slot == AllSlots {
			c.mute = false
		}
	}
	c.send(cmd.Op(), cmd.Slot, cmd.Command)
}
