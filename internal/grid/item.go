package grid

import (
	"github.com/google/uuid"
	"github.com/multiview/multiview/internal/player"
)

// View is the rendering surface for items. The order map calls Mount when an
// item is created, Unmount when it is destroyed, and Render whenever one of the
// item's flags or its slot changes.
type View interface {
	Mount(item *Item)
	Render(item *Item)
	Unmount(item *Item)
}

// NopView ignores every lifecycle call.
type NopView struct{}

func (NopView) Mount(*Item)   {}
func (NopView) Render(*Item)  {}
func (NopView) Unmount(*Item) {}

// Item pairs one player handle with the UI state of its grid cell.
type Item struct {
	key               string
	slot              int
	videoID           string
	editMode          bool
	highlighted       bool
	showDeleteControl bool
	player            player.Player
	view              View
}

func newItem(slot int, videoID string, editMode bool, view View) *Item {
	return &Item{
		key:               uuid.NewString(),
		slot:              slot,
		videoID:           videoID,
		editMode:          editMode,
		showDeleteControl: editMode,
		player:            player.Nop{},
		view:              view,
	}
}

func (i *Item) Key() string             { return i.key }
func (i *Item) Slot() int               { return i.slot }
func (i *Item) VideoID() string         { return i.videoID }
func (i *Item) EditMode() bool          { return i.editMode }
func (i *Item) Highlighted() bool       { return i.highlighted }
func (i *Item) ShowDeleteControl() bool { return i.showDeleteControl }
func (i *Item) Player() player.Player   { return i.player }

// Send forwards a command to the item's player without waiting.
func (i *Item) Send(cmd player.Command) {
	if i.player != nil {
		i.player.Send(cmd)
	}
}

// SetEditMode toggles edit mode. The delete control follows edit mode.
func (i *Item) SetEditMode(on bool) {
	if i.editMode == on && i.showDeleteControl == on {
		return
	}
	i.editMode = on
	i.showDeleteControl = on
	i.render()
}

func (i *Item) SetHighlighted(on bool) {
	if i.highlighted == on {
		return
	}
	i.highlighted = on
	i.render()
}

func (i *Item) setSlot(slot int) {
	if i.slot == slot {
		return
	}
	i.slot = slot
	i.render()
}

func (i *Item) setVideoID(id string) {
	if i.videoID == id {
		return
	}
	i.videoID = id
	i.render()
}

func (i *Item) render() {
	i.view.Render(i)
}
