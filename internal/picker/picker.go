// Package picker implements the position picker overlay: a small grid of
// buttons, one per occupied slot, attached to the item being moved.
package picker

import (
	"github.com/multiview/multiview/internal/grid"
	"github.com/multiview/multiview/internal/layout"
)

// Button is one swap target.
type Button struct {
	Slot    int  `json:"slot"`
	Current bool `json:"current"`
}

// Host receives the picker when it moves between items. Attach and Detach
// are the picker's own mount/unmount.
type Host interface {
	AttachPicker(item *grid.Item)
	DetachPicker(item *grid.Item)
}

type nopHost struct{}

func (nopHost) AttachPicker(*grid.Item) {}
func (nopHost) DetachPicker(*grid.Item) {}

// Picker is the single position picker of one grid. At most one item holds
// it at a time.
type Picker struct {
	order    *grid.OrderMap
	host     Host
	attached *grid.Item
	buttons  []Button
	geometry layout.Spec
	rebuilds int
}

func New(order *grid.OrderMap, host Host) *Picker {
	if host == nil {
		host = nopHost{}
	}
	return &Picker{order: order, host: host}
}

// Attached returns the item holding the picker, or nil.
func (p *Picker) Attached() *grid.Item { return p.attached }

// Buttons returns the buttons from the last Open.
func (p *Picker) Buttons() []Button {
	out := make([]Button, len(p.buttons))
	copy(out, p.buttons)
	return out
}

// Rebuilds counts how often the button set was rebuilt.
func (p *Picker) Rebuilds() int { return p.rebuilds }

// SetGeometry stores the layout the picker is drawn with.
func (p *Picker) SetGeometry(spec layout.Spec) { p.geometry = spec }

func (p *Picker) Width() float64  { return p.geometry.PickerWidth }
func (p *Picker) Height() float64 { return p.geometry.PickerHeight }
func (p *Picker) Columns() int    { return p.geometry.Columns }
func (p *Picker) Rows() int       { return p.geometry.Rows }

// Open moves the picker onto item, if it is not already there, and rebuilds
// one button per occupied slot. Items that are no longer in the order map are
// ignored.
func (p *Picker) Open(item *grid.Item) {
	if item == nil || p.order.At(item.Slot()) != item {
		return
	}
	if p.attached != item {
		if p.attached != nil {
			p.host.DetachPicker(p.attached)
		}
		p.attached = item
		p.host.AttachPicker(item)
	}

	n := p.order.Len()
	p.buttons = p.buttons[:0]
	for i := 0; i < n; i++ {
		p.buttons = append(p.buttons, Button{Slot: i, Current: i == item.Slot()})
	}
	p.rebuilds++
}

// OpenSlot opens the picker on the item in slot.
func (p *Picker) OpenSlot(slot int) bool {
	item := p.order.At(slot)
	if item == nil {
		return false
	}
	p.Open(item)
	return true
}

// Choose swaps the attached item into slot and reopens the picker on the item
// that now occupies the attached item's former slot. Choosing the current
// slot does nothing.
func (p *Picker) Choose(slot int) bool {
	if p.attached == nil {
		return false
	}
	from := p.attached.Slot()
	if slot == from || !p.order.Swap(from, slot) {
		return false
	}
	p.order.At(slot).SetHighlighted(false)
	p.order.At(from).SetHighlighted(false)
	p.Open(p.order.At(from))
	return true
}

// Hover highlights the item behind a non-current button.
func (p *Picker) Hover(slot int) {
	if p.attached != nil && slot == p.attached.Slot() {
		return
	}
	if item := p.order.At(slot); item != nil {
		item.SetHighlighted(true)
	}
}

// Leave clears the highlight set by Hover.
func (p *Picker) Leave(slot int) {
	if item := p.order.At(slot); item != nil {
		item.SetHighlighted(false)
	}
}

// Follow keeps the picker valid after the order map shrank. It reattaches to
// the item now in the slot the removed item held, or to the last item, and
// detaches when the grid is empty.
func (p *Picker) Follow(removedSlot int) {
	if p.attached == nil {
		return
	}
	if p.order.At(p.attached.Slot()) == p.attached {
		p.Open(p.attached)
		return
	}

	lost := p.attached
	p.attached = nil
	p.host.DetachPicker(lost)

	switch {
	case p.order.At(removedSlot) != nil:
		p.Open(p.order.At(removedSlot))
	case p.order.Len() > 0:
		p.Open(p.order.At(p.order.Len() - 1))
	default:
		p.buttons = p.buttons[:0]
	}
}

// Close detaches the picker.
func (p *Picker) Close() {
	if p.attached == nil {
		return
	}
	p.host.DetachPicker(p.attached)
	p.attached = nil
	p.buttons = p.buttons[:0]
}
