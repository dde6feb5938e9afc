// Package grid holds the slot-ordered collection of video items behind the
// player grid.
//
// Slots are dense: after every insert, removal or swap the live items occupy
// exactly the slots 0..N-1.
package grid

import "github.com/multiview/multiview/internal/player"

// OrderMap maps slots to items and owns every item it holds.
type OrderMap struct {
	items    []*Item
	editMode bool
	view     View
	players  player.Factory
	onChange func(n int)
}

// Option configures an OrderMap.
type Option func(*OrderMap)

// WithView sets the rendering surface for items.
func WithView(v View) Option {
	return func(m *OrderMap) { m.view = v }
}

// WithPlayers sets the factory used to create player handles.
func WithPlayers(f player.Factory) Option {
	return func(m *OrderMap) { m.players = f }
}

// WithChangeHook registers a callback run after the item count changes.
func WithChangeHook(fn func(n int)) Option {
	return func(m *OrderMap) { m.onChange = fn }
}

func NewOrderMap(opts ...Option) *OrderMap {
	m := &OrderMap{view: NopView{}, players: player.Nop{}}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *OrderMap) Len() int { return len(m.items) }

func (m *OrderMap) EditMode() bool { return m.editMode }

// At returns the item in slot, or nil when the slot is not populated.
func (m *OrderMap) At(slot int) *Item {
	if !m.inRange(slot) {
		return nil
	}
	return m.items[slot]
}

// Items returns the items in slot order.
func (m *OrderMap) Items() []*Item {
	out := make([]*Item, len(m.items))
	copy(out, m.items)
	return out
}

// IDs returns the video IDs in slot order.
func (m *OrderMap) IDs() []string {
	ids := make([]string, len(m.items))
	for i, item := range m.items {
		ids[i] = item.videoID
	}
	return ids
}

// Slots returns every item's own slot field in map order.
func (m *OrderMap) Slots() []int {
	slots := make([]int, len(m.items))
	for i, item := range m.items {
		slots[i] = item.slot
	}
	return slots
}

// InsertAtEnd creates an item for id in slot N using the current edit mode.
func (m *OrderMap) InsertAtEnd(id string) *Item {
	item := newItem(len(m.items), id, m.editMode, m.view)
	item.player = m.players.NewPlayer(item.key, id)
	m.items = append(m.items, item)
	m.view.Mount(item)
	m.changed()
	return item
}

// RemoveAndCompact destroys the item in slot and shifts every later item down
// by one. It reports false and does nothing when slot is out of range.
func (m *OrderMap) RemoveAndCompact(slot int) bool {
	if !m.inRange(slot) {
		return false
	}
	removed := m.items[slot]
	m.view.Unmount(removed)
	removed.player = nil

	copy(m.items[slot:], m.items[slot+1:])
	m.items[len(m.items)-1] = nil
	m.items = m.items[:len(m.items)-1]
	for i := slot; i < len(m.items); i++ {
		m.items[i].setSlot(i)
	}
	m.changed()
	return true
}

// Swap exchanges the items in slots a and b. Equal or unpopulated slots are a
// no-op reported as false.
func (m *OrderMap) Swap(a, b int) bool {
	if a == b || !m.inRange(a) || !m.inRange(b) {
		return false
	}
	first, second := m.items[a], m.items[b]
	if first == nil || second == nil {
		return false
	}
	m.items[a], m.items[b] = second, first
	first.setSlot(b)
	second.setSlot(a)
	return true
}

// SetEditMode changes the global edit flag and applies it to every item.
func (m *OrderMap) SetEditMode(on bool) {
	m.editMode = on
	for _, item := range m.items {
		item.SetEditMode(on)
	}
}

// SetVideoID replaces the video shown in slot. The item keeps its key and
// gets a new player handle.
func (m *OrderMap) SetVideoID(slot int, id string) bool {
	item := m.At(slot)
	if item == nil || id == "" {
		return false
	}
	if item.videoID == id {
		return true
	}
	item.player = m.players.NewPlayer(item.key, id)
	item.setVideoID(id)
	return true
}

// Clear removes every item.
func (m *OrderMap) Clear() {
	if len(m.items) == 0 {
		return
	}
	for _, item := range m.items {
		m.view.Unmount(item)
		item.player = nil
	}
	m.items = nil
	m.changed()
}

func (m *OrderMap) inRange(slot int) bool {
	return slot >= 0 && slot < len(m.items)
}

func (m *OrderMap) changed() {
	if m.onChange != nil {
		m.onChange(len(m.items))
	}
}
