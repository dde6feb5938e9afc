package picker

import (
	"reflect"
	"testing"

	"github.com/multiview/multiview/internal/grid"
	"github.com/multiview/multiview/internal/layout"
)

type recordingHost struct {
	events []string
}

func (h *recordingHost) AttachPicker(item *grid.Item) {
	h.events = append(h.events, "attach:"+item.VideoID())
}

func (h *recordingHost) DetachPicker(item *grid.Item) {
	h.events = append(h.events, "detach:"+item.VideoID())
}

func newGrid(ids ...string) *grid.OrderMap {
	m := grid.NewOrderMap()
	for _, id := range ids {
		m.InsertAtEnd(id)
	}
	return m
}

func TestOpenBuildsOneButtonPerSlot(t *testing.T) {
	m := newGrid("a", "b", "c")
	p := New(m, nil)

	p.Open(m.At(1))

	want := []Button{{Slot: 0}, {Slot: 1, Current: true}, {Slot: 2}}
	if !reflect.DeepEqual(p.Buttons(), want) {
		t.Errorf("unexpected buttons: %+v", p.Buttons())
	}
	if p.Attached() != m.At(1) {
		t.Error("expected picker attached to slot 1")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	m := newGrid("a", "b")
	host := &recordingHost{}
	p := New(m, host)

	p.Open(m.At(0))
	first := p.Buttons()
	p.Open(m.At(0))

	if !reflect.DeepEqual(p.Buttons(), first) {
		t.Errorf("expected same buttons, got %+v", p.Buttons())
	}
	if !reflect.DeepEqual(host.events, []string{"attach:a"}) {
		t.Errorf("expected a single attach, got %v", host.events)
	}
}

func TestOpenMovesBetweenItems(t *testing.T) {
	m := newGrid("a", "b")
	host := &recordingHost{}
	p := New(m, host)

	p.Open(m.At(0))
	p.Open(m.At(1))

	want := []string{"attach:a", "detach:a", "attach:b"}
	if !reflect.DeepEqual(host.events, want) {
		t.Errorf("expected %v, got %v", want, host.events)
	}
}

func TestOpenIgnoresRemovedItem(t *testing.T) {
	m := newGrid("a", "b")
	p := New(m, nil)
	gone := m.At(1)
	m.RemoveAndCompact(1)

	p.Open(gone)

	if p.Attached() != nil {
		t.Error("expected removed item to be ignored")
	}
}

func TestChooseSwapsAndReopensOnOriginalSlot(t *testing.T) {
	m := newGrid("a", "b", "c")
	p := New(m, nil)
	p.Open(m.At(0))

	if !p.Choose(2) {
		t.Fatal("expected choose to swap")
	}

	if !reflect.DeepEqual(m.IDs(), []string{"c", "b", "a"}) {
		t.Errorf("unexpected order: %v", m.IDs())
	}
	if p.Attached() != m.At(0) || p.Attached().VideoID() != "c" {
		t.Errorf("expected picker on the item now at slot 0, got %v", p.Attached().VideoID())
	}
	want := []Button{{Slot: 0, Current: true}, {Slot: 1}, {Slot: 2}}
	if !reflect.DeepEqual(p.Buttons(), want) {
		t.Errorf("unexpected buttons: %+v", p.Buttons())
	}
}

func TestChooseCurrentSlotIsNoop(t *testing.T) {
	m := newGrid("a", "b")
	p := New(m, nil)
	p.Open(m.At(1))

	if p.Choose(1) {
		t.Error("expected choosing the current slot to do nothing")
	}
	if p.Choose(5) {
		t.Error("expected choosing an empty slot to do nothing")
	}
	if !reflect.DeepEqual(m.IDs(), []string{"a", "b"}) {
		t.Errorf("unexpected order: %v", m.IDs())
	}
}

func TestChooseWithoutAttachment(t *testing.T) {
	p := New(newGrid("a", "b"), nil)
	if p.Choose(1) {
		t.Error("expected detached picker to ignore choose")
	}
}

func TestHoverHighlightsWithoutReordering(t *testing.T) {
	m := newGrid("a", "b", "c")
	p := New(m, nil)
	p.Open(m.At(0))

	p.Hover(2)
	if !m.At(2).Highlighted() {
		t.Error("expected slot 2 highlighted")
	}
	p.Hover(0)
	if m.At(0).Highlighted() {
		t.Error("hovering the current button must not highlight")
	}
	p.Leave(2)
	if m.At(2).Highlighted() {
		t.Error("expected highlight cleared")
	}
	if !reflect.DeepEqual(m.IDs(), []string{"a", "b", "c"}) {
		t.Errorf("hover changed order: %v", m.IDs())
	}
}

func TestChooseClearsHoverHighlight(t *testing.T) {
	m := newGrid("a", "b")
	p := New(m, nil)
	p.Open(m.At(0))
	p.Hover(1)

	p.Choose(1)

	for _, item := range m.Items() {
		if item.Highlighted() {
			t.Errorf("item %s still highlighted", item.VideoID())
		}
	}
}

func TestFollowAfterRemovingAttachedItem(t *testing.T) {
	m := newGrid("s0", "s1", "s2", "s3")
	host := &recordingHost{}
	p := New(m, host)
	p.Open(m.At(1))

	m.RemoveAndCompact(1)
	p.Follow(1)

	if p.Attached() == nil || p.Attached().VideoID() != "s2" {
		t.Fatalf("expected picker on successor s2, got %v", p.Attached())
	}
	if len(p.Buttons()) != 3 || !p.Buttons()[1].Current {
		t.Errorf("unexpected buttons: %+v", p.Buttons())
	}
}

func TestFollowAfterRemovingLastItem(t *testing.T) {
	m := newGrid("a", "b")
	p := New(m, nil)
	p.Open(m.At(1))

	m.RemoveAndCompact(1)
	p.Follow(1)

	if p.Attached() == nil || p.Attached().VideoID() != "a" {
		t.Fatalf("expected picker on a, got %v", p.Attached())
	}
}

func TestFollowDetachesOnEmptyGrid(t *testing.T) {
	m := newGrid("a")
	p := New(m, nil)
	p.Open(m.At(0))

	m.RemoveAndCompact(0)
	p.Follow(0)

	if p.Attached() != nil || len(p.Buttons()) != 0 {
		t.Error("expected detached picker without buttons")
	}
}

func TestFollowRebuildsWhenOtherItemRemoved(t *testing.T) {
	m := newGrid("a", "b", "c")
	p := New(m, nil)
	p.Open(m.At(2))

	m.RemoveAndCompact(0)
	p.Follow(0)

	if p.Attached().VideoID() != "c" {
		t.Fatalf("expected picker to stay on c, got %s", p.Attached().VideoID())
	}
	want := []Button{{Slot: 0}, {Slot: 1, Current: true}}
	if !reflect.DeepEqual(p.Buttons(), want) {
		t.Errorf("unexpected buttons: %+v", p.Buttons())
	}
}

func TestCloseDetaches(t *testing.T) {
	m := newGrid("a")
	host := &recordingHost{}
	p := New(m, host)
	p.Open(m.At(0))

	p.Close()
	p.Close()

	if p.Attached() != nil {
		t.Error("expected picker detached")
	}
	if !reflect.DeepEqual(host.events, []string{"attach:a", "detach:a"}) {
		t.Errorf("unexpected host events: %v", host.events)
	}
}

func TestGeometryFromLayout(t *testing.T) {
	p := New(newGrid("a"), nil)
	p.SetGeometry(layout.Compute(5, layout.FitAll, 1000, 1000))

	if p.Columns() != 3 || p.Rows() != 3 || p.Width() != 111 {
		t.Errorf("unexpected geometry: cols=%d rows=%d width=%v", p.Columns(), p.Rows(), p.Width())
	}
}
