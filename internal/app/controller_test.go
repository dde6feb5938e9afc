package app

import (
	"reflect"
	"testing"

	"github.com/multiview/multiview/internal/layout"
	"github.com/multiview/multiview/internal/player"
	"github.com/multiview/multiview/internal/urlstate"
)

type sentCommand struct {
	videoID string
	action  player.Action
}

type recordingPlayers struct {
	sent []sentCommand
}

type recordingPlayer struct {
	owner   *recordingPlayers
	videoID string
}

func (p *recordingPlayer) Send(cmd player.Command) {
	p.owner.sent = append(p.owner.sent, sentCommand{videoID: p.videoID, action: cmd.Action})
}

func (r *recordingPlayers) NewPlayer(key, videoID string) player.Player {
	return &recordingPlayer{owner: r, videoID: videoID}
}

func newController(ids ...string) *Controller {
	c := NewController(Config{})
	if len(ids) > 0 {
		c.Dispatch(Insert{IDs: ids})
	}
	return c
}

func TestInsertRecomputesLayout(t *testing.T) {
	c := NewController(Config{})
	c.Dispatch(Resize{Width: 1000, Height: 1000})

	c.Dispatch(Insert{IDs: []string{"a", "b", "c", "d", "e"}})

	spec := c.Layout()
	if spec.Count != 5 || spec.Columns != 3 || spec.Rows != 3 {
		t.Errorf("expected 3x3 layout for 5 items, got %+v", spec)
	}
	if c.Picker().Columns() != 3 {
		t.Errorf("expected picker geometry to follow layout, got %d columns", c.Picker().Columns())
	}
}

func TestAddTextExtractsIDs(t *testing.T) {
	c := newController()

	c.Dispatch(AddText{Text: "https://youtu.be/abc123?t=5, https://www.youtube.com/watch?v=xyz plain"})

	if !reflect.DeepEqual(c.Order().IDs(), []string{"abc123", "xyz", "plain"}) {
		t.Errorf("unexpected ids: %v", c.Order().IDs())
	}
}

func TestAddTextEmptyIsNoop(t *testing.T) {
	c := newController()
	before := c.Recomputes()

	c.Dispatch(AddText{Text: "   "})

	if c.Order().Len() != 0 || c.Recomputes() != before {
		t.Error("expected empty add text to do nothing")
	}
	if len(c.Diagnostics()) != 0 {
		t.Errorf("expected no diagnostics, got %v", c.Diagnostics())
	}
}

func TestInsertRespectsMaxVideos(t *testing.T) {
	c := NewController(Config{MaxVideos: 3})

	c.Dispatch(Insert{IDs: []string{"a", "b"}}, Insert{IDs: []string{"c", "d"}})

	if !reflect.DeepEqual(c.Order().IDs(), []string{"a", "b", "c"}) {
		t.Errorf("expected grid capped at 3, got %v", c.Order().IDs())
	}
	if len(c.Diagnostics()) != 1 {
		t.Errorf("expected one diagnostic, got %v", c.Diagnostics())
	}
}

func TestInsertRejectsOversizedID(t *testing.T) {
	c := newController()
	long := string(make([]byte, 65))

	c.Dispatch(Insert{IDs: []string{"ok", long}})

	if c.Order().Len() != 1 || len(c.Diagnostics()) != 1 {
		t.Errorf("expected oversized id rejected, got len=%d diags=%v", c.Order().Len(), c.Diagnostics())
	}
}

func TestInsertCapsAfterDroppingInvalidIDs(t *testing.T) {
	c := NewController(Config{MaxVideos: 2})

	c.Dispatch(Insert{IDs: []string{"", "a", "a,b", "b", "c"}})

	if !reflect.DeepEqual(c.Order().IDs(), []string{"a", "b"}) {
		t.Errorf("expected the first two valid ids, got %v", c.Order().IDs())
	}
	if len(c.Diagnostics()) != 3 {
		t.Errorf("expected two invalid ids and one cap diagnostic, got %v", c.Diagnostics())
	}
}

func TestTypedCommandsRoundTripThroughQuery(t *testing.T) {
	tests := []struct {
		name      string
		cmds      []Command
		wantIDs   []string
		wantDiags int
	}{
		{"empty id", []Command{Insert{IDs: []string{"", "abc"}}}, []string{"abc"}, 1},
		{"comma in id", []Command{Insert{IDs: []string{"a,b"}}}, []string{}, 1},
		{"whitespace in id", []Command{Insert{IDs: []string{"a b", " c "}}}, []string{"c"}, 1},
		{"url form", []Command{Insert{IDs: []string{"https://youtu.be/xyz?t=3"}}}, []string{"xyz"}, 0},
		{"set video with space", []Command{Insert{IDs: []string{"a"}}, SetVideo{Slot: 0, Text: "a b"}}, []string{"a"}, 1},
		{"set video empty", []Command{Insert{IDs: []string{"a"}}, SetVideo{Slot: 0, Text: ""}}, []string{"a"}, 1},
		{"set video url", []Command{Insert{IDs: []string{"a"}}, SetVideo{Slot: 0, Text: "https://www.youtube.com/watch?v=q1"}}, []string{"q1"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(Config{})
			c.Dispatch(tt.cmds...)

			if !reflect.DeepEqual(c.Order().IDs(), tt.wantIDs) {
				t.Errorf("ids = %#v, want %#v", c.Order().IDs(), tt.wantIDs)
			}
			if len(c.Diagnostics()) != tt.wantDiags {
				t.Errorf("expected %d diagnostics, got %v", tt.wantDiags, c.Diagnostics())
			}
			decoded, diags := urlstate.Decode(c.Query())
			if len(diags) != 0 {
				t.Fatalf("query %q did not decode cleanly: %v", c.Query(), diags)
			}
			if len(decoded.IDs) != c.Order().Len() || (len(decoded.IDs) > 0 && !reflect.DeepEqual(decoded.IDs, c.Order().IDs())) {
				t.Errorf("query %q decodes to %v, grid holds %v", c.Query(), decoded.IDs, c.Order().IDs())
			}
		})
	}
}

func TestDeleteScenarioReopensPickerOnSuccessor(t *testing.T) {
	c := newController("s0", "s1", "s2", "s3")
	c.Dispatch(SetEdit{On: true}, OpenPicker{Slot: 1})

	c.Dispatch(Remove{Slot: 1})

	if !reflect.DeepEqual(c.Order().IDs(), []string{"s0", "s2", "s3"}) {
		t.Fatalf("unexpected order: %v", c.Order().IDs())
	}
	for i, slot := range c.Order().Slots() {
		if slot != i {
			t.Fatalf("slots not dense: %v", c.Order().Slots())
		}
	}
	attached := c.Picker().Attached()
	if attached == nil || attached.VideoID() != "s2" || attached.Slot() != 1 {
		t.Errorf("expected picker on s2 at slot 1, got %+v", attached)
	}
}

func TestRemoveOutOfRangeRecordsDiagnostic(t *testing.T) {
	c := newController("a")

	c.Dispatch(Remove{Slot: 4})

	if c.Order().Len() != 1 {
		t.Error("expected no removal")
	}
	diags := c.Diagnostics()
	if len(diags) != 1 || diags[0].Op != "remove" {
		t.Errorf("expected remove diagnostic, got %v", diags)
	}
	c.ResetDiagnostics()
	if len(c.Diagnostics()) != 0 {
		t.Error("expected diagnostics cleared")
	}
}

func TestSwapCommandRebuildsPicker(t *testing.T) {
	c := newController("a", "b", "c")
	c.Dispatch(SetEdit{On: true})
	rebuilds := c.Picker().Rebuilds()

	c.Dispatch(Swap{A: 0, B: 2})

	if !reflect.DeepEqual(c.Order().IDs(), []string{"c", "b", "a"}) {
		t.Errorf("unexpected order: %v", c.Order().IDs())
	}
	if c.Picker().Rebuilds() != rebuilds+1 {
		t.Error("expected picker rebuilt after swap")
	}
	if c.Picker().Attached().VideoID() != "a" || !c.Picker().Buttons()[2].Current {
		t.Errorf("expected picker to stay on a, now in slot 2: %+v", c.Picker().Buttons())
	}
}

func TestSwapSameSlotIsSilent(t *testing.T) {
	c := newController("a", "b")
	c.Dispatch(Swap{A: 1, B: 1})
	if len(c.Diagnostics()) != 0 {
		t.Errorf("expected no diagnostics, got %v", c.Diagnostics())
	}
}

func TestSetSizeModeRejectsUnknown(t *testing.T) {
	c := newController("a")
	c.Dispatch(SetSizeMode{Mode: "2x2"}, SetSizeMode{Mode: "bogus"})

	if c.SizeMode() != layout.TwoByTwo {
		t.Errorf("expected 2x2 retained, got %s", c.SizeMode())
	}
	if len(c.Diagnostics()) != 1 {
		t.Errorf("expected one diagnostic, got %v", c.Diagnostics())
	}
	if c.Layout().Columns != 2 {
		t.Errorf("expected layout recomputed for 2x2, got %d columns", c.Layout().Columns)
	}
}

func TestRecomputeOnlyOnRelevantChange(t *testing.T) {
	c := newController("a")
	before := c.Recomputes()

	c.Dispatch(Resize{Width: 800, Height: 600}, Resize{Width: 800, Height: 600}, SetSizeMode{Mode: "fitall"})

	if c.Recomputes() != before+1 {
		t.Errorf("expected one recompute, got %d", c.Recomputes()-before)
	}
}

func TestEditModeOpensAndClosesPicker(t *testing.T) {
	c := newController("a", "b")

	c.Dispatch(ToggleEdit{})
	if !c.EditMode() || c.Picker().Attached() != c.Order().At(0) {
		t.Fatal("expected edit mode with picker on the first item")
	}
	for _, item := range c.Order().Items() {
		if !item.EditMode() || !item.ShowDeleteControl() {
			t.Errorf("expected %s in edit mode", item.VideoID())
		}
	}

	c.Dispatch(ToggleEdit{})
	if c.EditMode() || c.Picker().Attached() != nil {
		t.Error("expected edit mode off and picker closed")
	}
}

func TestOpenPickerRequiresEditMode(t *testing.T) {
	c := newController("a", "b")

	c.Dispatch(OpenPicker{Slot: 1})

	if c.Picker().Attached() != nil || len(c.Diagnostics()) != 1 {
		t.Error("expected picker to stay closed outside edit mode")
	}
}

func TestChoosePositionKeepsPickerOnOriginalSlot(t *testing.T) {
	c := newController("a", "b", "c")
	c.Dispatch(SetEdit{On: true}, OpenPicker{Slot: 0}, Hover{Slot: 2})

	if !c.Order().At(2).Highlighted() {
		t.Fatal("expected hover highlight")
	}

	c.Dispatch(ChoosePosition{Slot: 2})

	if !reflect.DeepEqual(c.Order().IDs(), []string{"c", "b", "a"}) {
		t.Errorf("unexpected order: %v", c.Order().IDs())
	}
	if c.Picker().Attached().Slot() != 0 {
		t.Errorf("expected picker at slot 0, got %d", c.Picker().Attached().Slot())
	}
	c.Dispatch(Leave{Slot: 2})
	for _, item := range c.Order().Items() {
		if item.Highlighted() {
			t.Errorf("%s still highlighted", item.VideoID())
		}
	}
}

func TestChoosePositionWithoutPicker(t *testing.T) {
	c := newController("a", "b")
	c.Dispatch(ChoosePosition{Slot: 1})
	if len(c.Diagnostics()) != 1 {
		t.Errorf("expected diagnostic, got %v", c.Diagnostics())
	}
}

func TestSetVideo(t *testing.T) {
	c := newController("a", "b")

	c.Dispatch(SetVideo{Slot: 1, Text: "https://youtu.be/new1"})

	if !reflect.DeepEqual(c.Order().IDs(), []string{"a", "new1"}) {
		t.Errorf("unexpected ids: %v", c.Order().IDs())
	}
}

func TestClear(t *testing.T) {
	c := newController("a", "b")
	c.Dispatch(SetEdit{On: true}, Clear{})

	if c.Order().Len() != 0 || c.Picker().Attached() != nil {
		t.Error("expected empty grid without picker")
	}
	if c.Layout().GridHeight != 0 {
		t.Errorf("expected collapsed grid, got %+v", c.Layout())
	}
}

func TestPlayerCommands(t *testing.T) {
	players := &recordingPlayers{}
	c := NewController(Config{Players: players})
	c.Dispatch(Insert{IDs: []string{"a", "b"}})

	c.Dispatch(
		Player{Command: player.Play(), Slot: AllSlots},
		Player{Command: player.Pause(), Slot: 1},
		Player{Command: player.Mute(), Slot: AllSlots},
		Player{Command: player.Play(), Slot: 7},
	)

	want := []sentCommand{
		{"a", player.ActionPlay}, {"b", player.ActionPlay},
		{"b", player.ActionPause},
		{"a", player.ActionMute}, {"b", player.ActionMute},
	}
	if !reflect.DeepEqual(players.sent, want) {
		t.Errorf("unexpected player commands: %v", players.sent)
	}
	if !c.State().Mute {
		t.Error("expected mute-all to set the mute flag")
	}
	if len(c.Diagnostics()) != 1 {
		t.Errorf("expected diagnostic for empty slot, got %v", c.Diagnostics())
	}
}

func TestLoadAndStateRoundTrip(t *testing.T) {
	in, diags := urlstate.Decode("v=a,b,c&size=2x2&autoplay=1&edit=1&pick=2&vw=1280&vh=720&debug")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	c := NewController(Config{})
	c.Load(in)

	if !reflect.DeepEqual(c.State(), in) {
		t.Errorf("state mismatch:\n got %+v\nwant %+v", c.State(), in)
	}
	if c.Query() != "v=a,b,c&size=2x2&autoplay=1&edit=1&pick=2&vw=1280&vh=720&debug" {
		t.Errorf("unexpected query: %s", c.Query())
	}
	if len(c.Diagnostics()) != 0 {
		t.Errorf("unexpected diagnostics: %v", c.Diagnostics())
	}
}

func TestSnapshotStatsOnlyInDebug(t *testing.T) {
	c := newController("a", "b")
	if c.Snapshot().Stats != nil {
		t.Error("expected no stats outside debug mode")
	}

	c.Dispatch(SetFlags{Debug: true}, SetEdit{On: true})
	stats := c.Snapshot().Stats
	if stats == nil {
		t.Fatal("expected stats in debug mode")
	}
	if stats.LayoutRecomputes != c.Recomputes() || stats.PickerRebuilds != c.Picker().Rebuilds() || stats.PickerRebuilds == 0 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestLoadEmptyState(t *testing.T) {
	c := NewController(Config{})
	c.Load(urlstate.New())

	if c.Order().Len() != 0 || len(c.Diagnostics()) != 0 {
		t.Errorf("expected quiet empty load, got %v", c.Diagnostics())
	}
	if c.Query() != "size=fitall" {
		t.Errorf("unexpected query: %s", c.Query())
	}
}

func TestSnapshot(t *testing.T) {
	c := newController("a", "b", "c")
	c.Dispatch(SetSizeMode{Mode: "spotlight"}, Resize{Width: 1200, Height: 1200}, SetEdit{On: true}, OpenPicker{Slot: 1})

	snap := c.Snapshot()

	if len(snap.Items) != 3 || snap.Items[1].VideoID != "b" || !snap.Items[1].HasPicker {
		t.Errorf("unexpected items: %+v", snap.Items)
	}
	if !snap.Items[0].Featured || snap.Items[1].Featured {
		t.Error("expected only slot 0 featured in spotlight mode")
	}
	if snap.Picker == nil || snap.Picker.Slot != 1 || len(snap.Picker.Buttons) != 3 {
		t.Errorf("unexpected picker: %+v", snap.Picker)
	}
	if snap.Query != c.Query() || !snap.Edit {
		t.Errorf("unexpected snapshot header: %+v", snap)
	}
}
