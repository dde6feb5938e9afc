package app

import (
	"github.com/multiview/multiview/internal/layout"
	"github.com/multiview/multiview/internal/picker"
)

// ItemView is the rendered state of one grid cell.
type ItemView struct {
	Key               string `json:"key"`
	Slot              int    `json:"slot"`
	VideoID           string `json:"videoId"`
	EditMode          bool   `json:"editMode"`
	Highlighted       bool   `json:"highlighted"`
	ShowDeleteControl bool   `json:"showDeleteControl"`
	HasPicker         bool   `json:"hasPicker"`
	Featured          bool   `json:"featured"`
}

// PickerView is the rendered state of the position picker.
type PickerView struct {
	Slot    int             `json:"slot"`
	Width   float64         `json:"width"`
	Height  float64         `json:"height"`
	Columns int             `json:"columns"`
	Rows    int             `json:"rows"`
	Buttons []picker.Button `json:"buttons"`
}

// Stats counts work done by the controller. Snapshots carry it in debug mode.
type Stats struct {
	LayoutRecomputes int `json:"layoutRecomputes"`
	PickerRebuilds   int `json:"pickerRebuilds"`
}

// Snapshot is a read-only copy of everything needed to draw the grid.
type Snapshot struct {
	Query       string       `json:"query"`
	Layout      layout.Spec  `json:"layout"`
	Items       []ItemView   `json:"items"`
	Picker      *PickerView  `json:"picker,omitempty"`
	Edit        bool         `json:"edit"`
	Autoplay    bool         `json:"autoplay"`
	Mute        bool         `json:"mute"`
	Debug       bool         `json:"debug"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	Stats       *Stats       `json:"stats,omitempty"`
}

// Snapshot captures the controller in slot order.
func (c *Controller) Snapshot() Snapshot {
	attached := c.picker.Attached()
	items := make([]ItemView, 0, c.order.Len())
	for _, item := range c.order.Items() {
		items = append(items, ItemView{
			Key:               item.Key(),
			Slot:              item.Slot(),
			VideoID:           item.VideoID(),
			EditMode:          item.EditMode(),
			Highlighted:       item.Highlighted(),
			ShowDeleteControl: item.ShowDeleteControl(),
			HasPicker:         item == attached,
			Featured:          c.spec.FeatureSpan > 1 && item.Slot() == 0,
		})
	}

	snap := Snapshot{
		Query:       c.Query(),
		Layout:      c.spec,
		Items:       items,
		Edit:        c.order.EditMode(),
		Autoplay:    c.autoplay,
		Mute:        c.mute,
		Debug:       c.debug,
		Diagnostics: c.Diagnostics(),
	}
	if c.debug {
		snap.Stats = &Stats{LayoutRecomputes: c.recomputes, PickerRebuilds: c.picker.Rebuilds()}
	}
	if attached != nil {
		snap.Picker = &PickerView{
			Slot:    attached.Slot(),
			Width:   c.picker.Width(),
			Height:  c.picker.Height(),
			Columns: c.picker.Columns(),
			Rows:    c.picker.Rows(),
			Buttons: c.picker.Buttons(),
		}
	}
	return snap
}
