package page

import (
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/multiview/multiview/internal/app"
	"github.com/multiview/multiview/internal/layout"
	"github.com/multiview/multiview/internal/urlstate"
	"github.com/multiview/multiview/internal/validate"
	"github.com/multiview/multiview/internal/videoid"
)

// Options control everything about the page that is not grid state.
type Options struct {
	Nonce     string
	EmbedBase string
	// Action is where command forms are posted.
	Action string
	// WallID is set when the page shows a live wall.
	WallID        string
	SettingsDelay time.Duration
}

type modeOption struct {
	Value    string
	Label    string
	Selected bool
}

type cell struct {
	app.ItemView
	Src string
	// SrcDoc replaces the embed with a placeholder naming the video.
	SrcDoc string
	Picker *app.PickerView
}

type pageData struct {
	Title           string
	Nonce           string
	Action          string
	Query           string
	WallID          string
	Edit            bool
	Mute            bool
	Debug           bool
	Count           int
	Modes           []modeOption
	Cells           []cell
	GridCSS         template.CSS
	Diagnostics     []string
	Stats           *app.Stats
	SettingsDelayMS int64
	MaxTextLength   int
	ViewportWidth   int
	ViewportHeight  int
}

// Render writes the grid page for snap.
func Render(w io.Writer, snap app.Snapshot, opts Options) error {
	if err := gridTemplate.Execute(w, build(snap, opts)); err != nil {
		return fmt.Errorf("render grid page: %w", err)
	}
	return nil
}

func build(snap app.Snapshot, opts Options) pageData {
	title := "Multiview"
	if n := len(snap.Items); n > 0 {
		title = fmt.Sprintf("Multiview (%d)", n)
	}

	data := pageData{
		Title:           title,
		Nonce:           opts.Nonce,
		Action:          opts.Action,
		Query:           snap.Query,
		WallID:          opts.WallID,
		Edit:            snap.Edit,
		Mute:            snap.Mute,
		Debug:           snap.Debug,
		Count:           len(snap.Items),
		GridCSS:         gridCSS(snap.Layout, snap.Picker),
		Stats:           snap.Stats,
		SettingsDelayMS: opts.SettingsDelay.Milliseconds(),
		MaxTextLength:   validate.MaxAddTextLength,
	}
	state, _ := urlstate.Decode(snap.Query)
	data.ViewportWidth = state.ViewportWidth
	data.ViewportHeight = state.ViewportHeight

	for _, m := range layout.Modes() {
		data.Modes = append(data.Modes, modeOption{
			Value:    string(m),
			Label:    m.Label(),
			Selected: m == snap.Layout.Mode,
		})
	}

	for _, item := range snap.Items {
		c := cell{ItemView: item}
		if snap.Debug {
			c.SrcDoc = item.VideoID
		} else {
			c.Src = embedSrc(opts.EmbedBase, item.VideoID, snap.Autoplay, snap.Mute)
		}
		if item.HasPicker {
			c.Picker = snap.Picker
		}
		data.Cells = append(data.Cells, c)
	}

	for _, d := range snap.Diagnostics {
		data.Diagnostics = append(data.Diagnostics, d.String())
	}
	return data
}

func embedSrc(base, id string, autoplay, mute bool) string {
	q := url.Values{}
	q.Set("enablejsapi", "1")
	q.Set("playsinline", "1")
	if autoplay {
		q.Set("autoplay", "1")
	}
	if mute {
		q.Set("mute", "1")
	}
	return videoid.EmbedURL(base, id) + "?" + q.Encode()
}

// gridCSS sizes the grid from the layout. Without a known viewport the grid
// falls back to fractional columns filling the window.
func gridCSS(spec layout.Spec, p *app.PickerView) template.CSS {
	var b strings.Builder
	cols := max(spec.Columns, 1)

	if spec.CellWidth > 0 && spec.CellHeight > 0 {
		fmt.Fprintf(&b, ".grid{grid-template-columns:repeat(%d,%dpx);grid-auto-rows:%dpx;width:%dpx;height:%dpx;}",
			cols, int(spec.CellWidth), int(spec.CellHeight), int(spec.GridWidth), int(spec.GridHeight))
	} else {
		rows := max(spec.RowsOnScreen, 1)
		fmt.Fprintf(&b, ".grid{grid-template-columns:repeat(%d,1fr);grid-auto-rows:calc(100vh/%d);width:100vw;}", cols, rows)
	}

	if spec.FeatureSpan > 1 {
		fmt.Fprintf(&b, ".cell.featured{grid-column:span %d;grid-row:span %d;}", spec.FeatureSpan, spec.FeatureSpan)
	}

	if p != nil {
		fmt.Fprintf(&b, ".picker{grid-template-columns:repeat(%d,1fr);", max(p.Columns, 1))
		if p.Width > 0 && p.Height > 0 {
			fmt.Fprintf(&b, "width:%dpx;height:%dpx;", int(p.Width), int(p.Height))
		}
		b.WriteString("}")
	}
	return template.CSS(b.String())
}
