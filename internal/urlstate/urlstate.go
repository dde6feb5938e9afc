// Package urlstate round-trips the grid arrangement through a URL query.
package urlstate

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/multiview/multiview/internal/layout"
	"github.com/multiview/multiview/internal/videoid"
)

// Query parameter names.
const (
	ParamVideos   = "v"
	ParamSize     = "size"
	ParamAutoplay = "autoplay"
	ParamMute     = "mute"
	ParamEdit     = "edit"
	ParamPick     = "pick"
	ParamWidth    = "vw"
	ParamHeight   = "vh"
	ParamDebug    = "debug"
)

// NoPick marks a state without an open picker.
const NoPick = -1

// State is everything the page URL carries.
type State struct {
	IDs            []string
	SizeMode       layout.SizeMode
	Autoplay       bool
	Mute           bool
	Debug          bool
	Edit           bool
	Pick           int
	ViewportWidth  int
	ViewportHeight int
}

// New returns the state of an empty page.
func New() State {
	return State{SizeMode: layout.DefaultSizeMode, Pick: NoPick}
}

// Diagnostic reports a query parameter that was ignored.
type Diagnostic struct {
	Param   string `json:"param"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s=%q: %s", d.Param, d.Value, d.Message)
}

// Encode writes s as a query string without the leading "?". Keys always
// appear in the same order, so equal states encode to equal strings.
func Encode(s State) string {
	var parts []string
	add := func(key, value string) {
		parts = append(parts, key+"="+value)
	}

	if len(s.IDs) > 0 {
		escaped := make([]string, len(s.IDs))
		for i, id := range s.IDs {
			escaped[i] = url.QueryEscape(id)
		}
		add(ParamVideos, strings.Join(escaped, ","))
	}

	mode := s.SizeMode
	if mode == "" {
		mode = layout.DefaultSizeMode
	}
	add(ParamSize, url.QueryEscape(string(mode)))

	if s.Autoplay {
		add(ParamAutoplay, "1")
	}
	if s.Mute {
		add(ParamMute, "1")
	}
	if s.Edit {
		add(ParamEdit, "1")
	}
	if s.Edit && s.Pick >= 0 && s.Pick < len(s.IDs) {
		add(ParamPick, strconv.Itoa(s.Pick))
	}
	if s.ViewportWidth > 0 && s.ViewportHeight > 0 {
		add(ParamWidth, strconv.Itoa(s.ViewportWidth))
		add(ParamHeight, strconv.Itoa(s.ViewportHeight))
	}
	if s.Debug {
		parts = append(parts, ParamDebug)
	}
	return strings.Join(parts, "&")
}

// Decode parses a raw query. Invalid values are reported and the defaults
// kept; decoding never fails outright.
func Decode(rawQuery string) (State, []Diagnostic) {
	s := New()
	var diags []Diagnostic

	params, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil {
		diags = append(diags, Diagnostic{Param: "query", Value: rawQuery, Message: err.Error()})
	}

	s.Debug = params.Has(ParamDebug)

	if v := params.Get(ParamVideos); v != "" {
		s.IDs = videoid.ExtractIDs(v)
	}

	if raw := params.Get(ParamSize); raw != "" {
		mode, err := layout.ParseSizeMode(raw)
		if err != nil {
			diags = append(diags, Diagnostic{Param: ParamSize, Value: raw, Message: err.Error()})
		} else {
			s.SizeMode = mode
		}
	}

	s.Autoplay = parseFlag(params, ParamAutoplay, &diags)
	s.Mute = parseFlag(params, ParamMute, &diags)
	s.Edit = parseFlag(params, ParamEdit, &diags)

	if raw := params.Get(ParamPick); raw != "" {
		pick, err := strconv.Atoi(raw)
		switch {
		case err != nil || pick < 0:
			diags = append(diags, Diagnostic{Param: ParamPick, Value: raw, Message: "expected a slot number"})
		case pick >= len(s.IDs):
			diags = append(diags, Diagnostic{Param: ParamPick, Value: raw, Message: "slot is not occupied"})
		default:
			s.Pick = pick
		}
	}

	w := parseDimension(params, ParamWidth, &diags)
	h := parseDimension(params, ParamHeight, &diags)
	if w > 0 && h > 0 {
		s.ViewportWidth, s.ViewportHeight = w, h
	}
	return s, diags
}

func parseFlag(params url.Values, key string, diags *[]Diagnostic) bool {
	if !params.Has(key) {
		return false
	}
	raw := params.Get(key)
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	*diags = append(*diags, Diagnostic{Param: key, Value: raw, Message: "expected 1 or 0"})
	return false
}

// MaxDimension bounds the viewport values accepted from a URL.
const MaxDimension = 16384

func parseDimension(params url.Values, key string, diags *[]Diagnostic) int {
	raw := params.Get(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > MaxDimension {
		*diags = append(*diags, Diagnostic{Param: key, Value: raw, Message: fmt.Sprintf("expected a pixel size between 1 and %d", MaxDimension)})
		return 0
	}
	return n
}
