package videoid

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultEmbedBase is the player embed prefix used when none is configured.
const DefaultEmbedBase = "https://www.youtube.com/embed/"

var (
	markerPattern    = regexp.MustCompile(`vi/|v=|/v/|youtu\.be/|/embed/`)
	invalidIDPattern = regexp.MustCompile(`[^0-9A-Za-z_\-]`)
	validIDPattern   = regexp.MustCompile(`^[0-9A-Za-z_\-]+$`)
	separatorPattern = regexp.MustCompile(`[\s,]+`)
)

// ExtractID returns the video ID contained in token. Tokens without a known
// URL marker are returned trimmed but otherwise unchanged, so bare IDs pass
// through.
func ExtractID(token string) string {
	token = strings.TrimSpace(token)
	loc := markerPattern.FindStringIndex(token)
	if loc == nil {
		return token
	}

	rest := token[loc[1]:]
	if next := markerPattern.FindStringIndex(rest); next != nil {
		rest = rest[:next[0]]
	}
	if cut := invalidIDPattern.FindStringIndex(rest); cut != nil {
		rest = rest[:cut[0]]
	}
	return rest
}

// ExtractIDs splits text on commas and whitespace and extracts one ID per
// piece. Pieces that yield an empty ID are dropped, so blank input returns an
// empty slice.
func ExtractIDs(text string) []string {
	pieces := separatorPattern.Split(strings.TrimSpace(text), -1)
	ids := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		if id := ExtractID(piece); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Valid reports whether id is a non-empty run of ID characters, which is
// what survives a trip through the v query parameter.
func Valid(id string) bool { return validIDPattern.MatchString(id) }

// EmbedURL joins the embed base and the escaped ID.
func EmbedURL(base, id string) string {
	if base == "" {
		base = DefaultEmbedBase
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + url.PathEscape(id)
}
