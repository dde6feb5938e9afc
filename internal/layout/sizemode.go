package layout

import (
	"errors"
	"fmt"
	"strings"
)

// SizeMode selects how many columns the grid shows on one screen.
type SizeMode string

const (
	// FitAll picks the smallest square grid that holds every item.
	FitAll       SizeMode = "fitall"
	OneByOne     SizeMode = "1x1"
	TwoByTwo     SizeMode = "2x2"
	ThreeByThree SizeMode = "3x3"
	FourByFour   SizeMode = "4x4"

	// Spotlight shows slot 0 across a 2x2 block and the rest as single cells.
	Spotlight SizeMode = "spotlight"
)

// DefaultSizeMode is used when no valid mode is requested.
const DefaultSizeMode = FitAll

var ErrUnknownSizeMode = errors.New("unknown size mode")

var modes = []SizeMode{FitAll, OneByOne, TwoByTwo, ThreeByThree, FourByFour, Spotlight}

// Modes lists the supported size modes in selector order.
func Modes() []SizeMode {
	out := make([]SizeMode, len(modes))
	copy(out, modes)
	return out
}

// ParseSizeMode validates a size mode token. The separator may be "x" or "×".
func ParseSizeMode(s string) (SizeMode, error) {
	token := strings.ToLower(strings.TrimSpace(s))
	token = strings.ReplaceAll(token, "×", "x")
	for _, m := range modes {
		if string(m) == token {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSizeMode, s)
}

// Fixed reports the fixed column count of a kxk mode, or 0 for modes whose
// columns depend on the item count.
func (m SizeMode) Fixed() int {
	switch m {
	case OneByOne:
		return 1
	case TwoByTwo:
		return 2
	case ThreeByThree:
		return 3
	case FourByFour:
		return 4
	}
	return 0
}

// Label is the human readable selector text.
func (m SizeMode) Label() string {
	switch m {
	case FitAll:
		return "Fit all"
	case Spotlight:
		return "Spotlight"
	}
	if k := m.Fixed(); k > 0 {
		return fmt.Sprintf("%d×%d", k, k)
	}
	return string(m)
}
