package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBadColor          = errors.New("bad tile color")
	ErrBadFactoryRequest = errors.New("bad factory request")
	ErrBadPoolRequest    = errors.New("bad pool request")
	ErrBadRow            = errors.New("bad pattern line row")
)

// Color is one of the five drawable tile colors. There is deliberately no
// "empty" member; places that can be empty return (Color, bool).
type Color uint8

const (
	Red Color = iota
	Blue
	Green
	Yellow
	White
)

// Colors lists every drawable color in encoding order.
var Colors = [NumColors]Color{Red, Blue, Green, Yellow, White}

var colorNames = [NumColors]string{"RED", "BLUE", "GREEN", "YELLOW", "WHITE"}

// ColorFromInt decodes the stable 0..4 integer encoding.
func ColorFromInt(v int) (Color, error) {
	if v < 0 || v >= NumColors {
		return 0, fmt.Errorf("%w: %d", ErrBadColor, v)
	}
	return Color(v), nil
}

// ParseColor accepts an upper-case name ("RED") or a single-letter symbol ("r").
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	for _, c := range Colors {
		if strings.EqualFold(s, colorNames[c]) || s == c.Symbol() {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadColor, s)
}

// Valid reports whether c is one of the five drawable colors.
func (c Color) Valid() bool {
	return c < NumColors
}

// Int returns the stable integer encoding.
func (c Color) Int() int {
	return int(c)
}

func (c Color) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Color(%d)", uint8(c))
	}
	return colorNames[c]
}

// Symbol is the lower-case letter used by text front-ends.
func (c Color) Symbol() string {
	if !c.Valid() {
		return "-"
	}
	return strings.ToLower(colorNames[c][:1])
}

// TileCounts maps each color to a tile count.
type TileCounts [NumColors]int

// Total sums every color.
func (tc TileCounts) Total() int {
	n := 0
	for _, v := range tc {
		n += v
	}
	return n
}

// Colors returns the colors with a positive count, in encoding order.
func (tc TileCounts) Colors() []Color {
	var out []Color
	for _, c := range Colors {
		if tc[c] > 0 {
			out = append(out, c)
		}
	}
	return out
}

// IsEmpty reports whether every count is zero.
func (tc TileCounts) IsEmpty() bool {
	return tc.Total() == 0
}
