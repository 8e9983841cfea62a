package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a 32-bit ARGB color value.
type Color uint32

// Note palette.
const (
	RedOrange  Color = 0xFFFFAB91
	LightGreen Color = 0xFFE7ED9B
	Violet     Color = 0xFFCF94DA
	BabyBlue   Color = 0xFF81DEEA
	RedPink    Color = 0xFFF48FB1
)

// Palette lists the colors offered by the note editor, in display order.
var Palette = []Color{RedOrange, LightGreen, Violet, BabyBlue, RedPink}

var colorNames = map[Color]string{
	RedOrange:  "red-orange",
	LightGreen: "light-green",
	Violet:     "violet",
	BabyBlue:   "baby-blue",
	RedPink:    "red-pink",
}

// RGB returns the red, green and blue components.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Hex returns the color as #rrggbb, dropping alpha.
func (c Color) Hex() string {
	r, g, b := c.RGB()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Name returns the palette name of the color or its hex form.
func (c Color) Name() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return c.Hex()
}

// InPalette reports whether c is one of the palette colors.
func (c Color) InPalette() bool {
	_, ok := colorNames[c]
	return ok
}

// ParseColor accepts a palette name ("violet"), "#rrggbb" or "#aarrggbb".
// A six digit hex value is treated as fully opaque.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, name := range colorNames {
		if name == s {
			return c, nil
		}
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v |= 0xFF000000
	}
	return Color(v), nil
}
