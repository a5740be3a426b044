package style

import (
	"fmt"
	"regexp"

	"github.com/lucasb-eyer/go-colorful"
)

// HaloColor is painted on text halos of restyled symbol layers.
const HaloColor = "#ffffff33"

var hexPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Color is a validated #RRGGBB hex color.
type Color string

// ParseColor validates s as a 7-character hex color. The value is kept
// byte-for-byte; only the format is checked.
func ParseColor(s string) (Color, error) {
	if !hexPattern.MatchString(s) {
		return "", fmt.Errorf("invalid color %q: want #RRGGBB", s)
	}
	if _, err := colorful.Hex(s); err != nil {
		return "", fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color(s), nil
}

// Valid reports whether c satisfies the #RRGGBB format.
func (c Color) Valid() bool {
	_, err := ParseColor(string(c))
	return err == nil
}

// PickerValue returns the lower-case form expected by HTML color inputs.
func (c Color) PickerValue() string {
	cf, err := colorful.Hex(string(c))
	if err != nil {
		return string(c)
	}
	return cf.Hex()
}
