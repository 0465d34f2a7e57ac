// Package colors implements the colour arithmetic used for cell styling:
// sRGB colours, two stop gradients and multi stop colour maps.
package colors

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

var (
	// ErrFormat is returned when colour literal cannot be parsed.
	ErrFormat = errors.New("malformed color")
	// ErrRange is returned when interpolation position is outside of [0, 1].
	ErrRange = errors.New("position out of range")
)

// Color is an immutable sRGB triple.
type Color struct {
	r, g, b uint8
}

// New returns color with given channel values.
func New(r, g, b uint8) Color {
	return Color{r: r, g: g, b: b}
}

// R, G and B return channel values.
func (c Color) R() uint8 { return c.r }
func (c Color) G() uint8 { return c.g }
func (c Color) B() uint8 { return c.b }

var namedColors = map[string]Color{
	"red":     {255, 0, 0},
	"green":   {0, 255, 0},
	"blue":    {0, 0, 255},
	"yellow":  {255, 255, 0},
	"cyan":    {0, 255, 255},
	"magenta": {255, 0, 255},
	"black":   {0, 0, 0},
	"white":   {255, 255, 255},
}

// FromHex parses "#rrggbb".
func FromHex(s string) (Color, error) {
	if len(s) != 7 || s[0] != '#' {
		return Color{}, fmt.Errorf("%w: %q is not #rrggbb", ErrFormat, s)
	}
	var ch [3]uint8
	for i := range ch {
		v, err := strconv.ParseUint(s[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q has bad hex digits", ErrFormat, s)
		}
		ch[i] = uint8(v)
	}
	return New(ch[0], ch[1], ch[2]), nil
}

var rgbPattern = regexp.MustCompile(`^rgb\((\d+), (\d+), (\d+)\)$`)

// FromRGB parses "rgb(r, g, b)" where every channel fits into a byte.
func FromRGB(s string) (Color, error) {
	m := rgbPattern.FindStringSubmatch(s)
	if m == nil {
		return Color{}, fmt.Errorf("%w: %q is not rgb(r, g, b)", ErrFormat, s)
	}
	var ch [3]uint8
	for i := range ch {
		v, err := strconv.ParseUint(m[i+1], 10, 8)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q channel %d out of range", ErrFormat, s, i)
		}
		ch[i] = uint8(v)
	}
	return New(ch[0], ch[1], ch[2]), nil
}

// Parse accepts hex, rgb() and a handful of color names, in that order.
func Parse(s string) (Color, error) {
	if c, err := FromHex(s); err == nil {
		return c, nil
	}
	if c, err := FromRGB(s); err == nil {
		return c, nil
	}
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	return Color{}, fmt.Errorf("%w: %q", ErrFormat, s)
}

// MustParse is like Parse but panics on error. For use in initializers.
func MustParse(s string) Color {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) csv() string {
	return fmt.Sprintf("%d, %d, %d", c.r, c.g, c.b)
}

// Hex formats color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
}

// RGB formats color as "rgb(r, g, b)".
func (c Color) RGB() string {
	return "rgb(" + c.csv() + ")"
}

// RGBA formats color with opacity a as "rgba(r, g, b, a)". Opacity is
// written in the shortest form which reads back to the same float.
func (c Color) RGBA(a float64) string {
	return "rgba(" + c.csv() + ", " + strconv.FormatFloat(a, 'f', -1, 64) + ")"
}

func (c Color) String() string {
	return c.Hex()
}

// RelativeLuminance returns WCAG relative luminance of the color: 0 for
// black, 1 for white.
func (c Color) RelativeLuminance() float64 {
	return 0.2126*linearChannel(c.r) + 0.7152*linearChannel(c.g) + 0.0722*linearChannel(c.b)
}

func linearChannel(v uint8) float64 {
	x := float64(v) / 255.0
	if x <= 0.04045 {
		return x / 12.92
	}
	return math.Pow((x+0.055)/1.055, 2.4)
}

// MarshalYAML writes color in hex form.
func (c Color) MarshalYAML() (any, error) {
	return c.Hex(), nil
}

// UnmarshalYAML accepts anything Parse does.
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := Parse(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
