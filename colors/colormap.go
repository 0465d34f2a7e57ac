package colors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPalette is returned for palettes which cannot form a color map.
var ErrPalette = errors.New("bad palette")

// ColorBreakPoint anchors color at a value. Break points are ordered and
// compared by value only.
type ColorBreakPoint struct {
	Value float64
	Color Color
}

// ColorMap resolves arbitrary values to colors using piecewise linear
// gradients between sorted break points.
type ColorMap struct {
	points []ColorBreakPoint
}

// NewColorMap creates color map from break points. Points must be sorted by
// value in ascending order, this is not checked.
func NewColorMap(points ...ColorBreakPoint) ColorMap {
	return ColorMap{points: append([]ColorBreakPoint(nil), points...)}
}

// FromPalette distributes colors evenly over [0, 1].
func FromPalette(colors ...Color) (ColorMap, error) {
	n := len(colors)
	if n < 2 {
		return ColorMap{}, fmt.Errorf("%w: need at least 2 colors, got %d", ErrPalette, n)
	}
	points := make([]ColorBreakPoint, n)
	for i, c := range colors {
		points[i] = ColorBreakPoint{Value: float64(i) / float64(n-1), Color: c}
	}
	return ColorMap{points: points}, nil
}

// Points returns copy of map break points.
func (m ColorMap) Points() []ColorBreakPoint {
	return append([]ColorBreakPoint(nil), m.points...)
}

// Get returns color for value. Values below the first break point get the
// first color and values at or above the last one get the last color, there
// is no extrapolation.
func (m ColorMap) Get(value float64) (Color, error) {
	if len(m.points) == 0 {
		return Color{}, fmt.Errorf("%w: empty color map", ErrPalette)
	}
	if value < m.points[0].Value {
		return m.points[0].Color, nil
	}
	for i := 0; i+1 < len(m.points); i++ {
		left, right := m.points[i], m.points[i+1]
		if value == left.Value {
			return left.Color, nil
		}
		if value < right.Value {
			a := (value - left.Value) / (right.Value - left.Value)
			return NewGradient(left.Color, right.Color).Interpolate(a)
		}
	}
	return m.points[len(m.points)-1].Color, nil
}

var palettes = map[string][]Color{
	"reds":   {New(255, 255, 255), New(255, 0, 0)},
	"blues":  {New(247, 251, 255), New(107, 174, 214), New(8, 48, 107)},
	"greens": {New(247, 252, 245), New(116, 196, 118), New(0, 68, 27)},
	"viridis": {
		New(68, 1, 84), New(72, 35, 116), New(64, 67, 135), New(52, 94, 141),
		New(41, 120, 142), New(32, 144, 140), New(34, 167, 132), New(68, 190, 112),
		New(121, 209, 81), New(189, 222, 38), New(253, 231, 37),
	},
}

// RedScale maps [0, 1] from white to pure red.
func RedScale() ColorMap {
	m, _ := FromPalette(palettes["reds"]...)
	return m
}

// Palette returns built-in color map by (case insensitive) name.
func Palette(name string) (ColorMap, error) {
	colors, ok := palettes[strings.ToLower(name)]
	if !ok {
		return ColorMap{}, fmt.Errorf("%w: unknown palette %q", ErrPalette, name)
	}
	return FromPalette(colors...)
}
