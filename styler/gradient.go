package styler

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"tabstyle/colors"
	"tabstyle/css"
	"tabstyle/table"
)

const (
	propBackground = "background-color"
	propColor      = "color"
)

// DefaultTextColorThreshold is luminance below which text over colored
// background is switched to white.
const DefaultTextColorThreshold = 0.408

type gradientOptions struct {
	vmin, vmax    *float64
	textThreshold *float64
}

// GradientOption configures gradient styling.
type GradientOption func(*gradientOptions)

// WithVMin clips values below v before normalization.
func WithVMin(v float64) GradientOption {
	return func(o *gradientOptions) { o.vmin = &v }
}

// WithVMax clips values above v before normalization.
func WithVMax(v float64) GradientOption {
	return func(o *gradientOptions) { o.vmax = &v }
}

// WithTextColorThreshold makes color map styling also set text color: white
// when background luminance is below t, black otherwise.
func WithTextColorThreshold(t float64) GradientOption {
	return func(o *gradientOptions) { o.textThreshold = &t }
}

func collectOptions(opts []GradientOption) gradientOptions {
	var o gradientOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// normalize casts values to float, clips them to [vmin, vmax] when bounds are
// given and scales result to [0, 1] by subtracting minimum and dividing by
// the resulting maximum. Nulls stay nulls.
func normalize(s *table.Series, o gradientOptions) (*table.Series, error) {
	n := s.Cast()
	if o.vmin != nil {
		n = n.ClipMin(*o.vmin)
	}
	if o.vmax != nil {
		n = n.ClipMax(*o.vmax)
	}

	lo, ok := n.Min()
	if !ok {
		return nil, fmt.Errorf("%w: column %q has no numeric values", ErrDegenerateInput, s.Name())
	}
	n = n.SubScalar(lo)

	hi, _ := n.Max()
	if hi == 0 || math.IsInf(hi, 0) {
		return nil, fmt.Errorf("%w: column %q values range is %v", ErrDegenerateInput, s.Name(), hi)
	}
	return n.DivScalar(hi), nil
}

type cellFunc func(v float64) (css.Declarations, error)

// styleNormalized builds declarations for every row, leaving null rows
// unstyled.
func styleNormalized(s *table.Series, o gradientOptions, fn cellFunc) ([]css.Declarations, error) {
	n, err := normalize(s, o)
	if err != nil {
		return nil, err
	}
	decls := make([]css.Declarations, n.Len())
	for r := range decls {
		v, ok := n.Float(r)
		if !ok || math.IsNaN(v) {
			decls[r] = css.NewDeclarations()
			continue
		}
		if decls[r], err = fn(v); err != nil {
			return nil, fmt.Errorf("row %d: %w", r, err)
		}
	}
	return decls, nil
}

func gradientCell(color colors.Color) cellFunc {
	return func(v float64) (css.Declarations, error) {
		return css.NewDeclarations(propBackground, color.RGBA(v)), nil
	}
}

func colorMapCell(cmap colors.ColorMap, threshold *float64) cellFunc {
	return func(v float64) (css.Declarations, error) {
		bg, err := cmap.Get(v)
		if err != nil {
			return css.Declarations{}, err
		}
		d := css.NewDeclarations(propBackground, bg.RGB())
		if threshold != nil {
			text := "#000000"
			if bg.RelativeLuminance() < *threshold {
				text = "#ffffff"
			}
			d.Set(propColor, text)
		}
		return d, nil
	}
}

// BackgroundGradient sets background of column cells to color with opacity
// proportional to normalized cell value.
func (s Styler) BackgroundGradient(column string, color colors.Color, opts ...GradientOption) Styler {
	o := collectOptions(opts)
	s.log.Debug("Background gradient", zap.String("column", column), zap.Stringer("color", color))
	return s.Apply(column, CellStylerFunc(func(series *table.Series) ([]css.Declarations, error) {
		return styleNormalized(series, o, gradientCell(color))
	}))
}

// styleExpr evaluates expression against the table and styles the column
// expression is named after using normalized expression values.
func (s Styler) styleExpr(expr table.Expr, o gradientOptions, fn cellFunc) Styler {
	series, err := s.tbl.Select(expr)
	if err != nil {
		if errors.Is(err, table.ErrColumnNotFound) {
			return s.fail(fmt.Errorf("%w: %w", ErrNotFound, err))
		}
		return s.fail(fmt.Errorf("evaluating expression %q: %w", expr.Name(), err))
	}
	c, ok := s.tbl.Index(series.Name())
	if !ok {
		return s.notFound(series.Name())
	}

	decls, err := styleNormalized(series, o, fn)
	if err != nil {
		return s.fail(fmt.Errorf("styling column %q: %w", series.Name(), err))
	}
	return s.merge(c, decls)
}

// BackgroundGradientExpr evaluates expression against the table and applies
// background gradient of its values to the column expression is named after.
func (s Styler) BackgroundGradientExpr(expr table.Expr, color colors.Color, opts ...GradientOption) Styler {
	s.log.Debug("Background gradient expression", zap.String("column", expr.Name()), zap.Stringer("color", color))
	return s.styleExpr(expr, collectOptions(opts), gradientCell(color))
}

// BackgroundColorMapExpr is BackgroundColorMap over expression values.
func (s Styler) BackgroundColorMapExpr(expr table.Expr, cmap colors.ColorMap, opts ...GradientOption) Styler {
	o := collectOptions(opts)
	s.log.Debug("Background color map expression", zap.String("column", expr.Name()), zap.Int("stops", len(cmap.Points())))
	return s.styleExpr(expr, o, colorMapCell(cmap, o.textThreshold))
}

// BackgroundColorMap sets background of column cells to color map color at
// normalized cell value.
func (s Styler) BackgroundColorMap(column string, cmap colors.ColorMap, opts ...GradientOption) Styler {
	o := collectOptions(opts)
	s.log.Debug("Background color map", zap.String("column", column), zap.Int("stops", len(cmap.Points())))
	return s.Apply(column, CellStylerFunc(func(series *table.Series) ([]css.Declarations, error) {
		return styleNormalized(series, o, colorMapCell(cmap, o.textThreshold))
	}))
}
