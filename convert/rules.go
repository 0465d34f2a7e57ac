package convert

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"tabstyle/colors"
	"tabstyle/common"
	"tabstyle/config"
	"tabstyle/css"
	"tabstyle/styler"
	"tabstyle/table"
)

var errBadRule = errors.New("bad styling rule")

// buildExpr turns configured expression into column expression.
func buildExpr(ec *config.ExpressionConfig) (table.Expr, error) {
	e := table.Col(ec.Column)
	for i, op := range ec.Ops {
		var operand table.Expr
		if op.Op.Binary() {
			switch {
			case op.Column != "":
				operand = table.Col(op.Column)
			case op.Arg != nil:
				operand = table.Lit(*op.Arg)
			default:
				return table.Expr{}, fmt.Errorf("%w: operation %d (%s) needs column or arg", errBadRule, i, op.Op)
			}
		}
		switch op.Op {
		case common.ExprOpAdd:
			e = e.Add(operand)
		case common.ExprOpSub:
			e = e.Sub(operand)
		case common.ExprOpMul:
			e = e.Mul(operand)
		case common.ExprOpDiv:
			e = e.Div(operand)
		case common.ExprOpLog:
			base := 10.0
			if op.Arg != nil {
				base = *op.Arg
			}
			if base <= 0 || base == 1 {
				return table.Expr{}, fmt.Errorf("%w: operation %d has bad logarithm base %v", errBadRule, i, base)
			}
			e = e.Log(base)
		case common.ExprOpAbs:
			e = e.Abs()
		case common.ExprOpSqrt:
			e = e.Sqrt()
		case common.ExprOpNeg:
			e = e.Neg()
		default:
			return table.Expr{}, fmt.Errorf("%w: operation %d is unknown", errBadRule, i)
		}
	}
	if ec.Alias != "" {
		e = e.Alias(ec.Alias)
	}
	return e, nil
}

func gradientOptions(gc *config.GradientConfig) []styler.GradientOption {
	var opts []styler.GradientOption
	if gc.VMin != nil {
		opts = append(opts, styler.WithVMin(*gc.VMin))
	}
	if gc.VMax != nil {
		opts = append(opts, styler.WithVMax(*gc.VMax))
	}
	if gc.TextColorThreshold != nil {
		opts = append(opts, styler.WithTextColorThreshold(*gc.TextColorThreshold))
	}
	return opts
}

// colorMap returns color map when gradient is configured with palette or
// colors list, ok is false for single color gradients.
func colorMap(gc *config.GradientConfig) (cmap colors.ColorMap, ok bool, err error) {
	switch {
	case gc.Palette != "":
		cmap, err = colors.Palette(gc.Palette)
	case len(gc.Colors) > 0:
		cmap, err = colors.FromPalette(gc.Colors...)
	default:
		return colors.ColorMap{}, false, nil
	}
	return cmap, true, err
}

func applyGradient(s styler.Styler, i int, gc *config.GradientConfig, log *zap.Logger) (styler.Styler, error) {
	opts := gradientOptions(gc)

	cmap, isMap, err := colorMap(gc)
	if err != nil {
		return s, fmt.Errorf("gradient %d: %w", i, err)
	}
	if !isMap && gc.Color == nil {
		return s, fmt.Errorf("%w: gradient %d has neither color nor palette", errBadRule, i)
	}

	if gc.Expression != nil {
		if !hasColumn(s, gc.Expression.Column, log) {
			return s, nil
		}
		e, err := buildExpr(gc.Expression)
		if err != nil {
			return s, fmt.Errorf("gradient %d: %w", i, err)
		}
		if isMap {
			return s.BackgroundColorMapExpr(e, cmap, opts...), nil
		}
		return s.BackgroundGradientExpr(e, *gc.Color, opts...), nil
	}

	for _, column := range gc.Columns {
		if !hasColumn(s, column, log) {
			continue
		}
		if isMap {
			s = s.BackgroundColorMap(column, cmap, opts...)
		} else {
			s = s.BackgroundGradient(column, *gc.Color, opts...)
		}
	}
	return s, nil
}

// hasColumn checks whether rule target exists, rules for columns absent from
// the table are skipped.
func hasColumn(s styler.Styler, column string, log *zap.Logger) bool {
	if _, ok := s.Table().Index(column); ok {
		return true
	}
	log.Debug("Skipping rule, no such column", zap.String("column", column))
	return false
}

// constantStyle styles every cell of the column with the same declarations.
func constantStyle(decls css.Declarations) styler.CellStyler {
	return styler.CellStylerFunc(func(column *table.Series) ([]css.Declarations, error) {
		out := make([]css.Declarations, column.Len())
		for i := range out {
			out[i] = decls.Clone()
		}
		return out, nil
	})
}

// applyStyling configures styler according to styling rules. Rules which
// cannot be built are skipped and reported, problems found while styling are
// accumulated by the styler itself.
func applyStyling(s styler.Styler, sc *config.StylingConfig, log *zap.Logger) (styler.Styler, error) {
	if sc.Precision != nil {
		s = s.SetPrecision(*sc.Precision)
	}
	if len(sc.TableClasses) > 0 {
		s = s.SetTableClasses(sc.TableClasses...)
	}
	if len(sc.TheadClasses) > 0 {
		s = s.AddTheadClasses(sc.TheadClasses...)
	}
	if len(sc.Labels) > 0 {
		s = s.Relabel(sc.Labels)
	}

	var errs error
	for i := range sc.Gradients {
		var err error
		if s, err = applyGradient(s, i, &sc.Gradients[i], log); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	parser := css.NewParser(log)
	for i, cc := range sc.Cells {
		if !hasColumn(s, cc.Column, log) {
			continue
		}
		decls, err := parser.ParseDeclarations(cc.Style)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("cell style %d: %w", i, err))
			continue
		}
		s = s.Apply(cc.Column, constantStyle(decls))
	}
	return s, errs
}
