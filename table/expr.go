package table

import (
	"fmt"
	"math"
)

// Expr is a lazily evaluated numeric column expression. Result name is the
// name of the leftmost referenced column unless changed with Alias. Zero
// value is empty and fails evaluation with ErrEmptyExpr, start from Col or
// Lit.
type Expr struct {
	name  string
	alias string
	eval  func(*Table) (*Series, error)
}

// Col references column by name.
func Col(name string) Expr {
	return Expr{
		name: name,
		eval: func(t *Table) (*Series, error) { return t.Column(name) },
	}
}

// Lit is a constant expression.
func Lit(v float64) Expr {
	return Expr{
		name: "literal",
		eval: func(t *Table) (*Series, error) {
			values := make([]float64, t.Height())
			for i := range values {
				values[i] = v
			}
			return Floats("literal", values...), nil
		},
	}
}

func (e Expr) evaluate(t *Table) (*Series, error) {
	if e.eval == nil {
		return nil, ErrEmptyExpr
	}
	return e.eval(t)
}

// Name returns name of the resulting series.
func (e Expr) Name() string {
	if e.alias != "" {
		return e.alias
	}
	return e.name
}

// Alias renames expression result.
func (e Expr) Alias(name string) Expr {
	e.alias = name
	return e
}

func (e Expr) unary(fn func(float64) float64) Expr {
	src := e
	e.eval = func(t *Table) (*Series, error) {
		s, err := src.evaluate(t)
		if err != nil {
			return nil, err
		}
		return s.Map(fn), nil
	}
	return e
}

func (e Expr) binary(other Expr, op string, fn func(a, b float64) float64) Expr {
	left, right := e, other
	e.eval = func(t *Table) (*Series, error) {
		l, err := left.evaluate(t)
		if err != nil {
			return nil, err
		}
		r, err := right.evaluate(t)
		if err != nil {
			return nil, err
		}
		if l.Len() != r.Len() {
			return nil, fmt.Errorf("%w: %s operands have %d and %d rows", ErrShape, op, l.Len(), r.Len())
		}
		lf, rf := l.Cast(), r.Cast()
		out := &Series{name: l.name, kind: KindFloat, valid: make([]bool, l.Len()), floats: make([]float64, l.Len())}
		for i := range out.valid {
			if lf.valid[i] && rf.valid[i] {
				out.floats[i], out.valid[i] = fn(lf.floats[i], rf.floats[i]), true
			}
		}
		return out, nil
	}
	return e
}

// Add adds other expression element-wise.
func (e Expr) Add(other Expr) Expr {
	return e.binary(other, "add", func(a, b float64) float64 { return a + b })
}

// Sub subtracts other expression element-wise.
func (e Expr) Sub(other Expr) Expr {
	return e.binary(other, "sub", func(a, b float64) float64 { return a - b })
}

// Mul multiplies by other expression element-wise.
func (e Expr) Mul(other Expr) Expr {
	return e.binary(other, "mul", func(a, b float64) float64 { return a * b })
}

// Div divides by other expression element-wise.
func (e Expr) Div(other Expr) Expr {
	return e.binary(other, "div", func(a, b float64) float64 { return a / b })
}

// Log takes logarithm with given base.
func (e Expr) Log(base float64) Expr {
	lb := math.Log(base)
	return e.unary(func(v float64) float64 { return math.Log(v) / lb })
}

// Abs takes absolute value.
func (e Expr) Abs() Expr {
	return e.unary(math.Abs)
}

// Sqrt takes square root.
func (e Expr) Sqrt() Expr {
	return e.unary(math.Sqrt)
}

// Neg negates values.
func (e Expr) Neg() Expr {
	return e.unary(func(v float64) float64 { return -v })
}
