// Package common holds enumerations shared by configuration and command
// line processing.
package common

//go:generate go tool go-enum --marshal --names --output-suffix=_text -f enums.go

// Specification of requested output document.
// ENUM(fragment, page)
type OutputFmt int

// Kind of recognized input source.
// ENUM(unknown, csv, sqlite, zip)
type SourceFmt int

// Column expression operation.
// ENUM(add, sub, mul, div, log, abs, sqrt, neg)
type ExprOp int

// Binary reports whether operation takes second operand.
func (o ExprOp) Binary() bool {
	switch o {
	case ExprOpAdd, ExprOpSub, ExprOpMul, ExprOpDiv:
		return true
	}
	return false
}
