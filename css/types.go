// Package css holds minimal CSS model used for cell styling: ordered
// declaration blocks, rules addressed by id selectors and stylesheet writer.
package css

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/elliotchance/orderedmap/v3"
)

// Declarations is an ordered set of property declarations. Setting existing
// property replaces its value but keeps original position. Zero value is not
// usable, use NewDeclarations.
type Declarations struct {
	m *orderedmap.OrderedMap[string, string]
}

// NewDeclarations creates declaration block from property/value pairs.
func NewDeclarations(pairs ...string) Declarations {
	d := Declarations{m: orderedmap.NewOrderedMap[string, string]()}
	for i := 0; i+1 < len(pairs); i += 2 {
		d.m.Set(pairs[i], pairs[i+1])
	}
	return d
}

// Set adds or replaces property value.
func (d Declarations) Set(property, value string) {
	d.m.Set(property, value)
}

// Get returns value of the property.
func (d Declarations) Get(property string) (string, bool) {
	if d.m == nil {
		return "", false
	}
	return d.m.Get(property)
}

// Len returns number of declared properties.
func (d Declarations) Len() int {
	if d.m == nil {
		return 0
	}
	return d.m.Len()
}

// All iterates over declarations in order.
func (d Declarations) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if d.m == nil {
			return
		}
		for k, v := range d.m.AllFromFront() {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Merge sets every declaration from other, in other's order.
func (d Declarations) Merge(other Declarations) {
	for k, v := range other.All() {
		d.m.Set(k, v)
	}
}

// Clone returns independent copy.
func (d Declarations) Clone() Declarations {
	c := NewDeclarations()
	c.Merge(d)
	return c
}

// String formats block body as "property: value; ...".
func (d Declarations) String() string {
	var sb strings.Builder
	for k, v := range d.All() {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(v)
		sb.WriteByte(';')
	}
	return sb.String()
}

// Rule represents a single CSS rule (selector + declarations).
type Rule struct {
	Selector     string
	Declarations Declarations
}

// IDSelector returns selector matching element by id.
func IDSelector(id string) string {
	return "#" + id
}

// Stylesheet is an ordered list of rules.
type Stylesheet struct {
	Rules []Rule
}

// Add appends rule to the stylesheet.
func (s *Stylesheet) Add(selector string, decls Declarations) {
	s.Rules = append(s.Rules, Rule{Selector: selector, Declarations: decls})
}

// WriteTo writes the stylesheet to w in source order, one rule per line,
// implementing io.WriterTo.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i, rule := range s.Rules {
		sep := "\n"
		if i == len(s.Rules)-1 {
			sep = ""
		}
		n, err := fmt.Fprintf(w, "  %s {%s}%s", rule.Selector, rule.Declarations, sep)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}
