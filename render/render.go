// Package render produces HTML markup for a styled table: a style block with
// one rule per styled cell followed by the table itself.
package render

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"tabstyle/css"
)

var (
	// ErrNoColumns is returned when there are no columns to drive body
	// generation.
	ErrNoColumns = errors.New("no data to render, there are no columns in the table")
	// ErrMalformedInput is returned when input parts do not agree on shape.
	ErrMalformedInput = errors.New("malformed render input")
)

// TableClass is always present on rendered table.
const TableClass = "dataframe"

// Cell addresses single table cell.
type Cell struct {
	Row, Col int
}

// Input is everything needed to render a table.
type Input struct {
	// Labels are column headers, one per column.
	Labels []string
	// Cells holds display strings column-major: Cells[col][row].
	Cells [][]string
	// Styles holds declarations of styled cells only.
	Styles map[Cell]css.Declarations
	// ID makes cell selectors unique across rendered tables.
	ID string
	// TableClasses are added to the table element after TableClass.
	TableClasses []string
	// TheadClasses are set on thead element when not empty.
	TheadClasses []string
}

// CellID returns id of the cell element and its style rule.
func CellID(id string, row, col int) string {
	return fmt.Sprintf("T_%s_row%d_col%d", id, row, col)
}

// Render builds "<style>...</style>\n<table>...</table>". Cell texts are
// written as is, labels are escaped.
func Render(in *Input) (string, error) {
	if len(in.Cells) == 0 {
		return "", ErrNoColumns
	}
	if err := in.validate(); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("<style>\n")
	sheet := in.stylesheet()
	if _, err := sheet.WriteTo(&sb); err != nil {
		return "", err
	}
	sb.WriteString("\n</style>\n")

	if err := html.Render(&sb, in.table()); err != nil {
		return "", fmt.Errorf("unable to render table: %w", err)
	}
	return sb.String(), nil
}

func (in *Input) validate() error {
	if len(in.Labels) != len(in.Cells) {
		return fmt.Errorf("%w: %d labels for %d columns", ErrMalformedInput, len(in.Labels), len(in.Cells))
	}
	rows := len(in.Cells[0])
	for i, col := range in.Cells {
		if len(col) != rows {
			return fmt.Errorf("%w: column %d has %d rows, expected %d", ErrMalformedInput, i, len(col), rows)
		}
	}
	for c := range in.Styles {
		if c.Row < 0 || c.Row >= rows || c.Col < 0 || c.Col >= len(in.Cells) {
			return fmt.Errorf("%w: style for cell (%d,%d) is out of range", ErrMalformedInput, c.Row, c.Col)
		}
	}
	return nil
}

func (in *Input) stylesheet() *css.Stylesheet {
	cells := make([]Cell, 0, len(in.Styles))
	for c, d := range in.Styles {
		if d.Len() > 0 {
			cells = append(cells, c)
		}
	}
	slices.SortFunc(cells, func(a, b Cell) int {
		return cmp.Or(cmp.Compare(a.Row, b.Row), cmp.Compare(a.Col, b.Col))
	})

	sheet := &css.Stylesheet{}
	for _, c := range cells {
		sheet.Add(css.IDSelector(CellID(in.ID, c.Row, c.Col)), in.Styles[c])
	}
	return sheet
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func (in *Input) table() *html.Node {
	tbl := element(atom.Table, html.Attribute{Key: "class", Val: strings.Join(append([]string{TableClass}, in.TableClasses...), " ")})

	thead := element(atom.Thead)
	if len(in.TheadClasses) > 0 {
		thead.Attr = append(thead.Attr, html.Attribute{Key: "class", Val: strings.Join(in.TheadClasses, " ")})
	}
	header := element(atom.Tr)
	for _, label := range in.Labels {
		th := element(atom.Th)
		th.AppendChild(&html.Node{Type: html.TextNode, Data: label})
		header.AppendChild(th)
	}
	thead.AppendChild(header)
	tbl.AppendChild(thead)

	tbody := element(atom.Tbody)
	for row := range len(in.Cells[0]) {
		tr := element(atom.Tr)
		for col := range in.Cells {
			td := element(atom.Td, html.Attribute{Key: "id", Val: CellID(in.ID, row, col)})
			td.AppendChild(&html.Node{Type: html.RawNode, Data: in.Cells[col][row]})
			tr.AppendChild(td)
		}
		tbody.AppendChild(tr)
	}
	tbl.AppendChild(tbody)
	return tbl
}
