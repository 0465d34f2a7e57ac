// Package styler keeps per cell styles of a table and renders them to HTML.
//
// Styler is a value: every operation returns updated copy and never touches
// the receiver, so handles can be branched and reassigned freely. Failed
// operations do not panic, they record error which is reported by Err and
// makes Render fail.
package styler

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strconv"

	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"tabstyle/css"
	"tabstyle/render"
	"tabstyle/table"
	"tabstyle/utils/debug"
)

var (
	// ErrNotFound is recorded when referenced column does not exist.
	ErrNotFound = errors.New("unknown column")
	// ErrMisconfigured is recorded when single use setting is set twice or
	// setting value is invalid.
	ErrMisconfigured = errors.New("misconfigured styler")
	// ErrDegenerateInput is recorded when column values can not be
	// normalized: no numeric values or all values are the same.
	ErrDegenerateInput = errors.New("degenerate input")
	// ErrStyleCount is recorded when cell styler returns number of styles
	// different from number of rows.
	ErrStyleCount = errors.New("style count does not match row count")
	// ErrNoColumns is returned by Render for table without columns.
	ErrNoColumns = render.ErrNoColumns
)

type params struct {
	precision    *int
	tableClasses []string // nil when never set
	theadClasses []string
}

// Styler holds table snapshot and styles applied to its cells.
type Styler struct {
	tbl    *table.Table
	params params
	// styles[col][row], columns are shared between copies and cloned
	// before modification
	styles [][]css.Declarations
	labels map[string]string
	ids    IDGenerator
	log    *zap.Logger
	err    error
}

// Option configures new Styler.
type Option func(*Styler)

// WithIDGenerator replaces random selector identifiers.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Styler) {
		if g != nil {
			s.ids = g
		}
	}
}

// WithLogger sets logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Styler) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates styler for a snapshot of the table with no styles applied.
func New(t *table.Table, opts ...Option) Styler {
	s := Styler{
		tbl:    t.Clone(),
		labels: map[string]string{},
		ids:    RandomIDs{},
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	s.log = s.log.Named("styler")

	s.styles = make([][]css.Declarations, t.Width())
	for c := range s.styles {
		s.styles[c] = make([]css.Declarations, t.Height())
		for r := range s.styles[c] {
			s.styles[c][r] = css.NewDeclarations()
		}
	}
	return s
}

// Err returns all errors recorded so far.
func (s Styler) Err() error {
	return s.err
}

// Table returns table being styled.
func (s Styler) Table() *table.Table {
	return s.tbl
}

// ColumnNames returns names of table columns in order.
func (s Styler) ColumnNames() []string {
	return s.tbl.ColumnNames()
}

// CellStyle returns declarations applied to the cell.
func (s Styler) CellStyle(column string, row int) (css.Declarations, bool) {
	c, ok := s.tbl.Index(column)
	if !ok || row < 0 || row >= s.tbl.Height() {
		return css.Declarations{}, false
	}
	return s.styles[c][row].Clone(), true
}

func (s Styler) fail(err error) Styler {
	s.log.Debug("Operation failed", zap.Error(err))
	s.err = multierr.Append(s.err, err)
	return s
}

func (s Styler) notFound(column string) Styler {
	return s.fail(fmt.Errorf("%w: %q", ErrNotFound, column))
}

// mutableColumn returns copy of s with private copy of column c styles.
func (s Styler) mutableColumn(c int) Styler {
	styles := slices.Clone(s.styles)
	col := make([]css.Declarations, len(styles[c]))
	for r, d := range styles[c] {
		col[r] = d.Clone()
	}
	styles[c] = col
	s.styles = styles
	return s
}

func (s Styler) merge(c int, decls []css.Declarations) Styler {
	if len(decls) != s.tbl.Height() {
		return s.fail(fmt.Errorf("%w: column %q got %d styles for %d rows", ErrStyleCount, s.tbl.ColumnAt(c).Name(), len(decls), s.tbl.Height()))
	}
	s = s.mutableColumn(c)
	for r, d := range decls {
		s.styles[c][r].Merge(d)
	}
	return s
}

// CellStyler computes styles for every row of a column.
type CellStyler interface {
	StyleColumn(column *table.Series) ([]css.Declarations, error)
}

// CellStylerFunc adapts a function to CellStyler.
type CellStylerFunc func(column *table.Series) ([]css.Declarations, error)

// StyleColumn implements CellStyler.
func (f CellStylerFunc) StyleColumn(column *table.Series) ([]css.Declarations, error) {
	return f(column)
}

// Apply merges styles produced by cs into the column cells, overwriting
// same named properties.
func (s Styler) Apply(column string, cs CellStyler) Styler {
	c, ok := s.tbl.Index(column)
	if !ok {
		return s.notFound(column)
	}
	decls, err := cs.StyleColumn(s.tbl.ColumnAt(c))
	if err != nil {
		return s.fail(fmt.Errorf("styling column %q: %w", column, err))
	}
	s.log.Debug("Applying styles", zap.String("column", column))
	return s.merge(c, decls)
}

// SetTableClasses sets extra table classes. It could be used only once.
func (s Styler) SetTableClasses(classes ...string) Styler {
	if s.params.tableClasses != nil {
		return s.fail(fmt.Errorf("%w: table classes can only be set once", ErrMisconfigured))
	}
	s.params.tableClasses = append([]string{}, classes...)
	return s
}

// AddTableClasses appends extra table classes.
func (s Styler) AddTableClasses(classes ...string) Styler {
	if s.params.tableClasses == nil {
		return s.SetTableClasses(classes...)
	}
	s.params.tableClasses = slices.Concat(s.params.tableClasses, classes)
	return s
}

// AddTheadClasses appends classes of table header.
func (s Styler) AddTheadClasses(classes ...string) Styler {
	s.params.theadClasses = slices.Concat(s.params.theadClasses, classes)
	return s
}

// SetLabels sets display labels of columns in order. Extra labels are
// ignored, columns without label keep their names.
func (s Styler) SetLabels(labels ...string) Styler {
	s.labels = maps.Clone(s.labels)
	for i, name := range s.tbl.ColumnNames() {
		if i >= len(labels) {
			break
		}
		s.labels[name] = labels[i]
	}
	return s
}

// RelabelColumn sets display label of a single column.
func (s Styler) RelabelColumn(column, label string) Styler {
	return s.Relabel(map[string]string{column: label})
}

// Relabel sets display labels from column name to label mapping.
func (s Styler) Relabel(mapping map[string]string) Styler {
	s.labels = maps.Clone(s.labels)
	maps.Copy(s.labels, mapping)
	return s
}

// SetPrecision sets number of decimal digits for floating point cells. It
// could be used only once.
func (s Styler) SetPrecision(precision int) Styler {
	if s.params.precision != nil {
		return s.fail(fmt.Errorf("%w: precision can only be set once", ErrMisconfigured))
	}
	if precision < 0 {
		return s.fail(fmt.Errorf("%w: negative precision %d", ErrMisconfigured, precision))
	}
	s.params.precision = &precision
	return s
}

// Labels returns display labels of columns in order.
func (s Styler) Labels() []string {
	names := s.tbl.ColumnNames()
	for i, name := range names {
		if label, ok := s.labels[name]; ok {
			names[i] = label
		}
	}
	return names
}

func formatValue(v table.Value, precision *int) string {
	if v.Valid && v.Kind == table.KindFloat && precision != nil {
		return strconv.FormatFloat(v.Float, 'f', *precision, 64)
	}
	return v.String()
}

// Render produces style block and table markup. It fails with all errors
// recorded by previous operations, if any.
func (s Styler) Render() (string, error) {
	if s.err != nil {
		return "", s.err
	}

	in := &render.Input{
		Labels:       s.Labels(),
		Cells:        make([][]string, s.tbl.Width()),
		Styles:       make(map[render.Cell]css.Declarations),
		ID:           s.ids.NewID(),
		TableClasses: s.params.tableClasses,
		TheadClasses: s.params.theadClasses,
	}
	for c, col := range s.tbl.Columns() {
		in.Cells[c] = make([]string, col.Len())
		for r := range col.Len() {
			in.Cells[c][r] = formatValue(col.Value(r), s.params.precision)
			if d := s.styles[c][r]; d.Len() > 0 {
				in.Styles[render.Cell{Row: r, Col: c}] = d
			}
		}
	}
	s.log.Debug("Rendering table",
		zap.String("id", in.ID),
		zap.Int("columns", s.tbl.Width()),
		zap.Int("rows", s.tbl.Height()),
		zap.Int("styled", len(in.Styles)))

	return render.Render(in)
}

// Debug returns readable dump of styler state.
func (s Styler) Debug() string {
	tw := debug.NewTreeWriter()

	tw.Line(0, "Styler: %d columns x %d rows", s.tbl.Width(), s.tbl.Height())
	if s.params.precision != nil {
		tw.Line(1, "Precision: %d", *s.params.precision)
	}
	if s.params.tableClasses != nil {
		tw.List(1, "Table classes", s.params.tableClasses)
	}
	if len(s.params.theadClasses) > 0 {
		tw.List(1, "Header classes", s.params.theadClasses)
	}
	if len(s.labels) > 0 {
		tw.Line(1, "Labels: %d", len(s.labels))
		keys := slices.Collect(maps.Keys(s.labels))
		sort.Sort(natural.StringSlice(keys))
		for _, k := range keys {
			tw.TextBlock(2, k, s.labels[k])
		}
	}
	for c, col := range s.tbl.Columns() {
		styled := 0
		for _, d := range s.styles[c] {
			if d.Len() > 0 {
				styled++
			}
		}
		if styled == 0 {
			continue
		}
		tw.Line(1, "Column[%q] kind=%s styled=%d", col.Name(), col.Kind(), styled)
		for r, d := range s.styles[c] {
			if d.Len() > 0 {
				tw.Line(2, "Row[%d] value=%q {%s}", r, col.Value(r).String(), d.String())
			}
		}
	}
	if s.err != nil {
		for _, err := range multierr.Errors(s.err) {
			tw.TextBlock(1, "Error", err.Error())
		}
	}
	return tw.String()
}
