package table

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// ErrEmptyInput is returned when source has no header row.
var ErrEmptyInput = errors.New("no header row in input")

// CSVOptions control CSV loading.
type CSVOptions struct {
	// Encoding forces input code page. When nil encoding is detected from
	// BOM and content, falling back to UTF-8.
	Encoding encoding.Encoding
	// Comma is field delimiter, ',' when zero.
	Comma rune
	// Nulls lists cell texts treated as missing values in addition to
	// empty cells.
	Nulls []string
}

// ReadCSV loads table from CSV stream. The first record is a header, column
// kinds are inferred from content: a column where every present value parses
// as integer is int, as number is float, as boolean is bool, otherwise text.
func ReadCSV(r io.Reader, opts CSVOptions, log *zap.Logger) (*Table, error) {
	if log == nil {
		log = zap.NewNop()
	}

	br := bufio.NewReaderSize(r, 4096)
	enc := opts.Encoding
	if enc == nil {
		head, err := br.Peek(1024)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
			return nil, fmt.Errorf("unable to read csv: %w", err)
		}
		var name string
		var certain bool
		enc, name, certain = charset.DetermineEncoding(head, "text/csv")
		log.Debug("Detected input encoding", zap.String("encoding", name), zap.Bool("certain", certain))
	} else if name, err := ianaindex.IANA.Name(enc); err == nil {
		log.Debug("Using input encoding", zap.String("encoding", name))
	}

	cr := csv.NewReader(transform.NewReader(br, enc.NewDecoder()))
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read csv header: %w", err)
	}
	// drop BOM which survives decoding as U+FEFF
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	cells := make([][]string, len(header))
	valid := make([][]bool, len(header))
	nulls := make(map[string]struct{}, len(opts.Nulls))
	for _, n := range opts.Nulls {
		nulls[n] = struct{}{}
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read csv record: %w", err)
		}
		for i, v := range rec {
			_, isNull := nulls[v]
			cells[i] = append(cells[i], v)
			valid[i] = append(valid[i], v != "" && !isNull)
		}
	}

	series := make([]*Series, len(header))
	for i, name := range header {
		series[i] = inferSeries(name, cells[i], valid[i])
		log.Debug("Loaded column", zap.String("column", name), zap.Stringer("kind", series[i].Kind()), zap.Int("rows", series[i].Len()))
	}
	return New(series...)
}

func inferSeries(name string, cells []string, valid []bool) *Series {
	kind := KindNull
	for _, candidate := range []Kind{KindInt, KindFloat, KindBool} {
		fits, seen := true, false
		for i, v := range cells {
			if !valid[i] {
				continue
			}
			seen = true
			if !parsesAs(candidate, v) {
				fits = false
				break
			}
		}
		if !seen {
			break
		}
		if fits {
			kind = candidate
			break
		}
	}
	if kind == KindNull {
		for _, ok := range valid {
			if ok {
				kind = KindString
				break
			}
		}
	}

	s := &Series{name: name, kind: kind, valid: append([]bool(nil), valid...)}
	switch kind {
	case KindInt:
		s.ints = make([]int64, len(cells))
	case KindFloat:
		s.floats = make([]float64, len(cells))
	case KindBool:
		s.bools = make([]bool, len(cells))
	case KindString:
		s.strs = make([]string, len(cells))
	}
	for i, v := range cells {
		if !valid[i] {
			continue
		}
		switch kind {
		case KindInt:
			s.ints[i], _ = strconv.ParseInt(v, 10, 64)
		case KindFloat:
			s.floats[i], _ = strconv.ParseFloat(v, 64)
		case KindBool:
			s.bools[i] = strings.EqualFold(v, "true")
		case KindString:
			s.strs[i] = v
		}
	}
	return s
}

func parsesAs(k Kind, v string) bool {
	var err error
	switch k {
	case KindInt:
		_, err = strconv.ParseInt(v, 10, 64)
	case KindFloat:
		_, err = strconv.ParseFloat(v, 64)
	case KindBool:
		switch strings.ToLower(v) {
		case "true", "false":
		default:
			err = strconv.ErrSyntax
		}
	}
	return err == nil
}
