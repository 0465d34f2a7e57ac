package convert

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/h2non/filetype"

	"tabstyle/common"
)

// enough for filetype matchers and a CSV header line
const sniffLen = 8192

var csvType = filetype.NewType("csv", "text/csv")

func init() {
	filetype.AddMatcher(csvType, isDelimitedText)
}

// isDelimitedText accepts text without NUL bytes whose first line has a
// field separator. Only the first line is checked, so truncated multibyte
// sequences at the end of the buffer do not matter.
func isDelimitedText(buf []byte) bool {
	if len(buf) == 0 || bytes.IndexByte(buf, 0) >= 0 {
		return false
	}
	line, _, _ := bytes.Cut(buf, []byte{'\n'})
	if len(line) == len(buf) && len(buf) == sniffLen {
		// header longer than sniffed data
		return false
	}
	if !utf8.Valid(line) && !looksLikeSingleByteText(line) {
		return false
	}
	return bytes.ContainsAny(line, ",;\t|")
}

func looksLikeSingleByteText(line []byte) bool {
	for _, b := range line {
		if b < 0x20 && b != '\t' && b != '\r' {
			return false
		}
	}
	return true
}

func sniff(r io.Reader) ([]byte, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return head[:n], nil
}

func hasCSVExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".tsv", ".txt":
		return true
	}
	return false
}

// detectSource determines kind of the input file by content. Plain text is
// considered CSV only when file extension agrees.
func detectSource(path string) (common.SourceFmt, error) {
	f, err := os.Open(path)
	if err != nil {
		return common.SourceFmtUnknown, err
	}
	defer f.Close()

	head, err := sniff(f)
	if err != nil {
		return common.SourceFmtUnknown, err
	}
	return detectHead(head, path), nil
}

func detectHead(head []byte, name string) common.SourceFmt {
	switch {
	case filetype.Is(head, "sqlite"):
		return common.SourceFmtSqlite
	case filetype.Is(head, "zip"):
		return common.SourceFmtZip
	case filetype.Is(head, csvType.Extension) && hasCSVExt(name):
		return common.SourceFmtCsv
	}
	return common.SourceFmtUnknown
}
