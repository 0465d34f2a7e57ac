package convert

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"zombiezen.com/go/sqlite"

	"tabstyle/common"
)

func TestIsDelimitedText(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"comma header", []byte("a,b\n1,2\n"), true},
		{"semicolon header", []byte("a;b\r\n"), true},
		{"tab header", []byte("a\tb"), true},
		{"no separator", []byte("hello world\n"), false},
		{"binary", []byte("a,b\x00\x01"), false},
		{"empty", nil, false},
		{"cp1251 header", []byte("\xcd\xe0\xe7\xe2\xe0\xed\xe8\xe5,\xd6\xe5\xed\xe0\n"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDelimitedText(tt.data); got != tt.want {
				t.Errorf("isDelimitedText() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectSource(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		t.Helper()
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	dbPath := filepath.Join(dir, "shop.db")
	conn, err := sqlite.OpenConn(dbPath, sqlite.OpenReadWrite, sqlite.OpenCreate)
	if err != nil {
		t.Fatalf("OpenConn() error = %v", err)
	}
	stmt, _, err := conn.PrepareTransient("CREATE TABLE t (x INTEGER)")
	if err != nil {
		t.Fatalf("PrepareTransient() error = %v", err)
	}
	if _, err := stmt.Step(); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	stmt.Finalize()
	conn.Close()

	zipPath := filepath.Join(dir, "tables.zip")
	zf, err := os.Create(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(zf)
	w, _ := zw.Create("t.csv")
	w.Write([]byte(strings.Repeat("a,b\n", 100)))
	zw.Close()
	zf.Close()

	tests := []struct {
		name string
		path string
		want common.SourceFmt
	}{
		{"csv", write("prices.csv", "a,b\n1,2\n"), common.SourceFmtCsv},
		{"tsv", write("prices.TSV", "a\tb\n1\t2\n"), common.SourceFmtCsv},
		{"text with other extension", write("prices.dat", "a,b\n1,2\n"), common.SourceFmtUnknown},
		{"not delimited", write("notes.txt", "just a note\n"), common.SourceFmtUnknown},
		{"sqlite regardless of extension", dbPath, common.SourceFmtSqlite},
		{"zip", zipPath, common.SourceFmtZip},
		{"empty", write("empty.csv", ""), common.SourceFmtUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := detectSource(tt.path)
			if err != nil {
				t.Fatalf("detectSource() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("detectSource() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := detectSource(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("detectSource() expected error for missing file")
	}
}
