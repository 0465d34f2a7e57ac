package table

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// OpenSQLite opens database file read only.
func OpenSQLite(path string) (*sqlite.Conn, error) {
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadOnly)
	if err != nil {
		return nil, fmt.Errorf("unable to open database '%s': %w", path, err)
	}
	return conn, nil
}

// SQLiteTables lists user tables of the database in name order.
func SQLiteTables(conn *sqlite.Conn) ([]string, error) {
	var names []string
	err := sqlitex.Execute(conn,
		`SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			names = append(names, stmt.ColumnText(0))
			return nil
		}})
	if err != nil {
		return nil, fmt.Errorf("unable to list tables: %w", err)
	}
	return names, nil
}

// SelectAll returns query selecting every row of the named table.
func SelectAll(table string) string {
	return `SELECT * FROM "` + strings.ReplaceAll(table, `"`, `""`) + `"`
}

// ReadSQLite runs query and loads its result set. Column kinds follow
// storage classes of returned values, integer columns with real values
// become float, anything mixed with text becomes text. Blobs are loaded as
// text.
func ReadSQLite(conn *sqlite.Conn, query string, log *zap.Logger) (*Table, error) {
	if log == nil {
		log = zap.NewNop()
	}

	stmt, _, err := conn.PrepareTransient(query)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare query: %w", err)
	}
	defer stmt.Finalize() //nolint:errcheck

	n := stmt.ColumnCount()
	if n == 0 {
		return nil, fmt.Errorf("%w: query returns no columns", ErrEmptyInput)
	}
	names := make([]string, n)
	for i := range names {
		names[i] = stmt.ColumnName(i)
	}
	values := make([][]any, n)

	rows := 0
	for {
		hasRow, err := stmt.Step()
		if err != nil {
			return nil, fmt.Errorf("unable to step query: %w", err)
		}
		if !hasRow {
			break
		}
		rows++
		for i := range n {
			var v any
			switch stmt.ColumnType(i) {
			case sqlite.TypeInteger:
				v = stmt.ColumnInt64(i)
			case sqlite.TypeFloat:
				v = stmt.ColumnFloat(i)
			case sqlite.TypeText, sqlite.TypeBlob:
				v = stmt.ColumnText(i)
			}
			values[i] = append(values[i], v)
		}
	}
	log.Debug("Query loaded", zap.Int("columns", n), zap.Int("rows", rows))

	series := make([]*Series, n)
	for i, name := range names {
		col := values[i]
		if col == nil {
			col = []any{}
		}
		if series[i], err = FromValues(name, col); err != nil {
			return nil, err
		}
	}
	return New(series...)
}
