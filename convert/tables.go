package convert

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"tabstyle/archive"
	"tabstyle/common"
	"tabstyle/state"
	"tabstyle/table"
)

// Tables lists tables available in the source: user tables of SQLite
// database or CSV files of zip archive.
func Tables(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("tables")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}

	names, err := listTables(src)
	if err != nil {
		return err
	}
	log.Debug("Tables found", zap.String("source", src), zap.Int("count", len(names)))

	out := io.Writer(os.Stdout)
	if w := cmd.Root().Writer; w != nil {
		out = w
	}
	for _, n := range names {
		if _, err := fmt.Fprintln(out, n); err != nil {
			return err
		}
	}
	return nil
}

func listTables(src string) ([]string, error) {
	kind, err := detectSource(src)
	if err != nil {
		return nil, fmt.Errorf("unable to check file type: %w", err)
	}

	var names []string
	switch kind {
	case common.SourceFmtSqlite:
		conn, err := table.OpenSQLite(src)
		if err != nil {
			return nil, fmt.Errorf("unable to open database (%s): %w", src, err)
		}
		defer conn.Close()
		if names, err = table.SQLiteTables(conn); err != nil {
			return nil, fmt.Errorf("unable to list tables (%s): %w", src, err)
		}
	case common.SourceFmtZip:
		err = archive.Walk(src, archive.WithExt(".csv", ".tsv", ".txt"), func(_ string, f *zip.File) error {
			names = append(names, strings.TrimSuffix(f.Name, path.Ext(f.Name)))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("unable to read archive (%s): %w", src, err)
		}
	case common.SourceFmtCsv:
		names = []string{strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))}
	default:
		return nil, fmt.Errorf("input was not recognized as CSV, SQLite database or zip archive (%s)", src)
	}
	sort.Sort(natural.StringSlice(names))
	return names, nil
}
