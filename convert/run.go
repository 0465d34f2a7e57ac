package convert

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"tabstyle/archive"
	"tabstyle/common"
	"tabstyle/config"
	"tabstyle/page"
	"tabstyle/state"
	"tabstyle/styler"
	"tabstyle/table"
)

// namedTable is a single table of a source. Name is empty for single table
// sources (CSV files).
type namedTable struct {
	Name string
	Tbl  *table.Table
}

// source is a set of tables loaded from one input. Name is base file name
// without extension, RelDir is directory relative to processed root.
type source struct {
	Name   string
	RelDir string
	Tables []namedTable
}

// runner carries state of a single render invocation.
type runner struct {
	env    *state.LocalEnv
	log    *zap.Logger
	dst    string
	format common.OutputFmt

	rendered int
	failed   int
}

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.Format = env.Cfg.Output.Format
	if f := cmd.String("format"); len(f) > 0 {
		if env.Format, err = common.ParseOutputFmt(f); err != nil {
			log.Warn("Unknown output format requested, using configured one", zap.Error(err), zap.Stringer("format", env.Cfg.Output.Format))
			env.Format = env.Cfg.Output.Format
		}
	}
	env.Overwrite = cmd.Bool("overwrite")
	env.Query = cmd.String("query")
	env.Tables = cmd.StringSlice("table")

	if err := setCodePage(env, cmd.String("encoding"), log); err != nil {
		return err
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", env.Format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	r := &runner{env: env, log: log, dst: dst, format: env.Format}
	return r.process(ctx, src)
}

// setCodePage resolves CSV encoding forced either on command line or in
// configuration.
func setCodePage(env *state.LocalEnv, cp string, log *zap.Logger) (err error) {
	if len(cp) == 0 {
		cp = env.Cfg.Input.Encoding
	}
	if len(cp) == 0 {
		return nil
	}
	if env.CodePage, err = ianaindex.IANA.Encoding(cp); err != nil {
		return fmt.Errorf("unknown character set specification %q: %w", cp, err)
	}
	if env.CodePage == nil {
		return fmt.Errorf("character set %q is not supported", cp)
	}
	n, _ := ianaindex.IANA.Name(env.CodePage)
	log.Debug("Forcing input encoding", zap.String("charset", n))
	return nil
}

// process determines input type (directory, archive, database or CSV file) and
// processes it accordingly.
func (r *runner) process(ctx context.Context, src string) error {
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("input source was not found: %w", err)
	}

	switch {
	case fi.IsDir():
		if err := r.processDir(ctx, src); err != nil {
			return fmt.Errorf("unable to process directory: %w", err)
		}
	case fi.Mode().IsRegular():
		kind, err := detectSource(src)
		if err != nil {
			return fmt.Errorf("unable to check file type: %w", err)
		}
		if kind == common.SourceFmtUnknown {
			return fmt.Errorf("input was not recognized as CSV, SQLite database or zip archive (%s)", src)
		}
		if err := r.processFile(ctx, src, "", kind); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unexpected path mode for (%s)", src)
	}

	if r.failed > 0 {
		return fmt.Errorf("%d of %d tables failed", r.failed, r.failed+r.rendered)
	}
	if r.rendered == 0 {
		r.log.Warn("Nothing to render")
	}
	return nil
}

// processDir walks directory tree finding supported files and processes them.
func (r *runner) processDir(ctx context.Context, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			r.log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		kind, err := detectSource(path)
		if err != nil {
			r.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if kind == common.SourceFmtUnknown {
			r.log.Debug("Skipping file, not recognized as table source", zap.String("file", path))
			return nil
		}

		rel, err := filepath.Rel(dir, filepath.Dir(path))
		if err != nil {
			return err
		}
		if err := r.processFile(ctx, path, rel, kind); err != nil {
			r.log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
			r.failed++
		}
		return nil
	})
}

func (r *runner) processFile(ctx context.Context, path, relDir string, kind common.SourceFmt) error {
	if err := r.env.Rpt.StoreCopy("source/"+filepath.ToSlash(filepath.Join(relDir, filepath.Base(path))), path); err != nil {
		r.log.Debug("Unable to store source copy in report", zap.Error(err))
	}

	src := source{
		Name:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		RelDir: relDir,
	}

	var err error
	switch kind {
	case common.SourceFmtCsv:
		err = r.loadCSVFile(path, &src)
	case common.SourceFmtSqlite:
		err = r.loadSQLite(ctx, path, &src)
	case common.SourceFmtZip:
		err = r.loadArchive(ctx, path, &src)
	default:
		err = fmt.Errorf("unsupported source %s", kind)
	}
	if err != nil {
		return err
	}
	return r.emit(ctx, src)
}

func (r *runner) csvOptions(name string) table.CSVOptions {
	opts := table.CSVOptions{
		Encoding: r.env.CodePage,
		Nulls:    r.env.Cfg.Input.Nulls,
	}
	if d := r.env.Cfg.Input.Delimiter; len(d) > 0 {
		opts.Comma = []rune(d)[0]
	}
	if strings.EqualFold(path.Ext(name), ".tsv") {
		opts.Comma = '\t'
	}
	return opts
}

func (r *runner) loadCSVFile(path string, src *source) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	t, err := table.ReadCSV(f, r.csvOptions(path), r.log)
	if err != nil {
		return fmt.Errorf("unable to read CSV (%s): %w", path, err)
	}
	src.Tables = append(src.Tables, namedTable{Tbl: t})
	return nil
}

// loadSQLite reads either every selected user table or result of the query.
// Tables which cannot be read are reported and skipped.
func (r *runner) loadSQLite(ctx context.Context, path string, src *source) error {
	conn, err := table.OpenSQLite(path)
	if err != nil {
		return fmt.Errorf("unable to open database (%s): %w", path, err)
	}
	defer conn.Close()

	if len(r.env.Query) > 0 {
		t, err := table.ReadSQLite(conn, r.env.Query, r.log)
		if err != nil {
			return fmt.Errorf("unable to execute query: %w", err)
		}
		src.Tables = append(src.Tables, namedTable{Name: "query", Tbl: t})
		return nil
	}

	names, err := table.SQLiteTables(conn)
	if err != nil {
		return fmt.Errorf("unable to list tables (%s): %w", path, err)
	}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !r.env.WantTable(name) {
			continue
		}
		t, err := table.ReadSQLite(conn, table.SelectAll(name), r.log)
		if err != nil {
			r.log.Error("Unable to read table", zap.String("database", path), zap.String("table", name), zap.Error(err))
			r.failed++
			continue
		}
		src.Tables = append(src.Tables, namedTable{Name: name, Tbl: t})
	}
	return nil
}

// loadArchive reads every CSV file in zip archive as a table named after its
// path inside archive.
func (r *runner) loadArchive(ctx context.Context, arcPath string, src *source) error {
	return archive.Walk(arcPath, archive.WithExt(".csv", ".tsv", ".txt"), func(arc string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := f.Name
		if cp := r.env.CodePage; cp != nil && f.NonUTF8 {
			if n, err := cp.NewDecoder().String(name); err == nil {
				name = n
			} else {
				r.log.Warn("Unable to convert archive name from specified encoding", zap.String("path", name), zap.Error(err))
			}
		}
		name = strings.TrimSuffix(name, path.Ext(name))
		if !r.env.WantTable(name) {
			return nil
		}

		rc, err := f.Open()
		if err != nil {
			r.log.Error("Unable to open file in archive", zap.String("archive", arc), zap.String("file", f.Name), zap.Error(err))
			r.failed++
			return nil
		}
		defer rc.Close()

		t, err := table.ReadCSV(rc, r.csvOptions(f.Name), r.log)
		if err != nil {
			r.log.Error("Unable to read CSV in archive", zap.String("archive", arc), zap.String("file", f.Name), zap.Error(err))
			r.failed++
			return nil
		}
		src.Tables = append(src.Tables, namedTable{Name: name, Tbl: t})
		return nil
	})
}

// style applies configured rules to the table and renders it.
func (r *runner) style(src source, nt namedTable) (out string, rerr error) {
	log := r.log.With(zap.String("source", src.Name), zap.String("table", nt.Name))
	defer func() {
		if p := recover(); p != nil {
			log.Error("Styling ended with panic", zap.Any("panic", p), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("styling panic: %v", p)
		}
	}()

	s := styler.New(nt.Tbl, styler.WithIDGenerator(r.env.IDs), styler.WithLogger(log))
	s, err := applyStyling(s, &r.env.Cfg.Styling, log)

	if r.env.Rpt != nil {
		r.env.Rpt.StoreData(debugName(src, nt), []byte(s.Debug()))
	}

	out, rerr = s.Render()
	return out, multierr.Append(err, rerr)
}

func debugName(src source, nt namedTable) string {
	name := filepath.ToSlash(filepath.Join("styler", src.RelDir, src.Name))
	if nt.Name != "" {
		name += "-" + nt.Name
	}
	return name + ".txt"
}

// emit renders tables of the source: each into its own file for fragments
// or all of them into a single document for pages. Failed tables are
// reported and skipped.
func (r *runner) emit(ctx context.Context, src source) error {
	var sections []page.Section
	for i, nt := range src.Tables {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		html, err := r.style(src, nt)
		if err != nil {
			r.log.Error("Unable to render table", zap.String("source", src.Name), zap.String("table", nt.Name), zap.Error(err))
			r.failed++
			continue
		}
		r.rendered++

		if r.format == common.OutputFmtPage {
			title := nt.Name
			if title == "" {
				title = src.Name
			}
			sections = append(sections, page.Section{Title: title, Body: html})
			continue
		}

		v := Values{Source: src.Name, Table: nt.Name, Index: i, Format: r.format.String()}
		outputName := buildOutputPath(r.dst, src.RelDir, v, r.env, r.log)
		if err := r.write(outputName, []byte(html)); err != nil {
			r.log.Error("Unable to write table", zap.String("file", outputName), zap.Error(err))
			r.failed++
			continue
		}
		r.log.Info("Table rendered", zap.String("table", nt.Name), zap.String("to", outputName), zap.Duration("elapsed", time.Since(start)))
	}

	if r.format != common.OutputFmtPage || len(sections) == 0 {
		return nil
	}

	v := Values{Source: src.Name, Format: r.format.String()}
	title, err := expandTemplate(config.PageTitleFieldName, r.env.Cfg.Output.PageTitle, v)
	if err != nil || strings.TrimSpace(title) == "" {
		r.log.Warn("Unable to prepare page title", zap.Error(err))
		title = src.Name
	}
	doc, err := page.Compose(title, sections)
	if err != nil {
		return err
	}
	outputName := buildOutputPath(r.dst, src.RelDir, v, r.env, r.log)
	if err := r.write(outputName, doc); err != nil {
		return err
	}
	r.log.Info("Page rendered", zap.Int("tables", len(sections)), zap.String("to", outputName))
	return nil
}

func (r *runner) write(outputName string, data []byte) error {
	if _, err := os.Stat(outputName); err == nil {
		if !r.env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		r.log.Warn("Overwriting existing file", zap.String("file", outputName))
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	if err := os.WriteFile(outputName, data, 0644); err != nil {
		return err
	}
	if r.env.Rpt != nil {
		r.env.Rpt.Store(fmt.Sprintf("result-%d%s", r.rendered, filepath.Ext(outputName)), outputName)
	}
	return nil
}
