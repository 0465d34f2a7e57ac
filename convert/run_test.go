package convert

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"go.uber.org/zap/zaptest"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"tabstyle/colors"
	"tabstyle/common"
	"tabstyle/config"
	"tabstyle/state"
	"tabstyle/styler"
)

func testEnv(t *testing.T) *state.LocalEnv {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	blue := colors.New(0, 0, 255)
	cfg.Styling.Gradients = []config.GradientConfig{{Columns: []string{"Price"}, Color: &blue}}
	return &state.LocalEnv{
		Cfg: cfg,
		Log: zaptest.NewLogger(t),
		IDs: styler.IDGeneratorFunc(func() string { return "abc123" }),
	}
}

func newRunner(env *state.LocalEnv, dst string) *runner {
	return &runner{env: env, log: env.Log, dst: dst, format: env.Cfg.Output.Format}
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected output %s: %v", path, err)
	}
	return string(data)
}

func makeShopDB(t *testing.T, path string) {
	t.Helper()
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate)
	if err != nil {
		t.Fatalf("OpenConn() error = %v", err)
	}
	defer conn.Close()
	err = sqlitex.ExecuteScript(conn, `
CREATE TABLE stock (Item TEXT, Qty INTEGER);
INSERT INTO stock VALUES ('bolt', 120), ('nut', 80);
CREATE TABLE sales (Region TEXT, Price REAL);
INSERT INTO sales VALUES ('north', 10.5), ('south', 2), ('east', NULL);
`, nil)
	if err != nil {
		t.Fatalf("ExecuteScript() error = %v", err)
	}
}

const pricesCSV = "Fruit,Price\nApple,1.5\nPear,3\nPlum,NA\n"

func TestRun_CSV(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "in", "Prices.csv"), pricesCSV)
	dst := filepath.Join(dir, "out")

	r := newRunner(testEnv(t), dst)
	if err := r.process(context.Background(), src); err != nil {
		t.Fatalf("process() error = %v", err)
	}

	out := readFile(t, filepath.Join(dst, "prices.html"))
	for _, want := range []string{
		"#T_abc123_row0_col1 {background-color: rgba(0, 0, 255, 0);}",
		"#T_abc123_row1_col1 {background-color: rgba(0, 0, 255, 1);}",
		`<td id="T_abc123_row2_col1">null</td>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "row2_col1 {") {
		t.Error("null cell should not be styled")
	}
	if r.rendered != 1 || r.failed != 0 {
		t.Errorf("rendered = %d, failed = %d", r.rendered, r.failed)
	}
}

func TestRun_ExistingOutput(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "prices.csv"), pricesCSV)
	dst := filepath.Join(dir, "out")
	env := testEnv(t)

	if err := newRunner(env, dst).process(context.Background(), src); err != nil {
		t.Fatalf("first process() error = %v", err)
	}
	if err := newRunner(env, dst).process(context.Background(), src); err == nil {
		t.Error("second process() should fail without overwrite")
	}
	env.Overwrite = true
	if err := newRunner(env, dst).process(context.Background(), src); err != nil {
		t.Errorf("process() with overwrite error = %v", err)
	}
}

func TestRun_SQLitePage(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "shop.db")
	makeShopDB(t, db)
	dst := filepath.Join(dir, "out")

	env := testEnv(t)
	env.Cfg.Output.Format = common.OutputFmtPage
	env.Cfg.Output.PageTitle = "Shop: {{ .Source }}"

	if err := newRunner(env, dst).process(context.Background(), db); err != nil {
		t.Fatalf("process() error = %v", err)
	}

	out := readFile(t, filepath.Join(dst, "shop.html"))
	if !strings.Contains(out, "<title>Shop: shop</title>") {
		t.Errorf("page title missing:\n%s", out)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(strings.TrimPrefix(out, "<!DOCTYPE html>\n")); err != nil {
		t.Fatalf("cannot parse page: %v", err)
	}
	sections := doc.FindElements("//section")
	if len(sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(sections))
	}
	// tables come in name order
	if id := sections[0].SelectAttrValue("id", ""); id != "sales" {
		t.Errorf("first section = %q, want sales", id)
	}
	if !strings.Contains(out, "#T_abc123_row0_col1 {background-color: rgba(0, 0, 255, 1);}") {
		t.Errorf("sales gradient missing:\n%s", out)
	}
}

func TestRun_SQLiteSelection(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "shop.db")
	makeShopDB(t, db)

	t.Run("tables", func(t *testing.T) {
		dst := filepath.Join(dir, "tables")
		env := testEnv(t)
		env.Tables = []string{"stock"}
		if err := newRunner(env, dst).process(context.Background(), db); err != nil {
			t.Fatalf("process() error = %v", err)
		}
		readFile(t, filepath.Join(dst, "shop-stock.html"))
		if _, err := os.Stat(filepath.Join(dst, "shop-sales.html")); err == nil {
			t.Error("unselected table was rendered")
		}
	})

	t.Run("query", func(t *testing.T) {
		dst := filepath.Join(dir, "query")
		env := testEnv(t)
		env.Query = "SELECT Price FROM sales WHERE Price IS NOT NULL"
		if err := newRunner(env, dst).process(context.Background(), db); err != nil {
			t.Fatalf("process() error = %v", err)
		}
		out := readFile(t, filepath.Join(dst, "shop-query.html"))
		if !strings.Contains(out, "#T_abc123_row1_col0 {background-color: rgba(0, 0, 255, 0);}") {
			t.Errorf("query output:\n%s", out)
		}
	})

	t.Run("bad query", func(t *testing.T) {
		env := testEnv(t)
		env.Query = "SELECT nope FROM nowhere"
		if err := newRunner(env, filepath.Join(dir, "bad")).process(context.Background(), db); err == nil {
			t.Error("process() expected error for bad query")
		}
	})
}

func TestRun_Archive(t *testing.T) {
	dir := t.TempDir()
	arc := filepath.Join(dir, "Data.zip")
	f, err := os.Create(arc)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for name, content := range map[string]string{
		"q/t1.csv":  pricesCSV,
		"t2.tsv":    "Fruit\tPrice\nKiwi\t1\nLime\t2\n",
		"README.md": "not a table",
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	dst := filepath.Join(dir, "out")
	r := newRunner(testEnv(t), dst)
	if err := r.process(context.Background(), arc); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	readFile(t, filepath.Join(dst, "data-q-t1.html"))
	out := readFile(t, filepath.Join(dst, "data-t2.html"))
	if !strings.Contains(out, "<th>Price</th>") || !strings.Contains(out, ">Lime</td>") {
		t.Errorf("tsv was not split on tabs:\n%s", out)
	}
	if r.rendered != 2 {
		t.Errorf("rendered = %d, want 2", r.rendered)
	}
}

func TestRun_Directory(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in")
	writeFile(t, filepath.Join(in, "a.csv"), pricesCSV)
	writeFile(t, filepath.Join(in, "sub", "b.csv"), pricesCSV)
	writeFile(t, filepath.Join(in, "constant.csv"), "Fruit,Price\nApple,1\nPear,1\n")
	writeFile(t, filepath.Join(in, "notes.bin"), "\x00\x01\x02")
	dst := filepath.Join(dir, "out")

	r := newRunner(testEnv(t), dst)
	err := r.process(context.Background(), in)
	if err == nil || !strings.Contains(err.Error(), "1 of 3 tables failed") {
		t.Fatalf("process() error = %v, want one failed table", err)
	}
	readFile(t, filepath.Join(dst, "a.html"))
	readFile(t, filepath.Join(dst, "sub", "b.html"))
	if _, err := os.Stat(filepath.Join(dst, "constant.html")); err == nil {
		t.Error("failed table must not produce output")
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	env := testEnv(t)

	if err := newRunner(env, dir).process(context.Background(), filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("expected error for missing source")
	}
	bin := writeFile(t, filepath.Join(dir, "x.bin"), "\x00\x01")
	if err := newRunner(env, dir).process(context.Background(), bin); err == nil {
		t.Error("expected error for unrecognized source")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := writeFile(t, filepath.Join(dir, "in", "p.csv"), pricesCSV)
	if err := newRunner(env, filepath.Join(dir, "out")).process(ctx, filepath.Dir(src)); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestRun_Report(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "prices.csv"), pricesCSV)

	env := testEnv(t)
	conf := config.ReporterConfig{Destination: filepath.Join(dir, "report.zip")}
	rpt, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	env.Rpt = rpt

	if err := newRunner(env, filepath.Join(dir, "out")).process(context.Background(), src); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	zr, err := zip.OpenReader(conf.Destination)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer zr.Close()
	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, want := range []string{"MANIFEST", "source/prices.csv", "styler/prices.txt", "result-1.html"} {
		if !names[want] {
			t.Errorf("report missing %s, have %v", want, names)
		}
	}
}

func TestListTables(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "shop.db")
	makeShopDB(t, db)

	names, err := listTables(db)
	if err != nil {
		t.Fatalf("listTables() error = %v", err)
	}
	if len(names) != 2 || names[0] != "sales" || names[1] != "stock" {
		t.Errorf("listTables() = %v", names)
	}

	csv := writeFile(t, filepath.Join(dir, "Prices.csv"), pricesCSV)
	if names, err := listTables(csv); err != nil || len(names) != 1 || names[0] != "Prices" {
		t.Errorf("listTables(csv) = %v, %v", names, err)
	}

	if _, err := listTables(writeFile(t, filepath.Join(dir, "x.bin"), "\x00")); err == nil {
		t.Error("listTables() expected error for unknown source")
	}
}
