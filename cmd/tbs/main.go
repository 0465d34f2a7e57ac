package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"tabstyle/common"
	"tabstyle/config"
	"tabstyle/convert"
	"tabstyle/misc"
	"tabstyle/state"
)

const sourceHelp = `
SOURCE:
    path to table(s) to process, following formats are supported:
        CSV file: "[path_to_file]file.csv" (.tsv files are tab separated)
        SQLite database: "[path_to_file]file.db" - every user table or result of --query
        zip archive: "[path_to_file]archive.zip" - every CSV file inside archive
        directory: "[path_to_directory]directory" - recursively process all files above (symbolic links are not followed)
`

const destinationHelp = `
DESTINATION:
    always a directory, output file names are derived from output.name_template
    if absent - current working directory
`

const dumpHelp = `
DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces configuration as it is seen by the program: defaults merged with
values from configuration file. To see defaults embedded into the program
use --default flag.
`

// setup runs after command line is parsed and before any sub-command.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.NArg() == 0 {
		// help only
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)
	source := cmd.String("config")

	cfg, err := config.LoadConfiguration(source)
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	env.Cfg = cfg

	if cmd.Bool("debug") {
		if env.Rpt, err = cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		storeConfig(env.Rpt, cfg, source)
	}

	if env.Log, err = cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Started",
		zap.Strings("args", os.Args),
		zap.String("version", misc.GetVersion()),
		zap.String("git", misc.GetGitHash()),
		zap.String("go", runtime.Version()))
	if env.Rpt != nil {
		env.Log.Info("Debug report requested", zap.String("location", env.Rpt.Name()))
	}
	if source == "" {
		env.Log.Info("No configuration file, using defaults")
	}
	return ctx, nil
}

func storeConfig(rpt *config.Report, cfg *config.Config, source string) {
	data, err := config.Dump(cfg)
	if err != nil {
		return
	}
	name := "config/actual.yaml"
	if source != "" {
		name = "config/" + filepath.Base(source)
	}
	rpt.StoreData(name, data)
}

// teardown flushes logs and closes debug report. Logger is gone after this
// point so problems are returned rather than logged.
func teardown(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Finished", zap.Duration("elapsed", env.Uptime()), zap.Strings("args", cmd.Args().Slice()))
	}
	env.RestoreStdLog()

	if env.Rpt != nil {
		if e := env.Rpt.Close(); e != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", e))
		}
	}
	if env.Cfg != nil && env.Cfg.Logging.FileLogger.Destination != "" {
		err = multierr.Append(err, removeEmptyCrashLog(filepath.Dir(env.Cfg.Logging.FileLogger.Destination)))
	}
	return err
}

func removeEmptyCrashLog(dir string) error {
	debug.SetCrashOutput(nil, debug.CrashOptions{})
	name := filepath.Join(dir, misc.GetAppName()+"-panic.log")
	if fi, err := os.Stat(name); err != nil || fi.Size() != 0 {
		return nil
	}
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("unable to remove empty panic log '%s': %w", name, err)
	}
	return nil
}

// logged is set when failure was already reported through the logger.
var logged bool

func onExitError(ctx context.Context, _ *cli.Command, err error) {
	if log := state.EnvFromContext(ctx).Log; log != nil {
		log.Error("Failed", zap.Error(err))
		logged = true
	}
}

func onUsageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func onUnknownCommand(ctx context.Context, _ *cli.Command, name string) {
	if log := state.EnvFromContext(ctx).Log; log != nil {
		log.Warn("Unknown command, nothing to do", zap.String("command", name))
	}
}

func renderCommand() *cli.Command {
	formats := strings.Join(common.OutputFmtNames(), ", ")
	return &cli.Command{
		Name:         "render",
		Usage:        "Renders table(s) as styled HTML",
		ArgsUsage:    "SOURCE [DESTINATION]",
		OnUsageError: onUsageError,
		Action:       convert.Run,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "output `TYPE` overriding configuration (" + formats + ")"},
			&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "for SQLite sources render result of `SQL` query instead of tables"},
			&cli.StringSliceFlag{Name: "table", Aliases: []string{"t"}, Usage: "render only table `NAME` (could be repeated)"},
			&cli.StringFlag{Name: "encoding", Aliases: []string{"e"},
				Usage: "force `ENCODING` of CSV input and non UTF-8 file names in archives (IANA character set name)"},
			&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "overwrite existing output files"},
		},
		CustomHelpTemplate: cli.CommandHelpTemplate + sourceHelp + destinationHelp,
	}
}

func tablesCommand() *cli.Command {
	return &cli.Command{
		Name:         "tables",
		Usage:        "Lists tables found in SQLite database, zip archive or CSV file",
		ArgsUsage:    "SOURCE",
		OnUsageError: onUsageError,
		Action:       convert.Tables,
	}
}

func dumpConfigCommand() *cli.Command {
	return &cli.Command{
		Name:         "dumpconfig",
		Usage:        "Dumps either default or actual configuration (YAML)",
		ArgsUsage:    "DESTINATION",
		OnUsageError: onUsageError,
		Action:       dumpConfig,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
		},
		CustomHelpTemplate: cli.CommandHelpTemplate + dumpHelp,
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "styles tabular data (CSV, SQLite) into HTML tables with per cell CSS",
		Version:         fmt.Sprintf("%s (%s) : %s", misc.GetVersion(), runtime.Version(), misc.GetGitHash()),
		HideHelpCommand: true,
		Before:          setup,
		After:           teardown,
		OnUsageError:    onUsageError,
		ExitErrHandler:  onExitError,
		CommandNotFound: onUnknownCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "produce report archive to help troubleshooting"},
		},
		Commands: []*cli.Command{renderCommand(), tablesCommand(), dumpConfigCommand()},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	err := newApp().Run(ctx, os.Args)
	stop()
	if err != nil {
		if !logged {
			fmt.Fprintf(os.Stderr, "Failed: %v\n", err)
		}
		os.Exit(1)
	}
}

func dumpConfig(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	var (
		data []byte
		kind = "actual"
	)
	if cmd.Bool("default") {
		kind = "default"
		data, err = config.Prepare()
	} else {
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	var out io.Writer = cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}
	target := "STDOUT"
	if name := cmd.Args().First(); name != "" {
		f, err := os.Create(name)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", name, err)
		}
		defer func() { err = multierr.Append(err, f.Close()) }()
		out, target = f, name
	}

	env.Log.Info("Writing configuration", zap.String("kind", kind), zap.String("file", target))
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
