// Package state defines shared program state.
package state

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"tabstyle/common"
	"tabstyle/config"
	"tabstyle/styler"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// used by render and tables subcommands
	Overwrite bool
	CodePage  encoding.Encoding
	Format    common.OutputFmt
	Query     string
	Tables    []string
	IDs       styler.IDGenerator

	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// WantTable reports whether table was selected on the command line, all
// tables are selected when nothing was requested.
func (e *LocalEnv) WantTable(name string) bool {
	return len(e.Tables) == 0 || slices.Contains(e.Tables, name)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
