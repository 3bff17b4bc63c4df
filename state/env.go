// Package state keeps program environment shared by all commands.
package state

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"mdjs/common"
	"mdjs/config"
	"mdjs/style"
)

type envKey struct{}

// LocalEnv is created once per program run and travels in the context. It is
// filled by cli hooks and command actions before any work starts and is read
// only afterwards, so concurrent conversions may share it.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report // nil unless --debug
	Log *zap.Logger

	// convert
	Format    common.OutputFmt
	NoDirs    bool
	Overwrite bool
	Jobs      int
	CodePage  encoding.Encoding // forced code page for archive names, may be nil

	// convert and inspect
	Sheet *style.Sheet
	Site  []byte // appended to every render script

	start   time.Time
	restore func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	env, ok := ctx.Value(envKey{}).(*LocalEnv)
	if !ok {
		panic("program environment is not in context")
	}
	return env
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, &LocalEnv{
		Format: common.OutputFmtJs,
		Jobs:   runtime.NumCPU(),
		start:  time.Now(),
	})
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// RedirectStdLog sends standard library log output to program log.
func (e *LocalEnv) RedirectStdLog() {
	if e.Log != nil {
		e.restore = zap.RedirectStdLog(e.Log)
	}
}

// RestoreStdLog flushes program log and undoes RedirectStdLog.
func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restore != nil {
		e.restore()
		e.restore = nil
	}
}
