package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gorewood/worklog/internal/config"
	"github.com/gorewood/worklog/internal/git"
	"github.com/gorewood/worklog/internal/logging"
	"github.com/gorewood/worklog/internal/output"
	"github.com/gorewood/worklog/internal/worklog"
)

// skipCheckpoint marks commands that must not touch the log on startup.
const skipCheckpoint = "worklog/skip-checkpoint"

// app carries the per-invocation state shared by every command. Nothing in
// it is package level, so each test builds its own.
type app struct {
	// collaborators, replaced in tests
	loadConfig func() (*config.Config, error)
	git        git.Querier
	now        func() time.Time
	getwd      func() (string, error)
	editor     editorFunc
	hardcopy   func(ctx context.Context, path string) error

	cfg      *config.Config
	logger   *zap.Logger
	closeLog func() error
	store    *worklog.Store

	// set by the checkpoint
	dir      string
	info     git.Info
	decision worklog.Decision
}

func newApp() *app {
	return &app{
		loadConfig: config.Load,
		git:        git.ExecQuerier{},
		now:        time.Now,
		getwd:      os.Getwd,
		editor:     execEditor,
		hardcopy:   screenHardcopy,
		cfg:        config.Default(),
		logger:     zap.NewNop(),
	}
}

// prepare loads configuration and, unless cmd opts out, runs the checkpoint.
func (a *app) prepare(cmd *cobra.Command) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).WithStderr(cmd.ErrOrStderr())

	cfg, err := a.loadConfig()
	if err != nil {
		err = output.NewUserError(err.Error())
		printer.Error(err)
		return err
	}
	a.cfg = cfg

	logger, closeLog, err := logging.New(cfg.LogLevel, cfg.LogFile, cmd.ErrOrStderr())
	if err != nil {
		err = output.NewUserError(err.Error())
		printer.Error(err)
		return err
	}
	a.logger, a.closeLog = logger, closeLog

	if skipsCheckpoint(cmd) {
		return nil
	}
	if err := a.checkpoint(cmd.Context()); err != nil {
		printer.Error(err)
		return err
	}
	return nil
}

// openStore opens the log once per invocation.
func (a *app) openStore() (*worklog.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := worklog.Open(a.cfg.LogPath, a.logger)
	if err != nil {
		return nil, err
	}
	a.store = store
	return store, nil
}

// checkpoint captures the current state and appends a record when the
// reconciler asks for one.
func (a *app) checkpoint(ctx context.Context) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}

	cwd, err := a.getwd()
	if err != nil {
		return output.NewSystemErrorWithCause("failed to get working directory", err)
	}
	a.dir = worklog.ResolvePath(cwd)
	a.info = git.Capture(ctx, a.git, a.dir)

	state, err := store.LastState()
	if err != nil {
		return err
	}

	now := a.now()
	reconciler := worklog.NewReconciler(a.cfg.IntervalDuration())
	a.decision = reconciler.Decide(state.Record, now, a.dir, a.info.String())

	a.logger.Debug("checkpoint",
		zap.String("dir", a.dir),
		zap.String("git", a.info.String()),
		zap.Bool("append", a.decision.Append),
		zap.Any("reasons", a.decision.Reasons),
		zap.Duration("elapsed", a.decision.Elapsed),
	)

	if !a.decision.Append {
		return nil
	}
	return store.Append(now, a.dir, a.info.String())
}

func (a *app) close() {
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

// skipsCheckpoint reports whether cmd or one of its parents opts out of the
// checkpoint. Cobra's generated help and completion commands always do.
func skipsCheckpoint(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[skipCheckpoint]; ok {
			return true
		}
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}

// skip is the annotation set for commands that bypass the checkpoint.
func skip() map[string]string {
	return map[string]string{skipCheckpoint: "true"}
}
