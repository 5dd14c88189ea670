// Package logging builds the diagnostic logger. Stdout carries command
// output (the prompt countdown is embedded in PS1), so diagnostics go to
// stderr or to a file, never to stdout.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Off disables logging entirely.
const Off = "off"

// ParseLevel maps a level name to a zap level. The second result is false
// for "off". Names are case-insensitive; "" means warn.
func ParseLevel(name string) (zapcore.Level, bool, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug", "trace":
		return zapcore.DebugLevel, true, nil
	case "info":
		return zapcore.InfoLevel, true, nil
	case "", "warn", "warning":
		return zapcore.WarnLevel, true, nil
	case "error":
		return zapcore.ErrorLevel, true, nil
	case Off, "none":
		return zapcore.InvalidLevel, false, nil
	default:
		return zapcore.InvalidLevel, false, fmt.Errorf("unknown log level %q (want debug, info, warn, error or off)", name)
	}
}

// New returns a logger at level. With file set, JSON lines are appended to
// that file; otherwise human-readable lines go to stderr. The returned
// close function releases the file and is safe to call more than once.
func New(level, file string, stderr io.Writer) (*zap.Logger, func() error, error) {
	lvl, enabled, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	noop := func() error { return nil }
	if !enabled {
		return zap.NewNop(), noop, nil
	}

	if file == "" {
		enc := zap.NewDevelopmentEncoderConfig()
		enc.TimeKey = ""
		enc.CallerKey = ""
		core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(zapcore.AddSync(stderr)), lvl)
		return zap.New(core), noop, nil
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(zapcore.AddSync(f)), lvl)
	logger := zap.New(core, zap.AddCaller()).With(zap.Int("pid", os.Getpid()))

	closed := false
	closeFn := func() error {
		if closed {
			return nil
		}
		closed = true
		_ = logger.Sync()
		return f.Close()
	}
	return logger, closeFn, nil
}
