package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log levels accepted by New. Debug enables V(1) messages, trace V(2).
const (
	LevelError = "error"
	LevelInfo  = "info"
	LevelDebug = "debug"
	LevelTrace = "trace"
)

// Levels lists the accepted level names, quietest first.
var Levels = []string{LevelError, LevelInfo, LevelDebug, LevelTrace}

// zapLevel maps a level name onto zap. logr verbosity V(n) is zap level -n.
func zapLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case LevelError:
		return zapcore.ErrorLevel, nil
	case LevelInfo, "":
		return zapcore.InfoLevel, nil
	case LevelDebug:
		return zapcore.Level(-1), nil
	case LevelTrace:
		return zapcore.Level(-2), nil
	default:
		return 0, fmt.Errorf("unknown log level %q (valid: %s)", level, strings.Join(Levels, ", "))
	}
}

// New returns a console logger writing to w at the given level.
func New(level string, w io.Writer) (logr.Logger, error) {
	lvl, err := zapLevel(level)
	if err != nil {
		return logr.Discard(), err
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(lvl),
	)
	return zapr.NewLogger(zap.New(core)), nil
}
