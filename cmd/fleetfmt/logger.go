package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger builds the tool's logger writing to w and, when c.File is
// set, to a rotated log file.
func newLogger(c LogConfig, w io.Writer) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	switch strings.ToLower(c.Level) {
	case "debug":
		level.SetLevel(zap.DebugLevel)
	case "", "info":
		level.SetLevel(zap.InfoLevel)
	case "warn", "warning":
		level.SetLevel(zap.WarnLevel)
	case "error":
		level.SetLevel(zap.ErrorLevel)
	default:
		return nil, fmt.Errorf("unknown log level %q", c.Level)
	}

	encoder, err := newEncoder(c.Format, colorable(w))
	if err != nil {
		return nil, err
	}
	cores := []zapcore.Core{zapcore.NewCore(encoder, zapcore.AddSync(w), level)}

	if c.File != "" {
		fileEncoder, err := newEncoder(c.Format, false)
		if err != nil {
			return nil, err
		}
		rot := c.Rotation.withDefaults()
		ws := zapcore.AddSync(&lumberjack.Logger{
			Filename:   c.File,
			MaxSize:    rot.MaxSizeMB,
			MaxBackups: rot.MaxBackups,
			MaxAge:     rot.MaxAgeDays,
			Compress:   rot.Compress,
		})
		cores = append(cores, zapcore.NewCore(fileEncoder, ws, level))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}

func newEncoder(format string, color bool) (zapcore.Encoder, error) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	switch strings.ToLower(format) {
	case "json":
		return zapcore.NewJSONEncoder(encCfg), nil
	case "", "console":
		if color {
			encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		return zapcore.NewConsoleEncoder(encCfg), nil
	}
	return nil, fmt.Errorf("unknown log format %q", format)
}

// colorable reports whether w is a terminal.
func colorable(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
