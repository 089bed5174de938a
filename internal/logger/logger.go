// Package logger owns the process-wide zap logger. Library packages take a
// child from Named; only main logs through Log directly.
package logger

import (
	"errors"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ErrNoSink is returned by Setup when both stdout and file output are off.
var ErrNoSink = errors.New("logger has no output")

// Log is the root logger. It discards everything until Init runs, so
// packages can log from tests without setup.
var Log = zap.NewNop()

// Rotation configures the lumberjack file sink. An empty Path disables it.
type Rotation struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// RotatingFile returns the rotation used for the log_file setting.
func RotatingFile(path string) Rotation {
	return Rotation{
		Path:       path,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 14,
		Compress:   true,
	}
}

// Options selects the sinks Setup builds.
type Options struct {
	Level string
	File  Rotation
	// Quiet drops the stdout sink.
	Quiet bool
}

// Init sets up stdout logging at level, plus a rotating file when logFile
// is set.
func Init(level, logFile string) error {
	opts := Options{Level: level}
	if logFile != "" {
		opts.File = RotatingFile(logFile)
	}
	return Setup(opts)
}

// Setup replaces Log. An unknown level falls back to info and is reported
// through the new logger.
func Setup(opts Options) error {
	lvl, levelErr := zapcore.ParseLevel(opts.Level)
	if levelErr != nil {
		lvl = zapcore.InfoLevel
	}

	var cores []zapcore.Core
	if !opts.Quiet {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig(zapcore.TimeEncoderOfLayout("15:04:05.000"), zapcore.CapitalColorLevelEncoder)),
			zapcore.AddSync(os.Stdout),
			lvl,
		))
	}
	if opts.File.Path != "" {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig(zapcore.ISO8601TimeEncoder, zapcore.CapitalLevelEncoder)),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   opts.File.Path,
				MaxSize:    opts.File.MaxSizeMB,
				MaxBackups: opts.File.MaxBackups,
				MaxAge:     opts.File.MaxAgeDays,
				Compress:   opts.File.Compress,
				LocalTime:  true,
			}),
			lvl,
		))
	}
	if len(cores) == 0 {
		return ErrNoSink
	}

	Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	if levelErr != nil {
		Log.Warn("unknown log level, using info", zap.String("level", opts.Level))
	}
	return nil
}

func encoderConfig(timeEnc zapcore.TimeEncoder, levelEnc zapcore.LevelEncoder) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		CallerKey:        "caller",
		EncodeTime:       timeEnc,
		EncodeLevel:      levelEnc,
		EncodeName:       zapcore.FullNameEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		ConsoleSeparator: " ",
	}
}

// Named returns a child logger for a component. The child is bound to the
// logger current at call time, so call it after Init.
func Named(component string) *zap.Logger {
	return Log.Named(component)
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Log.Sync()
}
