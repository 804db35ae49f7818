// Package logger holds the process-wide zap logger.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultLogFile is used in production mode when no file is configured
const DefaultLogFile = "./logs/dailyimage.log"

var (
	Logger      = zap.NewNop()
	Sugar       = Logger.Sugar()
	atomicLevel = zap.NewAtomicLevel()
)

// Options configure the global logger
type Options struct {
	Development bool   // console output only, colourless dev encoder
	File        string // production log file, rotated by lumberjack
	Level       string // debug | info | warn | error | fatal

	// rotation, zero means the package defaults below
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// ParseLevel maps a config level name to a zap level, defaulting to info
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(name) {
	case "debug":
		return zap.DebugLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	case "fatal":
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}

// InitLogger initializes the global logger
func InitLogger(isDevelopment bool, logPath string, logLevel ...string) error {
	opts := Options{Development: isDevelopment, File: logPath}
	if len(logLevel) > 0 {
		opts.Level = logLevel[0]
	}

	l, err := New(opts)
	if err != nil {
		return err
	}

	Logger = l
	Sugar = l.Sugar()
	zap.ReplaceGlobals(l)
	return nil
}

// New builds a logger from opts and makes its level adjustable through SetLevel
func New(opts Options) (*zap.Logger, error) {
	atomicLevel.SetLevel(ParseLevel(opts.Level))

	if opts.Development {
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig()),
			zapcore.Lock(os.Stderr),
			atomicLevel,
		)
		return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel)), nil
	}
	return NewProductionLogger(opts)
}

// NewProductionLogger writes JSON to a rotating file and console lines to stdout
func NewProductionLogger(opts Options) (*zap.Logger, error) {
	path := opts.File
	if path == "" {
		path = DefaultLogFile
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	rotate := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    orDefault(opts.MaxSizeMB, 20),
		MaxBackups: orDefault(opts.MaxBackups, 5),
		MaxAge:     orDefault(opts.MaxAgeDays, 90),
		Compress:   true,
	}

	enc := encoderConfig()
	enc.TimeKey = "timestamp"
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(rotate), atomicLevel),
		zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stdout), atomicLevel),
	)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

func encoderConfig() zapcore.EncoderConfig {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeDuration = zapcore.MillisDurationEncoder
	enc.EncodeLevel = func(level zapcore.Level, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(fmt.Sprintf("%-5s", level.CapitalString()))
	}
	enc.EncodeCaller = func(caller zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(shortCaller(caller))
	}
	return enc
}

// shortCaller renders "package/file.go:line" padded to a fixed width
func shortCaller(caller zapcore.EntryCaller) string {
	const width = 28

	parts := strings.Split(caller.TrimmedPath(), "/")
	if len(parts) > 2 {
		parts = parts[len(parts)-2:]
	}
	s := strings.Join(parts, "/")
	if len(s) > width {
		s = "..." + s[len(s)-(width-3):]
	}
	return fmt.Sprintf("%-*s", width, s)
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// Info logs a message at InfoLevel
func Info(msg string, fields ...zap.Field) {
	Logger.Info(msg, fields...)
}

// Error logs a message at ErrorLevel
func Error(msg string, fields ...zap.Field) {
	Logger.Error(msg, fields...)
}

// Warn logs a message at WarnLevel
func Warn(msg string, fields ...zap.Field) {
	Logger.Warn(msg, fields...)
}

// Debug logs a message at DebugLevel
func Debug(msg string, fields ...zap.Field) {
	Logger.Debug(msg, fields...)
}

// Sync flushes any buffered log entries
func Sync() error {
	return Logger.Sync()
}

// SetLevel changes the level of the logger built by New at runtime
func SetLevel(level zapcore.Level) {
	atomicLevel.SetLevel(level)
}
