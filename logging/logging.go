// Package logging is the structured logger shared by the planning packages: a thin layer over
// zap with per-call debug mode and an optional rotating log file.
package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging interface handed to every component of this module.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	// CDebugw logs at debug level, or unconditionally when ctx has debug mode enabled.
	CDebugw(ctx context.Context, msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	// Sublogger returns a logger named "<name>.<subname>" with its own copy of the level.
	Sublogger(subname string) Logger
	SetLevel(level zapcore.Level)
	Sync() error
}

// Cores accept everything; the level check happens in the wrapper so that CDebugw can bypass it.
type zapLogger struct {
	level zap.AtomicLevel
	sugar *zap.SugaredLogger
}

func newZapLogger(name string, level zapcore.Level, cores ...zapcore.Core) *zapLogger {
	base := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	return &zapLogger{
		level: zap.NewAtomicLevelAt(level),
		sugar: base.Sugar().Named(name),
	}
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     utcTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

func utcTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	zapcore.ISO8601TimeEncoder(t.UTC(), enc)
}

func newConsoleCore(w zapcore.WriteSyncer) zapcore.Core {
	conf := encoderConfig()
	conf.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewCore(zapcore.NewConsoleEncoder(conf), w, zapcore.DebugLevel)
}

// NewLogger returns a logger writing Info+ lines to stdout in UTC.
func NewLogger(name string) Logger {
	return newZapLogger(name, zapcore.InfoLevel, newConsoleCore(zapcore.Lock(os.Stdout)))
}

// NewFileLogger is NewLogger plus a JSON copy of every line in a rotating file. Close the
// returned closer on shutdown.
func NewFileLogger(name string, conf FileConfig) (Logger, io.Closer, error) {
	if conf.Filename == "" {
		return nil, nil, errors.New("log file needs a filename")
	}
	fileCore, closer := newFileCore(conf)
	return newZapLogger(name, zapcore.InfoLevel, newConsoleCore(zapcore.Lock(os.Stdout)), fileCore), closer, nil
}

func (l *zapLogger) Debugw(msg string, keysAndValues ...interface{}) {
	if l.level.Enabled(zapcore.DebugLevel) {
		l.sugar.Debugw(msg, keysAndValues...)
	}
}

func (l *zapLogger) CDebugw(ctx context.Context, msg string, keysAndValues ...interface{}) {
	if l.level.Enabled(zapcore.DebugLevel) || IsDebugMode(ctx) {
		l.sugar.Debugw(msg, keysAndValues...)
	}
}

func (l *zapLogger) Infow(msg string, keysAndValues ...interface{}) {
	if l.level.Enabled(zapcore.InfoLevel) {
		l.sugar.Infow(msg, keysAndValues...)
	}
}

func (l *zapLogger) Warnw(msg string, keysAndValues ...interface{}) {
	if l.level.Enabled(zapcore.WarnLevel) {
		l.sugar.Warnw(msg, keysAndValues...)
	}
}

func (l *zapLogger) Errorw(msg string, keysAndValues ...interface{}) {
	if l.level.Enabled(zapcore.ErrorLevel) {
		l.sugar.Errorw(msg, keysAndValues...)
	}
}

func (l *zapLogger) Sublogger(subname string) Logger {
	return &zapLogger{
		level: zap.NewAtomicLevelAt(l.level.Level()),
		sugar: l.sugar.Named(subname),
	}
}

func (l *zapLogger) SetLevel(level zapcore.Level) {
	l.level.SetLevel(level)
}

func (l *zapLogger) Sync() error {
	return l.sugar.Sync()
}
