package logging

import (
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileConfig describes a size-bounded process log file. Zero values take lumberjack's defaults.
type FileConfig struct {
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func newFileCore(conf FileConfig) (zapcore.Core, *lumberjack.Logger) {
	writer := &lumberjack.Logger{
		Filename:   conf.Filename,
		MaxSize:    conf.MaxSizeMB,
		MaxBackups: conf.MaxBackups,
		MaxAge:     conf.MaxAgeDays,
	}
	return zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(writer), zapcore.DebugLevel), writer
}
