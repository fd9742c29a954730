package main

import (
	"io"

	tikzextractor "github.com/kataras/tikz-extractor"
	"github.com/kataras/tikz-extractor/internal/config"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// cliLogger implements tikzextractor.Logger with colored terminal output.
type cliLogger struct {
	w io.Writer
}

func (l *cliLogger) Infof(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(l.w, format+"\n", args...)
}

func (l *cliLogger) Warnf(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(l.w, "⚠ "+format+"\n", args...)
}

func (l *cliLogger) Errorf(format string, args ...any) {
	color.New(color.FgRed).Fprintf(l.w, "✗ "+format+"\n", args...)
}

// zapLogger implements tikzextractor.Logger on a sugared zap logger.
type zapLogger struct {
	s *zap.SugaredLogger
}

func (l *zapLogger) Infof(format string, args ...any)  { l.s.Infof(format, args...) }
func (l *zapLogger) Warnf(format string, args ...any)  { l.s.Warnf(format, args...) }
func (l *zapLogger) Errorf(format string, args ...any) { l.s.Errorf(format, args...) }

// newJSONLogger writes one JSON object per message to w.
func newJSONLogger(w io.Writer) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(w), zapcore.InfoLevel)
	return zap.New(core)
}

// newLogger returns the logger for format and a function flushing it.
func newLogger(format string, w io.Writer) (tikzextractor.Logger, func()) {
	if format == config.LogFormatJSON {
		z := newJSONLogger(w)
		return &zapLogger{s: z.Sugar()}, func() { _ = z.Sync() }
	}
	return &cliLogger{w: w}, func() {}
}
