package logsvc

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sudais-khan12/LMS-sub002/core"
)

type ZapLogger struct {
	base  *zap.Logger
	Level zap.AtomicLevel
}

var _ core.Logger = (*ZapLogger)(nil)

// NewZapLogger builds a JSON logger in PROD and a console logger elsewhere.
func NewZapLogger(conf *core.Config, name string) (*ZapLogger, error) {
	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(strings.ToLower(conf.LogLevel))); err != nil {
		lvl = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	var cfg zap.Config
	if strings.EqualFold(conf.Env, "PROD") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	base, err := cfg.Build(zap.AddStacktrace(zap.ErrorLevel), zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	base = base.Named(name).With(zap.String("build", conf.Build))
	return &ZapLogger{base: base, Level: lvl}, nil
}

// NewNopLogger discards everything; used by tests.
func NewNopLogger() *ZapLogger {
	return &ZapLogger{base: zap.NewNop(), Level: zap.NewAtomicLevelAt(zap.FatalLevel)}
}

func (l *ZapLogger) Sync() {
	_ = l.base.Sync()
}

func fields(args []interface{}) []zap.Field {
	p := parseArgs(args)
	fs := make([]zap.Field, 0, len(p.errs)+len(p.extras)+2)
	switch len(p.errs) {
	case 0:
	case 1:
		fs = append(fs, zap.Error(p.errs[0]))
	default:
		fs = append(fs, zap.Errors("errors", p.errs))
	}
	for k, v := range p.extras {
		fs = append(fs, zap.Any(k, v))
	}
	if p.person != nil {
		fs = append(fs, zap.String("userId", p.person.ID))
	}
	if len(p.rest) > 0 {
		fs = append(fs, zap.Any("args", p.rest))
	}
	return fs
}

func (l *ZapLogger) Debug(msg string, args ...interface{}) { l.base.Debug(msg, fields(args)...) }
func (l *ZapLogger) Info(msg string, args ...interface{})  { l.base.Info(msg, fields(args)...) }
func (l *ZapLogger) Warn(msg string, args ...interface{})  { l.base.Warn(msg, fields(args)...) }
func (l *ZapLogger) Error(msg string, args ...interface{}) { l.base.Error(msg, fields(args)...) }
func (l *ZapLogger) Fatal(msg string, args ...interface{}) { l.base.Fatal(msg, fields(args)...) }
