package logsvc

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"

	"github.com/sudais-khan12/LMS-sub002/core"
)

// SentryLogger captures errors in Sentry and hands every message to next.
type SentryLogger struct {
	next core.Logger
	hub  *sentry.Hub
}

var _ core.Logger = (*SentryLogger)(nil)

// NewSentryLogger returns next unchanged when no DSN is configured.
// The returned func flushes buffered events and must be called before exiting.
func NewSentryLogger(next core.Logger, conf *core.Config) (core.Logger, func(), error) {
	if conf.SentryDSN == "" {
		return next, func() {}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         conf.SentryDSN,
		Environment: conf.Env,
		Release:     conf.Build,
	})
	if err != nil {
		return next, func() {}, errors.Wrap(err, "initializing sentry")
	}
	flush := func() { sentry.Flush(2 * time.Second) }
	return &SentryLogger{next: next, hub: sentry.CurrentHub()}, flush, nil
}

func (l *SentryLogger) capture(level sentry.Level, msg string, args []interface{}) {
	p := parseArgs(args)
	l.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		if p.person != nil {
			scope.SetUser(sentry.User{ID: p.person.ID, Username: p.person.Username, Email: p.person.Email})
		}
		for k, v := range p.extras {
			scope.SetExtra(k, v)
		}
		if len(p.errs) == 0 {
			l.hub.CaptureMessage(msg)
			return
		}
		for _, err := range p.errs {
			l.hub.CaptureException(errors.Wrap(err, msg))
		}
	})
}

func (l *SentryLogger) Debug(msg string, args ...interface{}) { l.next.Debug(msg, args...) }
func (l *SentryLogger) Info(msg string, args ...interface{})  { l.next.Info(msg, args...) }
func (l *SentryLogger) Warn(msg string, args ...interface{})  { l.next.Warn(msg, args...) }

func (l *SentryLogger) Error(msg string, args ...interface{}) {
	l.capture(sentry.LevelError, msg, args)
	l.next.Error(msg, args...)
}

func (l *SentryLogger) Fatal(msg string, args ...interface{}) {
	l.capture(sentry.LevelFatal, msg, args)
	sentry.Flush(2 * time.Second)
	l.next.Fatal(msg, args...)
}
