package log

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// DefaultFlushTimeout bounds how long Flush waits for queued events.
const DefaultFlushTimeout = 2 * time.Second

// SentryNotifier reports skipped files and fatal errors to Sentry.
// The zero value, and a notifier built with an empty DSN, does nothing.
type SentryNotifier struct {
	hub          *sentry.Hub
	flushTimeout time.Duration
}

// SentryOption configures the Sentry client.
type SentryOption func(*sentry.ClientOptions)

// WithRelease tags events with the psiscan version.
func WithRelease(release string) SentryOption {
	return func(o *sentry.ClientOptions) {
		o.Release = release
	}
}

// WithEnvironment tags events with an environment name.
func WithEnvironment(env string) SentryOption {
	return func(o *sentry.ClientOptions) {
		o.Environment = env
	}
}

func withBeforeSend(fn func(*sentry.Event, *sentry.EventHint) *sentry.Event) SentryOption {
	return func(o *sentry.ClientOptions) {
		o.BeforeSend = fn
	}
}

// NewSentryNotifier returns a notifier for dsn. An empty dsn disables it.
func NewSentryNotifier(dsn string, opts ...SentryOption) (*SentryNotifier, error) {
	if dsn == "" {
		return &SentryNotifier{}, nil
	}

	co := sentry.ClientOptions{
		Dsn:            dsn,
		ServerName:     "psiscan",
		SendDefaultPII: false,
	}
	for _, opt := range opts {
		opt(&co)
	}

	client, err := sentry.NewClient(co)
	if err != nil {
		return nil, fmt.Errorf("initializing sentry: %w", err)
	}

	return &SentryNotifier{
		hub:          sentry.NewHub(client, sentry.NewScope()),
		flushTimeout: DefaultFlushTimeout,
	}, nil
}

// Enabled reports whether events are sent.
func (n *SentryNotifier) Enabled() bool {
	return n != nil && n.hub != nil
}

// FileSkipped reports a file that could not be processed.
func (n *SentryNotifier) FileSkipped(file string, err error) {
	n.capture(err, sentry.LevelWarning, map[string]string{
		"file":  file,
		"event": "file_skipped",
	})
}

// Fatal reports an error that ended the run.
func (n *SentryNotifier) Fatal(err error) {
	n.capture(err, sentry.LevelError, map[string]string{
		"event": "fatal",
	})
}

// Flush waits for queued events. It returns false on timeout.
func (n *SentryNotifier) Flush() bool {
	if !n.Enabled() {
		return true
	}
	return n.hub.Flush(n.flushTimeout)
}

func (n *SentryNotifier) capture(err error, level sentry.Level, tags map[string]string) {
	if !n.Enabled() || err == nil {
		return
	}
	n.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		scope.SetTags(tags)
		n.hub.CaptureException(err)
	})
}
