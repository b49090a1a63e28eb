package amavislog

import (
	"log/slog"
	"time"

	"github.com/hejijunhao/amavislog/internal/engine/classifier"
	"github.com/hejijunhao/amavislog/internal/source"
)

type options struct {
	service       string
	encoding      string
	day           *time.Time
	startupDetail bool
	skipMalformed bool
	logger        *slog.Logger
}

// Option configures a Summarizer.
type Option func(*options)

// WithService sets the syslog program name to summarize. Default: "amavis".
func WithService(name string) Option {
	return func(o *options) {
		o.service = name
	}
}

// WithEncoding sets the input text encoding. Default: "windows-1252".
func WithEncoding(name string) Option {
	return func(o *options) {
		o.encoding = name
	}
}

// WithDay restricts the summary to lines logged on day's month and day.
// The caller decides what "today" is; nothing here reads the clock.
func WithDay(day time.Time) Option {
	return func(o *options) {
		o.day = &day
	}
}

// WithStartupDetail lists captured startup lines in the report instead of "none".
func WithStartupDetail(show bool) Option {
	return func(o *options) {
		o.startupDetail = show
	}
}

// WithSkipMalformed logs and skips lines without a syslog header instead
// of failing the whole summary.
func WithSkipMalformed(skip bool) Option {
	return func(o *options) {
		o.skipMalformed = skip
	}
}

// WithLogger sets the logger for diagnostics. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func defaultOptions() options {
	return options{
		service:  classifier.DefaultService,
		encoding: source.DefaultEncoding,
	}
}
