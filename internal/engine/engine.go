package engine

import (
	"fmt"
	"time"

	"github.com/hejijunhao/amavislog/internal/engine/classifier"
	"github.com/hejijunhao/amavislog/internal/engine/router"
	"github.com/hejijunhao/amavislog/internal/engine/summary"
	"github.com/hejijunhao/amavislog/internal/model"
)

// Skip says why a line was read but not routed.
type Skip int

const (
	NotSkipped Skip = iota
	OtherService
	OutsideDay
)

func (s Skip) String() string {
	switch s {
	case OtherService:
		return "other_service"
	case OutsideDay:
		return "outside_day"
	default:
		return "none"
	}
}

// Result is the outcome of processing one line.
type Result struct {
	Line    model.LogLine
	Detail  model.Detail // Category is model.Unknown unless Skipped == NotSkipped
	Skipped Skip
}

// Option configures an Engine.
type Option func(*Engine)

// WithDay restricts processing to lines logged on the month and day of ref.
// The year of ref is ignored since syslog timestamps carry none.
func WithDay(ref time.Time) Option {
	return func(e *Engine) {
		e.day = &ref
	}
}

// Engine orchestrates the classify → filter → route → record pipeline
// for one run. Not safe for concurrent use.
type Engine struct {
	classifier *classifier.Classifier
	state      *summary.State
	day        *time.Time
}

// New creates an Engine recording into state.
func New(cls *classifier.Classifier, state *summary.State, opts ...Option) *Engine {
	e := &Engine{
		classifier: cls,
		state:      state,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process classifies and records a single raw line. Malformed lines are
// returned as errors naming the source and line number; the state is left
// untouched in that case.
func (e *Engine) Process(raw model.RawLine) (Result, error) {
	line, err := e.classifier.Classify(raw.Text)
	if err != nil {
		return Result{}, fmt.Errorf("%s:%d: %w", raw.Source, raw.Number, err)
	}

	if !e.classifier.Accepts(line) {
		return Result{Line: line, Skipped: OtherService}, nil
	}
	if e.day != nil && !sameDay(*e.day, line.Timestamp) {
		return Result{Line: line, Skipped: OutsideDay}, nil
	}

	return Result{Line: line, Detail: router.Route(line, e.state)}, nil
}

// Snapshot returns a copy of everything recorded so far.
func (e *Engine) Snapshot() summary.Snapshot {
	return e.state.Snapshot()
}

func sameDay(a, b time.Time) bool {
	return a.Month() == b.Month() && a.Day() == b.Day()
}
