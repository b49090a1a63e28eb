package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"

	"github.com/hejijunhao/amavislog/internal/engine"
	"github.com/hejijunhao/amavislog/internal/engine/classifier"
	"github.com/hejijunhao/amavislog/internal/engine/summary"
	"github.com/hejijunhao/amavislog/internal/model"
	"github.com/hejijunhao/amavislog/internal/output/report"
	"github.com/hejijunhao/amavislog/internal/source"
)

// Stats counts what happened to the lines read so far.
type Stats struct {
	Lines        int
	OtherService int
	OutsideDay   int
	Malformed    int
	Routed       map[model.Category]int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithEncoding sets the input encoding name. Default: source.DefaultEncoding.
func WithEncoding(name string) Option {
	return func(p *Pipeline) { p.encoding = name }
}

// WithSkipMalformed makes malformed lines a logged warning instead of a
// fatal error.
func WithSkipMalformed(skip bool) Option {
	return func(p *Pipeline) { p.skipMalformed = skip }
}

// WithLogger sets the logger for diagnostics. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// Pipeline feeds log files through an engine, one line at a time, and
// renders the resulting summary.
type Pipeline struct {
	engine        *engine.Engine
	encoding      string
	skipMalformed bool
	logger        *slog.Logger
	stats         Stats
}

// New creates a Pipeline around eng.
func New(eng *engine.Engine, opts ...Option) *Pipeline {
	p := &Pipeline{
		engine:   eng,
		encoding: source.DefaultEncoding,
		logger:   slog.Default(),
		stats:    Stats{Routed: make(map[model.Category]int)},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes paths in order and returns the summary. The first
// unreadable file or malformed line aborts the run.
func (p *Pipeline) Run(ctx context.Context, paths []string) (summary.Snapshot, error) {
	for _, path := range paths {
		if err := p.runFile(ctx, path); err != nil {
			return summary.Snapshot{}, err
		}
	}
	p.logger.Info("summary complete",
		"files", len(paths),
		"lines", p.stats.Lines,
		"other_service", p.stats.OtherService,
		"outside_day", p.stats.OutsideDay,
		"malformed", p.stats.Malformed,
		p.routedGroup(),
	)
	return p.engine.Snapshot(), nil
}

func (p *Pipeline) runFile(ctx context.Context, path string) error {
	f, err := source.Open(path, p.encoding)
	if err != nil {
		return fmt.Errorf("pipeline open: %w", err)
	}
	defer f.Close()

	p.logger.Debug("reading log file", "path", f.Path(), "encoding", p.encoding)
	if err := f.Each(func(raw model.RawLine) error { return p.process(ctx, raw) }); err != nil {
		return fmt.Errorf("pipeline read: %w", err)
	}
	return nil
}

// Read processes lines from r, labelled name, using the configured encoding.
func (p *Pipeline) Read(ctx context.Context, name string, r io.Reader) error {
	enc, err := source.Encoding(p.encoding)
	if err != nil {
		return fmt.Errorf("pipeline read: %w", err)
	}
	if err := source.Scan(name, r, enc, func(raw model.RawLine) error { return p.process(ctx, raw) }); err != nil {
		return fmt.Errorf("pipeline read: %w", err)
	}
	return nil
}

func (p *Pipeline) process(ctx context.Context, raw model.RawLine) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.stats.Lines++

	res, err := p.engine.Process(raw)
	if err != nil {
		if p.skipMalformed && errors.Is(err, classifier.ErrMalformedLine) {
			p.stats.Malformed++
			p.logger.Warn("skipping malformed line", "source", raw.Source, "line", raw.Number, "error", err)
			return nil
		}
		return err
	}

	switch res.Skipped {
	case engine.NotSkipped:
		p.stats.Routed[res.Detail.Category]++
		return nil
	case engine.OtherService:
		p.stats.OtherService++
	case engine.OutsideDay:
		p.stats.OutsideDay++
	}
	p.logger.Debug("skipping line", "source", raw.Source, "line", raw.Number, "reason", res.Skipped.String())
	return nil
}

// routedGroup reports the per-category line counts, in category order.
func (p *Pipeline) routedGroup() slog.Attr {
	var attrs []any
	for _, c := range model.Categories() {
		if n := p.stats.Routed[c]; n > 0 {
			attrs = append(attrs, slog.Int(c.String(), n))
		}
	}
	return slog.Group("routed", attrs...)
}

// Snapshot returns the summary of everything processed so far.
func (p *Pipeline) Snapshot() summary.Snapshot {
	return p.engine.Snapshot()
}

// Stats returns a copy of the line counters.
func (p *Pipeline) Stats() Stats {
	s := p.stats
	s.Routed = maps.Clone(p.stats.Routed)
	return s
}

// Report renders snap to w.
func (p *Pipeline) Report(w io.Writer, snap summary.Snapshot, opts report.Options) error {
	if err := report.Render(w, snap, opts); err != nil {
		return fmt.Errorf("pipeline output: %w", err)
	}
	return nil
}
