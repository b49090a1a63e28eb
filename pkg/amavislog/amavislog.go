package amavislog

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/hejijunhao/amavislog/internal/engine"
	"github.com/hejijunhao/amavislog/internal/engine/classifier"
	"github.com/hejijunhao/amavislog/internal/engine/summary"
	"github.com/hejijunhao/amavislog/internal/output/report"
	"github.com/hejijunhao/amavislog/internal/pipeline"
	"github.com/hejijunhao/amavislog/internal/source"
)

// Summarizer turns amavis log files into summaries.
type Summarizer struct {
	opts options
}

// New creates a Summarizer. It fails only on an unknown encoding.
func New(opts ...Option) (*Summarizer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if _, err := source.Encoding(o.encoding); err != nil {
		return nil, fmt.Errorf("amavislog: %w", err)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return &Summarizer{opts: o}, nil
}

// SummarizeFiles reads paths in order and summarizes them as one run.
func (s *Summarizer) SummarizeFiles(ctx context.Context, paths ...string) (*Summary, error) {
	p := s.pipeline()
	snap, err := p.Run(ctx, paths)
	if err != nil {
		return nil, fmt.Errorf("amavislog: %w", err)
	}
	return newSummary(snap, p.Stats(), s.reportOptions()), nil
}

// Summarize reads a single stream. name labels lines in error messages.
func (s *Summarizer) Summarize(ctx context.Context, name string, r io.Reader) (*Summary, error) {
	p := s.pipeline()
	if err := p.Read(ctx, name, r); err != nil {
		return nil, fmt.Errorf("amavislog: %w", err)
	}
	return newSummary(p.Snapshot(), p.Stats(), s.reportOptions()), nil
}

func (s *Summarizer) pipeline() *pipeline.Pipeline {
	var engOpts []engine.Option
	if s.opts.day != nil {
		engOpts = append(engOpts, engine.WithDay(*s.opts.day))
	}
	eng := engine.New(classifier.New(s.opts.service), summary.New(), engOpts...)
	return pipeline.New(eng,
		pipeline.WithEncoding(s.opts.encoding),
		pipeline.WithSkipMalformed(s.opts.skipMalformed),
		pipeline.WithLogger(s.opts.logger),
	)
}

func (s *Summarizer) reportOptions() report.Options {
	return report.Options{
		Service:     s.opts.service,
		Day:         s.opts.day,
		ShowStartup: s.opts.startupDetail,
	}
}
