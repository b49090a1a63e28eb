package amavislog

import (
	"github.com/hejijunhao/amavislog/internal/engine/summary"
	"github.com/hejijunhao/amavislog/internal/output/report"
	"github.com/hejijunhao/amavislog/internal/pipeline"
)

// TagCount is the grand total for one action tag such as "Blocked SPAM".
type TagCount struct {
	Tag   string
	Count int
}

// HourRow holds the counts for one observed (day, hour).
type HourRow struct {
	Day     string         // "<month> <day>", e.g. "10 8"
	Hour    int            // 0-23
	Blocked int            // "Blocked SPAM" count
	Passed  int            // "Passed CLEAN" count
	Counts  map[string]int // every action tag seen in this hour
}

// Stats counts what happened to the input lines.
type Stats struct {
	Lines        int // lines read
	OtherService int // lines from other syslog services
	OutsideDay   int // lines dropped by the day filter
	Malformed    int // malformed lines skipped
}

// Summary is the result of one summarization run.
// This is the stable public type; internal representations may change.
type Summary struct {
	Totals  []TagCount // first-seen order
	Hours   []HourRow
	Info    []string
	Errors  []string
	Startup []string
	Stats   Stats

	snap summary.Snapshot
	opts report.Options
}

// Total is the number of Passed and Blocked lines.
func (s *Summary) Total() int {
	return s.snap.Total()
}

// Text renders the plain-text report.
func (s *Summary) Text() string {
	return report.String(s.snap, s.opts)
}

func newSummary(snap summary.Snapshot, stats pipeline.Stats, opts report.Options) *Summary {
	s := &Summary{
		Totals:  make([]TagCount, 0, len(snap.Totals)),
		Hours:   make([]HourRow, 0, len(snap.Hours)),
		Info:    snap.Info,
		Errors:  snap.Errors,
		Startup: snap.Startup,
		Stats: Stats{
			Lines:        stats.Lines,
			OtherService: stats.OtherService,
			OutsideDay:   stats.OutsideDay,
			Malformed:    stats.Malformed,
		},
		snap: snap,
		opts: opts,
	}
	for _, tc := range snap.Totals {
		s.Totals = append(s.Totals, TagCount{Tag: tc.Tag, Count: tc.Count})
	}
	for _, row := range snap.Hours {
		s.Hours = append(s.Hours, HourRow{
			Day:     row.Day,
			Hour:    row.Hour,
			Blocked: row.Counts[report.BlockedTag],
			Passed:  row.Counts[report.PassedTag],
			Counts:  row.Counts,
		})
	}
	return s
}
