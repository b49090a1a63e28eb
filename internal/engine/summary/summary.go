package summary

import (
	"maps"

	"github.com/hejijunhao/amavislog/internal/model"
)

// TagCount is the grand total for one action tag.
type TagCount struct {
	Tag   string
	Count int
}

// HourRow holds the per-tag counts of one observed (day, hour) bucket.
type HourRow struct {
	Day    string // "<month> <day>", see model.LogLine.DayKey
	Hour   int
	Counts map[string]int
}

// Snapshot is an immutable copy of a State, taken once all input is consumed.
type Snapshot struct {
	Totals  []TagCount // first-seen order
	Hours   []HourRow  // first-seen day, then first-seen hour within the day
	Info    []string
	Errors  []string
	Startup []string
}

// Total is the number of action lines across all tags.
func (s Snapshot) Total() int {
	n := 0
	for _, tc := range s.Totals {
		n += tc.Count
	}
	return n
}

// Count returns the grand total for tag, or 0 if it was never seen.
func (s Snapshot) Count(tag string) int {
	for _, tc := range s.Totals {
		if tc.Tag == tag {
			return tc.Count
		}
	}
	return 0
}

type hourBucket struct {
	hour   int
	counts map[string]int
}

type dayBucket struct {
	key   string
	hours []*hourBucket
	index map[int]*hourBucket
}

// State accumulates routed lines for a single run. It grows only:
// counters are incremented and lists appended, nothing is removed.
// Not safe for concurrent use.
type State struct {
	totals   map[string]int
	tagOrder []string
	days     []*dayBucket
	dayIndex map[string]*dayBucket
	info     []string
	errors   []string
	startup  []string
}

// New creates an empty State.
func New() *State {
	return &State{
		totals:   make(map[string]int),
		dayIndex: make(map[string]*dayBucket),
	}
}

// Record adds one routed line. Action lines increment the grand total for
// tag and the (dayKey, hour) bucket; Info, Error and Startup lines append
// text to their list. Other categories are ignored.
func (s *State) Record(category model.Category, tag, dayKey string, hour int, text string) {
	switch category {
	case model.Action:
		if _, ok := s.totals[tag]; !ok {
			s.tagOrder = append(s.tagOrder, tag)
		}
		s.totals[tag]++
		s.hour(dayKey, hour).counts[tag]++
	case model.Info:
		s.info = append(s.info, text)
	case model.Error:
		s.errors = append(s.errors, text)
	case model.Startup:
		s.startup = append(s.startup, text)
	}
}

func (s *State) hour(dayKey string, hour int) *hourBucket {
	d, ok := s.dayIndex[dayKey]
	if !ok {
		d = &dayBucket{key: dayKey, index: make(map[int]*hourBucket)}
		s.dayIndex[dayKey] = d
		s.days = append(s.days, d)
	}
	h, ok := d.index[hour]
	if !ok {
		h = &hourBucket{hour: hour, counts: make(map[string]int)}
		d.index[hour] = h
		d.hours = append(d.hours, h)
	}
	return h
}

// Snapshot returns a deep copy of the current state.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Totals:  make([]TagCount, 0, len(s.tagOrder)),
		Info:    append([]string(nil), s.info...),
		Errors:  append([]string(nil), s.errors...),
		Startup: append([]string(nil), s.startup...),
	}
	for _, tag := range s.tagOrder {
		snap.Totals = append(snap.Totals, TagCount{Tag: tag, Count: s.totals[tag]})
	}
	for _, d := range s.days {
		for _, h := range d.hours {
			snap.Hours = append(snap.Hours, HourRow{Day: d.key, Hour: h.hour, Counts: maps.Clone(h.counts)})
		}
	}
	return snap
}
