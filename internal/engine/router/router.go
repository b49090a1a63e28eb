// Package router sorts the detail text of amavis log lines into report buckets.
//
// Every reportable amavis line starts with a queue-id tag such as
// "(13102-01)" or "(13102-02-5)". Routing is by the shape that follows the
// tag, checked in a fixed order because the patterns overlap:
//
//	(13102-01) ...                 continuation, ignored
//	(07156-04) (!)do_unzip: ...    error
//	(13102-01) Passed CLEAN {...}  action, counted under "Passed CLEAN"
//	(18584-10) INFO: unfolded ...  info
//	(18584-10) Checking: ...       dropped
//	Module Amavis::Conf 2.303      startup (no queue-id tag)
package router

import (
	"regexp"
	"strings"

	"github.com/hejijunhao/amavislog/internal/model"
)

const queueID = `(.(?:\d+-?)+.)\s+`

var (
	continuationRe = regexp.MustCompile(`^` + queueID + `\.{3}`)
	errorRe        = regexp.MustCompile(`^` + queueID + `\(!\)`)
	headerRe       = regexp.MustCompile(`^` + queueID + `(\w+\s*[\w-]+:?)\s+`)
)

// Recorder receives the lines that land in a report bucket.
// *summary.State satisfies it.
type Recorder interface {
	Record(category model.Category, tag, dayKey string, hour int, text string)
}

// Route classifies line.Detail and records it into rec. Continuation and
// dropped lines are returned but never recorded.
func Route(line model.LogLine, rec Recorder) model.Detail {
	d := Parse(line.Detail)
	switch d.Category {
	case model.Continuation, model.Dropped:
	case model.Action:
		rec.Record(d.Category, d.Tag, line.DayKey(), line.Hour(), d.Text)
	default:
		rec.Record(d.Category, d.Tag, "", 0, d.Text)
	}
	return d
}

// Parse classifies detail text without recording it.
func Parse(detail string) model.Detail {
	if m := continuationRe.FindStringSubmatch(detail); m != nil {
		return model.Detail{Category: model.Continuation, QueueID: m[1], Text: detail}
	}
	if m := errorRe.FindStringSubmatch(detail); m != nil {
		return model.Detail{Category: model.Error, QueueID: m[1], Text: detail}
	}

	m := headerRe.FindStringSubmatch(detail)
	if m == nil {
		return model.Detail{Category: model.Startup, Text: detail}
	}

	d := model.Detail{QueueID: m[1], Tag: m[2], Text: detail}
	switch {
	case IsAction(d.Tag):
		d.Category = model.Action
	case strings.HasPrefix(d.Tag, "INFO:"):
		d.Category = model.Info
	default:
		d.Category = model.Dropped
	}
	return d
}

// IsAction reports whether tag is a Passed/Blocked outcome.
func IsAction(tag string) bool {
	return strings.HasPrefix(tag, "Passed") || strings.HasPrefix(tag, "Blocked")
}

// IsBlocked reports whether tag is a Blocked outcome.
func IsBlocked(tag string) bool {
	return strings.HasPrefix(tag, "Blocked")
}
