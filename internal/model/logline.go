package model

import (
	"fmt"
	"time"
)

// LogLine is a syslog line split into its header fields.
// Timestamp has no year: syslog does not record one.
type LogLine struct {
	Timestamp time.Time
	Host      string
	Service   string
	PID       int
	Detail    string // everything after "service[pid]: "
}

// DayKey identifies the calendar day of the line as "<month> <day>", e.g. "10 8".
func (l LogLine) DayKey() string {
	return fmt.Sprintf("%d %d", int(l.Timestamp.Month()), l.Timestamp.Day())
}

// Hour is the hour-of-day the line was logged in.
func (l LogLine) Hour() int {
	return l.Timestamp.Hour()
}
