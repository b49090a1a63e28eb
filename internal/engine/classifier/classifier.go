package classifier

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hejijunhao/amavislog/internal/model"
)

// DefaultService is the syslog program name amavisd-new logs under.
const DefaultService = "amavis"

// timestampLayout matches "Oct 8 07:02:27" once runs of spaces are collapsed.
// Minutes and seconds may be unpadded ("8:4:0").
const timestampLayout = "Jan 2 15:4:5"

// ErrMalformedLine is returned (wrapped in a *MalformedLineError) for lines
// that do not have a syslog header.
var ErrMalformedLine = errors.New("malformed log line")

// MalformedLineError describes a line that failed header parsing.
type MalformedLineError struct {
	Line   string
	Reason string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("%s (%s): %q", ErrMalformedLine, e.Reason, e.Line)
}

func (e *MalformedLineError) Unwrap() error { return ErrMalformedLine }

// Oct  8 07:02:22 mx1 amavis[13096]: Module Amavis::Conf        2.303
var headerRe = regexp.MustCompile(`^(\w+\s+\d+\s+\d+:\d+:\d+)\s+(\S+)\s+([\w/-]+)\[(\d+)\]:\s+(.*)$`)

// Classifier splits raw syslog lines into header fields and decides
// whether a line belongs to the target service.
type Classifier struct {
	Service string
}

// New creates a Classifier for the given service name. An empty name
// selects DefaultService.
func New(service string) *Classifier {
	if service == "" {
		service = DefaultService
	}
	return &Classifier{Service: service}
}

// Classify parses one raw line. Lines from other services come back with
// only Host, Service and Detail set and are never rejected for their
// timestamp or pid; use Accepts to filter them out.
func (c *Classifier) Classify(raw string) (model.LogLine, error) {
	m := headerRe.FindStringSubmatch(raw)
	if m == nil {
		return model.LogLine{}, &MalformedLineError{Line: raw, Reason: "no syslog header"}
	}

	line := model.LogLine{
		Host:    m[2],
		Service: m[3],
		Detail:  m[5],
	}
	if !c.Accepts(line) {
		return line, nil
	}

	ts, err := time.Parse(timestampLayout, strings.Join(strings.Fields(m[1]), " "))
	if err != nil {
		return model.LogLine{}, &MalformedLineError{Line: raw, Reason: "bad timestamp " + strconv.Quote(m[1])}
	}
	pid, err := strconv.Atoi(m[4])
	if err != nil {
		return model.LogLine{}, &MalformedLineError{Line: raw, Reason: "bad pid"}
	}

	line.Timestamp = ts
	line.PID = pid
	return line, nil
}

// Accepts reports whether the line was logged by the target service.
func (c *Classifier) Accepts(line model.LogLine) bool {
	return line.Service == c.Service
}
