package model

// Category is the bucket a detail line was routed to.
type Category int

const (
	// Unknown is the zero value: the line was never routed.
	Unknown Category = iota
	// Startup is the catch-all for lines without a queue-id tag.
	Startup
	// Continuation lines ("(1234-01) ...") carry nothing reportable.
	Continuation
	// Error lines carry the "(!)" marker.
	Error
	// Action lines report a Passed/Blocked outcome.
	Action
	// Info lines carry an "INFO:" header.
	Info
	// Dropped lines have a queue-id and header that is neither an action nor INFO.
	Dropped
)

var categoryNames = map[Category]string{
	Unknown:      "unknown",
	Startup:      "startup",
	Continuation: "continuation",
	Error:        "error",
	Action:       "action",
	Info:         "info",
	Dropped:      "dropped",
}

// Categories lists every category in declaration order.
func Categories() []Category {
	return []Category{Unknown, Startup, Continuation, Error, Action, Info, Dropped}
}

func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return "unknown"
}

// Detail is the routed form of a LogLine's detail text.
type Detail struct {
	Category Category
	QueueID  string // e.g. "(13102-01)"; empty for Startup
	Tag      string // header text for Action, Info and Dropped, e.g. "Blocked SPAM"
	Text     string // the full detail text
}
