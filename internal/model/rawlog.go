package model

// RawLine is one decoded input line, produced by a source and consumed by the engine.
type RawLine struct {
	Source string // file name the line was read from
	Number int    // 1-based line number within Source
	Text   string // line text without the trailing newline
}
