package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding"

	"github.com/hejijunhao/amavislog/internal/model"
)

const maxLineSize = 1 << 20 // 1MB

// ErrUnreadableFile is wrapped by errors from files that cannot be opened or read.
var ErrUnreadableFile = errors.New("unreadable file")

// UnreadableFileError records the path and the underlying I/O error.
type UnreadableFileError struct {
	Path string
	Err  error
}

func (e *UnreadableFileError) Error() string {
	return fmt.Sprintf("source: %s: %v", e.Path, e.Err)
}

func (e *UnreadableFileError) Unwrap() []error { return []error{ErrUnreadableFile, e.Err} }

// File is a log file opened for line-by-line decoding.
type File struct {
	path string
	f    *os.File
	enc  encoding.Encoding
}

// Open opens path for reading, decoding its bytes with the named encoding.
func Open(path, encodingName string) (*File, error) {
	enc, err := Encoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &UnreadableFileError{Path: path, Err: err}
	}
	return &File{path: path, f: f, enc: enc}, nil
}

// Path returns the path the file was opened with.
func (f *File) Path() string { return f.path }

// Each calls fn for every line of the file, in order. It stops at the
// first error from fn or from reading.
func (f *File) Each(fn func(model.RawLine) error) error {
	return Scan(f.path, f.f, f.enc, fn)
}

// Close closes the underlying file.
func (f *File) Close() error {
	return f.f.Close()
}

// Scan decodes r with enc and calls fn once per line. Trailing "\n" and
// "\r\n" are stripped. name labels the lines and any read error.
func Scan(name string, r io.Reader, enc encoding.Encoding, fn func(model.RawLine) error) error {
	sc := bufio.NewScanner(enc.NewDecoder().Reader(r))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	n := 0
	for sc.Scan() {
		n++
		if err := fn(model.RawLine{Source: name, Number: n, Text: sc.Text()}); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return &UnreadableFileError{Path: name, Err: err}
	}
	return nil
}
