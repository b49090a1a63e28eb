package source

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is what amavisd-new logs were historically written in.
const DefaultEncoding = "windows-1252"

var registry = map[string]encoding.Encoding{
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
	"utf-8":        unicode.UTF8,
	"utf8":         unicode.UTF8,
}

// Encoding returns the text encoding registered under name (case-insensitive).
func Encoding(name string) (encoding.Encoding, error) {
	enc, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown input encoding %q (supported: %s)", name, strings.Join(Encodings(), ", "))
	}
	return enc, nil
}

// Encodings returns the sorted names of all supported encodings.
func Encodings() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
