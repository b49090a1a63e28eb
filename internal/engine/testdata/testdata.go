package testdata

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed corpus.yaml
var corpusYAML []byte

// CorpusEntry is a labelled syslog line for routing validation.
type CorpusEntry struct {
	Raw         string `yaml:"raw"`
	Category    string `yaml:"category"`
	Tag         string `yaml:"tag"`
	Description string `yaml:"description"`
}

// LoadCorpus parses the embedded corpus.yaml and returns all entries.
func LoadCorpus() ([]CorpusEntry, error) {
	var entries []CorpusEntry
	if err := yaml.Unmarshal(corpusYAML, &entries); err != nil {
		return nil, fmt.Errorf("parse corpus.yaml: %w", err)
	}
	return entries, nil
}
