package faq

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed faqs.yaml
var defaultTable []byte

// Load reads FAQ entries from the YAML file at path, or the embedded default
// table when path is empty. Entry order is preserved so that tie-breaking
// between triggers stays deterministic.
func Load(path string) ([]Entry, error) {
	data := defaultTable
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read faq file: %w", err)
		}
		data = b
	}

	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse faq table: %w", err)
	}

	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		q := strings.TrimSpace(strings.ToLower(e.Question))
		if q == "" {
			return nil, fmt.Errorf("faq entry %d: empty question", i)
		}
		if e.Answer == "" {
			return nil, fmt.Errorf("faq entry %d: empty answer", i)
		}
		if _, dup := seen[q]; dup {
			return nil, fmt.Errorf("faq entry %d: duplicate question %q", i, e.Question)
		}
		seen[q] = struct{}{}
	}

	return entries, nil
}
