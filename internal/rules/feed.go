package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// feedFile is the on-disk shape of a rule feed.
type feedFile struct {
	Rules []ParsingRule `yaml:"rules"`
}

// LoadFeed reads a YAML rule feed and refreshes the registry from it.
// Rules failing the acceptance gate are dropped without error; the
// built-in baseline is always retained.
func (r *Registry) LoadFeed(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read rule feed: %w", err)
	}

	var feed feedFile
	if err := yaml.Unmarshal(data, &feed); err != nil {
		return fmt.Errorf("failed to parse rule feed: %w", err)
	}

	r.Refresh(feed.Rules)
	return nil
}
