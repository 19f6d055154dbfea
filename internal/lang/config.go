package lang

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML override file for the language tables. It can
// map extra extensions onto known languages (or onto unknown ones, which then
// degrade to the fallback fact) and widen a language's branching set.
//
//	extensions:
//	  ".mjs": javascript
//	branching:
//	  go: [go_statement]
type Config struct {
	Extensions map[string]string   `yaml:"extensions"`
	Branching  map[string][]string `yaml:"branching"`
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Options converts the config into Registry options.
func (c *Config) Options() []Option {
	var opts []Option
	if len(c.Extensions) > 0 {
		opts = append(opts, WithExtensions(c.Extensions))
	}
	for language, kinds := range c.Branching {
		opts = append(opts, WithBranching(language, kinds...))
	}
	return opts
}
