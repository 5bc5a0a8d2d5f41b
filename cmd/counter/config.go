package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/tailored-agentic-units/statestore/devtools"
	"github.com/tailored-agentic-units/statestore/store"
)

// Config holds initialization parameters for the counter demo.
type Config struct {
	Store    store.Config    `json:"store"`
	Devtools devtools.Config `json:"devtools"`
	Initial  int             `json:"initial,omitempty"`
	Step     int             `json:"step,omitempty"`
}

// DefaultConfig returns a Config with defaults for every section.
func DefaultConfig() Config {
	return Config{
		Store:    store.Config{Name: "counter", Observer: "noop"},
		Devtools: devtools.DefaultConfig(),
		Step:     1,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	c.Store.Merge(&source.Store)
	c.Devtools.Merge(&source.Devtools)

	if source.Initial != 0 {
		c.Initial = source.Initial
	}
	if source.Step != 0 {
		c.Step = source.Step
	}
}

// LoadConfig reads a JSON config file, merges it with defaults, and returns
// the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}

// overrides holds flag values that replace config file settings. Only flags
// named in set are applied, so an explicit zero such as -initial 0 still wins.
type overrides struct {
	Name    string
	Initial int
	Addr    string
	set     map[string]bool
}

func (o overrides) apply(cfg *Config) {
	if o.set["name"] {
		cfg.Store.Name = o.Name
	}
	if o.set["initial"] {
		cfg.Initial = o.Initial
	}
	if o.set["addr"] {
		cfg.Devtools.Addr = o.Addr
	}
}

// setFlags returns the names of the flags given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}
