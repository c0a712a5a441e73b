package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/calc"
)

// settings are the options read from a settings file. Flags override them.
type settings struct {
	AngleUnit calc.AngleUnit `yaml:"angle_unit"`
	MaxDepth  int            `yaml:"max_depth"`
	// Fix is the number of decimal places for floats, or -1 for the shortest
	// representation.
	Fix   int  `yaml:"fix"`
	Debug bool `yaml:"debug"`
}

func defaultSettings() settings {
	return settings{Fix: -1}
}

// loadSettings reads a YAML settings file. Keys that are not settings are
// errors, so typos don't go unnoticed. An empty file gives the defaults.
func loadSettings(name string) (settings, error) {
	s := defaultSettings()
	f, err := os.Open(name)
	if err != nil {
		return s, fmt.Errorf("couldn't open settings: %w", err)
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return s, fmt.Errorf("couldn't read settings from %s: %w", name, err)
	}
	return s, nil
}

func (s settings) validate() error {
	if s.Fix < -1 || s.Fix > calc.MaxPlaces {
		return fmt.Errorf("decimal places (%d) must be between 0 and %d", s.Fix, calc.MaxPlaces)
	}
	if s.MaxDepth < 0 {
		return fmt.Errorf("maximum call depth (%d) must not be negative", s.MaxDepth)
	}
	return nil
}

func (s settings) config() calc.Config {
	return calc.Config{AngleUnit: s.AngleUnit, MaxDepth: s.MaxDepth}
}
