// Package config loads optional YAML tuning overrides for a decode
// run, layered under whatever the CLI was given explicitly.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kd9xyz/ft8decode"
)

// File is the on-disk YAML shape for ft8decode's configuration file.
// Pointer fields distinguish "not set" from the zero value so File
// values only ever override what they explicitly mention.
type File struct {
	MaxPasses     *int     `yaml:"max_passes"`
	SyncMin       *float64 `yaml:"sync_min"`
	MaxCandidates *int     `yaml:"max_candidates"`
}

// Load reads a YAML config file. An empty path is not an error: Load
// returns a zero File, leaving every setting at its default.
func Load(path string) (File, error) {
	if path == "" {
		return File{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return f, nil
}

// Overrides holds CLI flag values; a nil field means the flag wasn't
// set and shouldn't override the config file.
type Overrides struct {
	MaxPasses     *int
	SyncMin       *float64
	MaxCandidates *int
}

// Resolve layers library defaults, then the config file, then explicit
// CLI overrides, in that precedence order.
func Resolve(file File, cli Overrides) ft8.Options {
	opts := ft8.DefaultOptions()

	if file.MaxPasses != nil {
		opts.MaxPasses = *file.MaxPasses
	}

	if file.SyncMin != nil {
		opts.SyncMin = *file.SyncMin
	}

	if file.MaxCandidates != nil {
		opts.MaxCandidates = *file.MaxCandidates
	}

	if cli.MaxPasses != nil {
		opts.MaxPasses = *cli.MaxPasses
	}

	if cli.SyncMin != nil {
		opts.SyncMin = *cli.SyncMin
	}

	if cli.MaxCandidates != nil {
		opts.MaxCandidates = *cli.MaxCandidates
	}

	return opts
}
