// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedupe

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citetrack/pkg/types"
)

// RunFile is the on-disk representation of a dedupe run: the thresholds
// that produced it, every match result, and the summary. A saved run can
// be reloaded later for review without re-matching.
type RunFile struct {
	Config  types.MatchConfig   `yaml:"config"`
	Results []types.MatchResult `yaml:"results"`
	Summary Summary             `yaml:"summary"`
}

// WriteRunFile saves the run configuration, results, and summary to a
// YAML file.
func WriteRunFile(path string, cfg types.MatchConfig, results []types.MatchResult, summary Summary) error {
	rf := RunFile{
		Config:  cfg,
		Results: results,
		Summary: summary,
	}
	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling run file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadRunFile loads a previously saved run file from disk.
func ReadRunFile(path string) (*RunFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run file: %w", err)
	}
	var rf RunFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing run file: %w", err)
	}
	return &rf, nil
}
