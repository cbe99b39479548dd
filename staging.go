package pubsite

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// staging is a sibling directory that receives a build's output before it
// replaces the live output directory.
type staging struct {
	dir    string
	output string
}

func beginStaging(output string) (*staging, error) {
	output = filepath.Clean(output)
	dir := output + "_stage"
	if err := os.RemoveAll(dir); err != nil {
		return nil, &OutputError{Path: dir, Err: err}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &OutputError{Path: dir, Err: err}
	}
	return &staging{dir: dir, output: output}, nil
}

// promote swaps the staging directory into place. The previous output is
// moved to <output>.prev first and removed once the swap succeeded.
func (s *staging) promote(logger *slog.Logger) error {
	prev := s.output + ".prev"
	if err := os.RemoveAll(prev); err != nil {
		return &OutputError{Path: prev, Err: err}
	}

	hadOutput := true
	if err := os.Rename(s.output, prev); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return &OutputError{Path: s.output, Err: fmt.Errorf("back up previous output: %w", err)}
		}
		hadOutput = false
	}
	if err := os.Rename(s.dir, s.output); err != nil {
		if hadOutput {
			_ = os.Rename(prev, s.output)
		}
		return &OutputError{Path: s.output, Err: fmt.Errorf("promote staging: %w", err)}
	}
	s.dir = ""

	if hadOutput {
		if err := os.RemoveAll(prev); err != nil {
			logger.Warn("Failed to remove previous output", "path", prev, "error", err)
		}
	}
	logger.Debug("Promoted staging directory", "output", s.output)
	return nil
}

// abort removes the staging directory unless it was promoted.
func (s *staging) abort(logger *slog.Logger) {
	if s.dir == "" {
		return
	}
	dir := s.dir
	s.dir = ""
	if err := os.RemoveAll(dir); err != nil {
		logger.Warn("Failed to remove staging directory", "staging", dir, "error", err)
	}
}
