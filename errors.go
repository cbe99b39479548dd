package pubsite

import "fmt"

// IngestionError reports that content could not be loaded from Source.
type IngestionError struct {
	Source string
	Err    error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("pubsite: load content from %s: %v", e.Source, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }

// OutputError reports a failure writing the output tree. The previous output
// directory is left untouched when it occurs.
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("pubsite: write %s: %v", e.Path, e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }

// ConfigError reports an invalid configuration option.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("pubsite: invalid config %s: %s", e.Field, e.Reason)
}
