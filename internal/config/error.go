package config

import "strings"

// ConfigError collects every problem found while loading a config, so they
// can be reported together.
type ConfigError struct {
	Path    string
	Missing []string // unresolved environment references
	Errors  []string // validation failures, "field: reason"
}

func (e *ConfigError) Error() string {
	if !e.HasErrors() {
		return ""
	}

	var b strings.Builder
	if e.Path != "" {
		b.WriteString("config " + e.Path + ":\n")
	}
	if len(e.Missing) > 0 {
		b.WriteString("missing environment variables: " + strings.Join(e.Missing, ", ") + "\n")
	}
	if len(e.Errors) > 0 {
		b.WriteString("validation failed:\n")
		for _, msg := range e.Errors {
			b.WriteString("  - " + msg + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (e *ConfigError) HasErrors() bool {
	return len(e.Missing)+len(e.Errors) > 0
}
