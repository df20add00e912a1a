// Package fault holds the error kinds shared by the configurator. A
// ConfigError means the input document is malformed, an ExternalFactError
// means a runtime fact could not be obtained from the node or the
// filesystem, and an IOError wraps a plain read or write failure. None of
// them are retried; callers abort the current step.
package fault

import (
	"errors"
	"fmt"
)

// ConfigError reports a malformed or contradictory configuration value.
type ConfigError struct {
	// Variant is the backend variant being resolved, if any.
	Variant string

	// Field is the offending configuration key.
	Field string

	Err error
}

func (e *ConfigError) Error() string {
	if e.Variant != "" {
		return fmt.Sprintf("config: %s.%s: %v", e.Variant, e.Field, e.Err)
	}
	return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ExternalFactError reports that a fact required to publish the status
// document could not be obtained or did not parse.
type ExternalFactError struct {
	Fact string
	Err  error
}

func (e *ExternalFactError) Error() string {
	return fmt.Sprintf("fact %s: %v", e.Fact, e.Err)
}

func (e *ExternalFactError) Unwrap() error {
	return e.Err
}

// IOError wraps an underlying filesystem failure.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ErrMissing is wrapped when a required value is empty.
var ErrMissing = errors.New("missing value")

func Config(variant, field string, err error) error {
	return &ConfigError{Variant: variant, Field: field, Err: err}
}

func Fact(fact string, err error) error {
	return &ExternalFactError{Fact: fact, Err: err}
}

func IO(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}

// IsConfig reports whether err is or wraps a ConfigError.
func IsConfig(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

// IsFact reports whether err is or wraps an ExternalFactError.
func IsFact(err error) bool {
	var target *ExternalFactError
	return errors.As(err, &target)
}

// IsIO reports whether err is or wraps an IOError.
func IsIO(err error) bool {
	var target *IOError
	return errors.As(err, &target)
}
