package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates a schema, category or endpoint name has no match.
	ErrNotFound = errors.New("not found")

	// ErrConfiguration indicates a malformed descriptor in the catalog data.
	ErrConfiguration = errors.New("configuration error")
)

// Namespace names the independent identity spaces of the catalog.
type Namespace string

const (
	NamespaceSchema   Namespace = "schema"
	NamespaceCategory Namespace = "category"
	NamespaceEndpoint Namespace = "endpoint"
)

// NotFoundError reports a lookup of a name that does not exist.
type NotFoundError struct {
	Namespace Namespace
	Name      string
}

// Error returns a human-readable error message.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Namespace, e.Name)
}

// Is reports whether target matches this error type.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConfigurationError reports a malformed descriptor, such as an array of
// arrays or a reference to a schema that does not exist.
type ConfigurationError struct {
	// Path locates the descriptor, e.g. "schemas.Account.address"
	Path string
	// Message describes the defect
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigurationError) Error() string {
	msg := "configuration error"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func configErr(path, msg string) *ConfigurationError {
	return &ConfigurationError{Path: path, Message: msg}
}
