// Package sqlerr holds the error taxonomy shared by the compiler and the adapters.
package sqlerr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery marks a builder configuration that cannot be compiled.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrNoExecutor is returned when a builder without an executor is executed.
	ErrNoExecutor = errors.New("builder has no executor")
)

// ParameterCountMismatchError reports a template whose placeholder count
// disagrees with the number of bound values.
type ParameterCountMismatchError struct {
	SQL          string
	Placeholders int
	Params       int
}

func (e *ParameterCountMismatchError) Error() string {
	return fmt.Sprintf("placeholder count %d does not match parameter count %d in %q",
		e.Placeholders, e.Params, e.SQL)
}

// UnknownParameterError reports a named placeholder without a bound value.
type UnknownParameterError struct {
	SQL  string
	Name string
}

func (e *UnknownParameterError) Error() string {
	return fmt.Sprintf("no value bound for named parameter :%s in %q", e.Name, e.SQL)
}

// DriverError wraps a failure reported by the database engine.
// Message is the driver's native text, Code its native error code if any.
type DriverError struct {
	SQL     string
	Message string
	Code    string
	Err     error
}

func (e *DriverError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("driver error [%s]: %s (query: %s)", e.Code, e.Message, e.SQL)
	}
	return fmt.Sprintf("driver error: %s (query: %s)", e.Message, e.SQL)
}

func (e *DriverError) Unwrap() error { return e.Err }

// UnsupportedDialectFeatureError is raised at build time when a builder
// operation has no translation in the active dialect.
type UnsupportedDialectFeatureError struct {
	Dialect string
	Feature string
}

func (e *UnsupportedDialectFeatureError) Error() string {
	return fmt.Sprintf("%s dialect does not support %s", e.Dialect, e.Feature)
}

// Unsupported is shorthand for constructing an UnsupportedDialectFeatureError.
func Unsupported(dialect, feature string) error {
	return &UnsupportedDialectFeatureError{Dialect: dialect, Feature: feature}
}

// Driver builds a DriverError from err unless err already is one.
func Driver(sql string, err error) error {
	if err == nil {
		return nil
	}
	var de *DriverError
	if errors.As(err, &de) {
		if de.SQL == "" {
			de.SQL = sql
		}
		return de
	}
	return &DriverError{SQL: sql, Message: err.Error(), Err: err}
}
