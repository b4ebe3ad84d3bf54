package adapter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

// Standard adapter errors
var (
	// ErrOperationNotSupported is returned when an operation is not supported by the database
	ErrOperationNotSupported = errors.New("operation not supported by this database")

	// ErrConnectionClosed is returned when attempting to use a closed connection
	ErrConnectionClosed = errors.New("connection is closed")

	// ErrConnectionFailed is returned when a connection attempt fails
	ErrConnectionFailed = errors.New("connection failed")

	// ErrConfigIncomplete is returned when required profile fields are missing
	ErrConfigIncomplete = errors.New("connection configuration is incomplete")

	// ErrProfileNotFound is returned when no stored profile matches an identifier
	ErrProfileNotFound = errors.New("connection profile not found")

	// ErrTableNotFound is returned when a table/collection is not found
	ErrTableNotFound = errors.New("table not found")

	// ErrAdapterNotFound is returned when an adapter is not registered
	ErrAdapterNotFound = errors.New("adapter not found")

	// ErrInvalidQuery is returned when a query is malformed or rejected by the backend
	ErrInvalidQuery = errors.New("invalid query")

	// ErrTransactionFailed is returned when a transaction fails
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrValidationFailed is returned when an edit batch violates column constraints
	ErrValidationFailed = errors.New("validation failed")
)

// DatabaseError wraps database-specific errors with additional context.
// This provides a consistent error structure across all database types.
type DatabaseError struct {
	DatabaseType dbcapabilities.DatabaseID
	Operation    string
	Cause        error
}

// Error implements the error interface.
func (e *DatabaseError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.DatabaseType, e.Operation, e.Cause)
}

// Unwrap returns the underlying error.
func (e *DatabaseError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error.
func (e *DatabaseError) Is(target error) bool {
	return errors.Is(e.Cause, target)
}

// NewDatabaseError creates a new DatabaseError.
func NewDatabaseError(dbType dbcapabilities.DatabaseID, operation string, cause error) *DatabaseError {
	return &DatabaseError{
		DatabaseType: dbType,
		Operation:    operation,
		Cause:        cause,
	}
}

// UnsupportedOperationError is returned when an operation is not supported.
type UnsupportedOperationError struct {
	DatabaseType dbcapabilities.DatabaseID
	Operation    string
	Reason       string
}

// Error implements the error interface.
func (e *UnsupportedOperationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s does not support %s: %s", e.DatabaseType, e.Operation, e.Reason)
	}
	return fmt.Sprintf("%s does not support %s", e.DatabaseType, e.Operation)
}

// Is checks if the error is ErrOperationNotSupported.
func (e *UnsupportedOperationError) Is(target error) bool {
	return errors.Is(target, ErrOperationNotSupported)
}

// NewUnsupportedOperationError creates a new UnsupportedOperationError.
func NewUnsupportedOperationError(dbType dbcapabilities.DatabaseID, operation string, reason string) *UnsupportedOperationError {
	return &UnsupportedOperationError{
		DatabaseType: dbType,
		Operation:    operation,
		Reason:       reason,
	}
}

// ConnectionError is returned when a connection error occurs.
type ConnectionError struct {
	DatabaseType dbcapabilities.DatabaseID
	Target       string
	Cause        error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s at %s: %v", e.DatabaseType, e.Target, e.Cause)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// Is checks if the error is ErrConnectionFailed.
func (e *ConnectionError) Is(target error) bool {
	if errors.Is(target, ErrConnectionFailed) {
		return true
	}
	return errors.Is(e.Cause, target)
}

// NewConnectionError creates a new ConnectionError.
func NewConnectionError(dbType dbcapabilities.DatabaseID, target string, cause error) *ConnectionError {
	return &ConnectionError{
		DatabaseType: dbType,
		Target:       target,
		Cause:        cause,
	}
}

// ConfigurationError is returned when required connection fields are missing
// or invalid. It is surfaced before any I/O is attempted.
type ConfigurationError struct {
	DatabaseType dbcapabilities.DatabaseID
	Field        string
	Reason       string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid configuration for %s: field '%s': %s", e.DatabaseType, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid configuration for %s: %s", e.DatabaseType, e.Reason)
}

// Is checks if the error is ErrConfigIncomplete.
func (e *ConfigurationError) Is(target error) bool {
	return errors.Is(target, ErrConfigIncomplete)
}

// NewConfigurationError creates a new ConfigurationError.
func NewConfigurationError(dbType dbcapabilities.DatabaseID, field string, reason string) *ConfigurationError {
	return &ConfigurationError{
		DatabaseType: dbType,
		Field:        field,
		Reason:       reason,
	}
}

// QueryError is returned when a command is malformed or the backend rejects
// it. The backend's original message is preserved verbatim.
type QueryError struct {
	DatabaseType dbcapabilities.DatabaseID
	Query        string
	Cause        error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed on %s: %v", e.DatabaseType, e.Cause)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Cause
}

// Is checks if the error is ErrInvalidQuery.
func (e *QueryError) Is(target error) bool {
	if errors.Is(target, ErrInvalidQuery) {
		return true
	}
	return errors.Is(e.Cause, target)
}

// NewQueryError creates a new QueryError.
func NewQueryError(dbType dbcapabilities.DatabaseID, query string, cause error) *QueryError {
	return &QueryError{
		DatabaseType: dbType,
		Query:        query,
		Cause:        cause,
	}
}

// ValidationError carries every constraint violation found in an edit batch.
// A single violation blocks the whole batch; nothing is written.
type ValidationError struct {
	Violations []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Violations, "; "))
}

// Is checks if the error is ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return errors.Is(target, ErrValidationFailed)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(violations []string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// WrapError wraps an error with database context.
// If the error is already a DatabaseError, it returns it as-is.
func WrapError(dbType dbcapabilities.DatabaseID, operation string, err error) error {
	if err == nil {
		return nil
	}

	// Don't double-wrap
	var dbErr *DatabaseError
	if errors.As(err, &dbErr) {
		return err
	}

	return NewDatabaseError(dbType, operation, err)
}

// IsUnsupported checks if an error indicates an unsupported operation.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrOperationNotSupported)
}

// IsConnectionError checks if an error is a connection error.
func IsConnectionError(err error) bool {
	return errors.Is(err, ErrConnectionFailed)
}

// IsConfigurationError checks if an error indicates incomplete configuration.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfigIncomplete)
}

// IsValidationError checks if an error is an edit-batch validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidationFailed)
}
