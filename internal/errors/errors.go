package errors

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// RecordError represents a line of input that did not match the format
type RecordError struct {
	File    string
	Line    int
	Column  int
	Message string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
}

// NewRecordError creates a new RecordError
func NewRecordError(file string, line, column int, message string) *RecordError {
	return &RecordError{
		File:    file,
		Line:    line,
		Column:  column,
		Message: message,
	}
}

// ConnectionError represents PostgreSQL connection failure
type ConnectionError struct {
	Message    string
	Suggestion string
}

func (e *ConnectionError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("failed to connect to PostgreSQL: %s (%s)", e.Message, e.Suggestion)
	}
	return fmt.Sprintf("failed to connect to PostgreSQL: %s", e.Message)
}

// NewConnectionError creates a new ConnectionError
func NewConnectionError(message, suggestion string) *ConnectionError {
	return &ConnectionError{
		Message:    message,
		Suggestion: suggestion,
	}
}

// LoadError represents a failure while copying records into a table
type LoadError struct {
	Table    string
	Message  string
	SQLError *pgconn.PgError // PostgreSQL error details
}

func (e *LoadError) Error() string {
	if e.SQLError != nil {
		return fmt.Sprintf("load into %s failed: [%s] %s", e.Table, e.SQLError.Code, e.SQLError.Message)
	}
	return fmt.Sprintf("load into %s failed: %s", e.Table, e.Message)
}

// NewLoadError creates a new LoadError
func NewLoadError(table, message string, sqlError *pgconn.PgError) *LoadError {
	return &LoadError{
		Table:    table,
		Message:  message,
		SQLError: sqlError,
	}
}
