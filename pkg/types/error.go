package types

import "fmt"

// ErrorKind classifies the outcome of a scanning operation.
type ErrorKind int

const (
	Good                       ErrorKind = iota // No error
	EndOfRange                                  // Input exhausted; not fatal by itself
	InvalidScannedValue                         // Input did not form a value of the requested type
	ValueOutOfRange                             // Overflow or underflow, distinguished in the message
	InvalidEncoding                             // A unit could not be decoded to a code point
	InvalidOperation                            // Request not supported by the input or target
	UnrecoverableSourceError                    // Rollback impossible, source unusable
	UnrecoverableInternalError                  // Engine invariant broken
	FeatureUnavailable                          // Host lacks the mechanism the operation needs
)

var kindNames = [...]string{
	Good:                       "good",
	EndOfRange:                 "end_of_range",
	InvalidScannedValue:        "invalid_scanned_value",
	ValueOutOfRange:            "value_out_of_range",
	InvalidEncoding:            "invalid_encoding",
	InvalidOperation:           "invalid_operation",
	UnrecoverableSourceError:   "unrecoverable_source_error",
	UnrecoverableInternalError: "unrecoverable_internal_error",
	FeatureUnavailable:         "feature_unavailable",
}

// String returns the snake_case name of the kind
func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
	return kindNames[k]
}

// Error is the error value carried by every scan result. The zero value is
// the "no error" state and compares equal to Error{}.
type Error struct {
	Kind    ErrorKind
	Message string
}

// Sentinel values for errors.Is; matching is by kind only.
var (
	ErrEndOfRange                 = Error{Kind: EndOfRange}
	ErrInvalidScannedValue        = Error{Kind: InvalidScannedValue}
	ErrValueOutOfRange            = Error{Kind: ValueOutOfRange}
	ErrInvalidEncoding            = Error{Kind: InvalidEncoding}
	ErrInvalidOperation           = Error{Kind: InvalidOperation}
	ErrUnrecoverableSourceError   = Error{Kind: UnrecoverableSourceError}
	ErrUnrecoverableInternalError = Error{Kind: UnrecoverableInternalError}
	ErrFeatureUnavailable         = Error{Kind: FeatureUnavailable}
)

// NewError creates an Error of the given kind
func NewError(kind ErrorKind, message string) Error {
	return Error{Kind: kind, Message: message}
}

// Errorf creates an Error with a formatted message
func Errorf(kind ErrorKind, format string, args ...interface{}) Error {
	return Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// OK reports whether e is the "no error" state
func (e Error) OK() bool {
	return e.Kind == Good
}

func (e Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports whether target is an Error of the same kind
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	return ok && t.Kind == e.Kind
}

// IsRecoverable reports whether the source can still be scanned after e
func (e Error) IsRecoverable() bool {
	return e.Kind != UnrecoverableSourceError && e.Kind != UnrecoverableInternalError
}

// Err returns nil for the "no error" state and e otherwise, so the value can
// be handed to code that expects a plain error.
func (e Error) Err() error {
	if e.OK() {
		return nil
	}
	return e
}

// AsError converts err into an Error. Plain errors become unrecoverable
// internal errors.
func AsError(err error) Error {
	if err == nil {
		return Error{}
	}
	if e, ok := err.(Error); ok {
		return e
	}
	return Error{Kind: UnrecoverableInternalError, Message: err.Error()}
}
