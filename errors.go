package inkwell

import (
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Kind classifies a failure so that callers can branch without parsing messages.
type Kind int

const (
	KindInternal Kind = iota
	KindUnavailable
	KindNotFound
	KindInvalidID
	KindValidation
	KindUpload
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindNotFound:
		return "not_found"
	case KindInvalidID:
		return "invalid_id"
	case KindValidation:
		return "validation"
	case KindUpload:
		return "upload"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is the error type returned by every repository operation.
// Message is the human readable text shown to end users; Err, when set, is the
// underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) holds for
// every not-found error regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

var (
	// ErrNotFound matches every KindNotFound error.
	ErrNotFound = &Error{Kind: KindNotFound}

	// ErrInvalidID matches every KindInvalidID error.
	ErrInvalidID = &Error{Kind: KindInvalidID}

	// ErrUnavailable matches every KindUnavailable error.
	ErrUnavailable = &Error{Kind: KindUnavailable}

	// ErrConflict matches every KindConflict error.
	ErrConflict = &Error{Kind: KindConflict}

	// ErrValidation matches every KindValidation error.
	ErrValidation = &Error{Kind: KindValidation}
)

// NewError builds an *Error of the given kind.
func NewError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// NotFound reports a missing document with the given message.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Unavailable reports that no database handle is reachable for collection.
func Unavailable(collection string) *Error {
	return &Error{Kind: KindUnavailable, Message: fmt.Sprintf("Failed to connect to %s collection", collection)}
}

// KindOf returns the Kind carried by err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return KindValidation
	}
	return KindInternal
}

// Classify converts an arbitrary error into an *Error. Already classified errors
// are returned unchanged; duplicate key errors become KindConflict; everything else
// is KindInternal carrying fallback as its message when the cause has none.
func Classify(err error, fallback string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return &Error{Kind: KindValidation, Message: ve.Error(), Err: err}
	}
	if mongo.IsDuplicateKeyError(err) {
		return &Error{Kind: KindConflict, Message: "A document with the same unique value already exists", Err: err}
	}
	msg := err.Error()
	if msg == "" {
		msg = fallback
	}
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// DriftError indicates a field exists in the database but not in the schema.
type DriftError struct {
	Collection string
	Field      string
	Message    string
}

func (e *DriftError) Error() string {
	return fmt.Sprintf("drift in %s.%s: %s", e.Collection, e.Field, e.Message)
}

// EnforcementError indicates a schema enforcement failure (e.g., missing index).
type EnforcementError struct {
	Collection string
	Message    string
}

func (e *EnforcementError) Error() string {
	return fmt.Sprintf("enforcement error on %s: %s", e.Collection, e.Message)
}

// ValidationError indicates a field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}

// ValidationErrors is a slice of ValidationError that implements error.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}
