package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the operation is not allowed in the record's current state.
var ErrConflict = errors.New("state conflict")

// ErrInsufficientBalance indicates an outgoing mutation would overdraw an account that disallows it.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrDependencyFailure marks a best-effort step that failed after the core write committed.
var ErrDependencyFailure = errors.New("dependency failure")

// ErrTimeout indicates the operation deadline expired.
var ErrTimeout = errors.New("operation timed out")

// Kind classifies an AppError for callers and transport mapping.
type Kind string

const (
	KindValidation          Kind = "VALIDATION"
	KindStateConflict       Kind = "STATE_CONFLICT"
	KindNotFound            Kind = "NOT_FOUND"
	KindInsufficientBalance Kind = "INSUFFICIENT_BALANCE"
	KindDependencyFailure   Kind = "DEPENDENCY_FAILURE"
	KindDuplicate           Kind = "DUPLICATE"
	KindTimeout             Kind = "TIMEOUT"
	KindInternal            Kind = "INTERNAL"
)

var kindSentinels = map[Kind]error{
	KindValidation:          ErrValidation,
	KindStateConflict:       ErrConflict,
	KindNotFound:            ErrNotFound,
	KindInsufficientBalance: ErrInsufficientBalance,
	KindDependencyFailure:   ErrDependencyFailure,
	KindDuplicate:           ErrDuplicate,
	KindTimeout:             ErrTimeout,
}

// AppError carries a classified, user-safe message and the offending record id.
type AppError struct {
	Kind     Kind
	Message  string
	RecordID string
	Err      error
}

func (e *AppError) Error() string {
	msg := e.Message
	if e.RecordID != "" {
		msg = fmt.Sprintf("%s (record %s)", msg, e.RecordID)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *AppError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNotFound) and friends match on the error kind.
func (e *AppError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// New builds an AppError of the given kind.
func New(kind Kind, message, recordID string) *AppError {
	return &AppError{Kind: kind, Message: message, RecordID: recordID}
}

// Wrap builds an AppError of the given kind around a cause.
func Wrap(kind Kind, message, recordID string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, RecordID: recordID, Err: err}
}

func NewValidation(message, recordID string) *AppError {
	return New(KindValidation, message, recordID)
}

func NewStateConflict(message, recordID string) *AppError {
	return New(KindStateConflict, message, recordID)
}

func NewNotFound(message, recordID string) *AppError {
	return New(KindNotFound, message, recordID)
}

func NewInsufficientBalance(message, recordID string) *AppError {
	return New(KindInsufficientBalance, message, recordID)
}

func NewDependencyFailure(message, recordID string, err error) *AppError {
	return Wrap(KindDependencyFailure, message, recordID, err)
}

// NewAppError wraps an unexpected infrastructure error.
func NewAppError(message string, err error) *AppError {
	return Wrap(KindInternal, message, "", err)
}

// KindOf reports the kind of err, falling back to TIMEOUT for expired contexts and INTERNAL otherwise.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTimeout) {
		return KindTimeout
	}
	for kind, sentinel := range kindSentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return KindInternal
}

// FromContext converts an expired or cancelled context into a timeout error.
func FromContext(ctx context.Context, operation string) error {
	if err := ctx.Err(); err != nil {
		return Wrap(KindTimeout, operation+" did not complete before the deadline", "", err)
	}
	return nil
}
