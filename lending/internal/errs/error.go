package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kinds. Handlers map them to status codes with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

var (
	ErrAlreadyReturned = New(ErrConflict, "loan already returned")
	ErrBookUnavailable = New(ErrConflict, "book is not available")
	ErrDuplicate       = New(ErrConflict, "already exists")
	ErrLoanNotActive   = New(ErrConflict, "loan is not active")
	ErrTransition      = New(ErrConflict, "status transition not allowed")

	ErrStorageDisabled = errors.New("file storage is not configured")
)

type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// New returns an error with its own message that matches kind.
func New(kind error, msg string) error {
	return &kindError{msg: msg, kind: kind}
}

func Validation(format string, args ...any) error {
	return New(ErrValidation, fmt.Sprintf(format, args...))
}

type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
