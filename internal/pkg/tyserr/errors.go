package tyserr

import (
	"fmt"
)

const (
	CodeNotFound           = "NOT_FOUND"
	CodeStoreUnavailable   = "STORE_UNAVAILABLE"
	CodeNotInitialized     = "NOT_INITIALIZED"
	CodeAlreadyInitialized = "ALREADY_INITIALIZED"
)

var (
	// ErrNotFound is returned when a report id has no matching row in the queue.
	ErrNotFound = New(CodeNotFound, "no report found with given id")

	// ErrStoreUnavailable is returned when the backing store cannot be opened or written.
	ErrStoreUnavailable = New(CodeStoreUnavailable, "exceptions queue store is unavailable")

	// ErrNotInitialized is returned when the library is used before Initialize.
	ErrNotInitialized = New(CodeNotInitialized, "the library has not been initialized")

	// ErrAlreadyInitialized is returned on a second call to Initialize.
	ErrAlreadyInitialized = New(CodeAlreadyInitialized, "the library has already been initialized")
)

type TysError struct {
	ErrorCode string
	Message   string
}

func New(errorCode string, message string) *TysError {
	return &TysError{
		ErrorCode: errorCode,
		Message:   message,
	}
}

func (e TysError) Msg(format string, parts ...interface{}) *TysError {
	e.Message = fmt.Sprintf(format, parts...)
	return &e
}

func (e *TysError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}

// Is makes errors.Is match any two instances carrying the same code, so a
// wrapped ErrStoreUnavailable with a customized message still matches the
// sentinel.
func (e *TysError) Is(target error) bool {
	t, ok := target.(*TysError)
	if !ok {
		return false
	}
	return e.ErrorCode == t.ErrorCode
}
