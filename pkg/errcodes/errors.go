package errcodes

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	CodeNotFound          = "not_found"
	CodePrecondition      = "precondition_failed"
	CodeIntegrityConflict = "integrity_conflict"
)

type Error struct {
	Message string
	Code    string
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	te.Message = err.Message
	te.Code = err.Code
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.Message == err.Message &&
		te.Code == err.Code
}

// NotFound returns an error indicating the given resource doesn't exist.
func NotFound(resource string) error {
	return &Error{
		resource + " not found.",
		CodeNotFound,
	}
}

// Precondition returns an error for an operation attempted on an entity that
// is missing something it requires, e.g. an update without an ID.
func Precondition(format string, args ...interface{}) error {
	return &Error{
		fmt.Sprintf(format, args...),
		CodePrecondition,
	}
}

// IntegrityConflict returns an error for an insert rejected by a uniqueness
// or foreign key constraint.
func IntegrityConflict(resource string) error {
	return &Error{
		resource + " already exists.",
		CodeIntegrityConflict,
	}
}

// CodeOf returns the code of the first *Error in err's chain, or "" if there
// isn't one.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

func IsPrecondition(err error) bool {
	return CodeOf(err) == CodePrecondition
}

func IsIntegrityConflict(err error) bool {
	return CodeOf(err) == CodeIntegrityConflict
}
