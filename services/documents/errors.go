package documents

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindNotFound Kind = iota + 1
	KindAlreadyExists
	KindInvalidFile
	KindTextExtraction
	KindDatabase
)

var (
	ErrNotFound       = errors.New("document not found")
	ErrAlreadyExists  = errors.New("document already exists")
	ErrInvalidFile    = errors.New("invalid file")
	ErrTextExtraction = errors.New("text extraction failed")
	ErrDatabase       = errors.New("database error")
)

var sentinels = map[Kind]error{
	KindNotFound:       ErrNotFound,
	KindAlreadyExists:  ErrAlreadyExists,
	KindInvalidFile:    ErrInvalidFile,
	KindTextExtraction: ErrTextExtraction,
	KindDatabase:       ErrDatabase,
}

// Error is returned by every Service operation. errors.Is matches it against
// the sentinel of its Kind.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func newError(kind Kind, reason string, err error) *Error {
	return &Error{Kind: kind, Reason: reason, Err: err}
}

func (e *Error) Error() string {
	message := fmt.Sprintf("%s: %s", sentinels[e.Kind], e.Reason)
	if e.Err != nil {
		message = fmt.Sprintf("%s: %s", message, e.Err)
	}

	return message
}

func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

func (e *Error) Unwrap() error {
	return e.Err
}
