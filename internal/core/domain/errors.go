package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a place id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrSlotEmpty is returned by slot stores when a key has never been written.
	ErrSlotEmpty = errors.New("slot empty")
	// ErrCorruptData marks a stored blob that cannot be decoded.
	ErrCorruptData = errors.New("corrupt data")
	// ErrInvalidInput marks user input that cannot become a place.
	ErrInvalidInput = errors.New("invalid input")
)

// CorruptDataError reports a stored slot whose contents are not well formed.
type CorruptDataError struct {
	Key string
	Err error
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("corrupt data in slot %q: %v", e.Key, e.Err)
}

func (e *CorruptDataError) Unwrap() error { return e.Err }

func (e *CorruptDataError) Is(target error) bool { return target == ErrCorruptData }

// InvalidInputError reports a user-entered field that failed validation.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }
