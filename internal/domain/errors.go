package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the store, the use-case and the transport.
// Callers classify with errors.Is against the sentinels below.
var (
	ErrNotFound         = errors.New("task not found")
	ErrValidation       = errors.New("validation error")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrRepository       = errors.New("repository error")

	ErrEmptyDescription = fmt.Errorf("%w: description cannot be empty", ErrValidation)
)

type NotFoundError struct {
	ID uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task not found with id %d", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// DescriptionTooLongError is returned when a description exceeds Max characters.
type DescriptionTooLongError struct {
	Max int
}

func (e *DescriptionTooLongError) Error() string {
	return fmt.Sprintf("%s: description cannot exceed %d characters", ErrValidation, e.Max)
}

func (e *DescriptionTooLongError) Is(target error) bool { return target == ErrValidation }

type InvalidOperationError struct {
	Reason string
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidOperation, e.Reason)
}

func (e *InvalidOperationError) Is(target error) bool { return target == ErrInvalidOperation }

// RepositoryError is an infrastructure failure inside a store (lock
// acquisition, cancelled context). It is never a domain outcome.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrRepository, e.Op, e.Err)
}

func (e *RepositoryError) Is(target error) bool { return target == ErrRepository }

func (e *RepositoryError) Unwrap() error { return e.Err }
