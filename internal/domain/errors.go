package domain

import "errors"

var (
	// ErrNotFound signals an unknown job ID or a missing result set.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRequest signals a submission rejected at the boundary;
	// no job is created for it.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrAlreadyExists signals a second write for a write-once record.
	ErrAlreadyExists = errors.New("already exists")

	// ErrEmptyQuestion signals a blank chat question after trimming.
	ErrEmptyQuestion = errors.New("empty question")

	// ErrNotCompleted signals an operation that requires a completed job.
	ErrNotCompleted = errors.New("analysis not completed")
)
