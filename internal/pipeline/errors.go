package pipeline

import "errors"

var (
	ErrMissingImage     = errors.New("image not found")
	ErrMissingCondition = errors.New("condition description is required")
	// ErrValidation marks a stage output missing a required field.
	ErrValidation = errors.New("invalid stage output")
)
