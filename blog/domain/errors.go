package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBlog is matched by every ValidationError.
	ErrInvalidBlog = errors.New("invalid blog")

	// ErrNoNeedToPublish is returned when publishing a blog whose content
	// has not changed since it was last published.
	ErrNoNeedToPublish = errors.New("no need to publish")

	// ErrBlogNotFound is returned by repositories when no blog has the requested id.
	ErrBlogNotFound = errors.New("blog not found")
)

// ValidationError describes a rejected field value.
type ValidationError struct {
	Field  string
	Reason string
}

func newValidationError(field, reason string) error {
	return &ValidationError{
		Field:  field,
		Reason: reason,
	}
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidBlog
}

// NewNotFoundError wraps ErrBlogNotFound with the id that was looked up.
func NewNotFoundError(id fmt.Stringer) error {
	return fmt.Errorf("%w: %s", ErrBlogNotFound, id)
}
