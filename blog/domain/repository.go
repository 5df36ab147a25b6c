package domain

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows and pages a blog listing.
// An empty Status matches every blog.
type ListFilter struct {
	Status Status
	Limit  int
	Offset int
}

type BlogRepository interface {
	// Save inserts or replaces the stored state of b.
	Save(ctx context.Context, b *Blog) error

	// Get returns ErrBlogNotFound when no blog has the given id.
	Get(ctx context.Context, id uuid.UUID) (*Blog, error)

	// List returns blogs ordered by most recently saved first.
	List(ctx context.Context, filter ListFilter) ([]*Blog, error)

	Count(ctx context.Context, status Status) (int, error)

	// Delete returns ErrBlogNotFound when no blog has the given id.
	Delete(ctx context.Context, id uuid.UUID) error
}
