package domain

import (
	"time"

	"github.com/google/uuid"
)

// Editor is the only way to change a Blog after it has been created.
// It stamps every change with the time reported by its clock.
type Editor struct {
	now func() time.Time
}

// NewEditor returns an Editor that reads the time from now.
// A nil clock falls back to time.Now.
func NewEditor(now func() time.Time) *Editor {
	if now == nil {
		now = time.Now
	}
	return &Editor{now: now}
}

// Create starts a new draft.
func (e *Editor) Create(title, body string, authorID uuid.UUID) (*Blog, error) {
	return NewBlog(title, body, authorID, e.now())
}

// SaveDraft replaces the draft content of b. The published snapshot and
// status are left alone.
func (e *Editor) SaveDraft(b *Blog, title, body string) error {
	return b.saveDraft(title, body, e.now())
}

// Publish snapshots the current draft of b and marks it published.
func (e *Editor) Publish(b *Blog) error {
	return b.publish(e.now())
}
