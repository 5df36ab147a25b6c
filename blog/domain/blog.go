package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a blog.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusPublished Status = "Published"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// PublishedBlog is the content of a blog captured at the moment it was published.
// It is a value type; a new one is created on every publish.
type PublishedBlog struct {
	title       string
	body        string
	publishedAt time.Time
}

// NewPublishedBlog builds a snapshot from stored values.
func NewPublishedBlog(title, body string, publishedAt time.Time) PublishedBlog {
	return PublishedBlog{
		title:       title,
		body:        body,
		publishedAt: publishedAt,
	}
}

func (p PublishedBlog) Title() string {
	return p.title
}

func (p PublishedBlog) Body() string {
	return p.body
}

func (p PublishedBlog) PublishedAt() time.Time {
	return p.publishedAt
}

// Blog is the aggregate root for a single blog post.
// Blogs are written as drafts and become visible once published. Editing a
// published blog changes the draft only; the published snapshot keeps the
// content that readers see until the blog is published again.
type Blog struct {
	id        uuid.UUID
	title     string
	body      string
	authorID  uuid.UUID
	status    Status
	createdAt time.Time
	savedAt   time.Time
	published *PublishedBlog
}

// BlogRecord carries the stored fields of a blog.
type BlogRecord struct {
	ID        uuid.UUID
	Title     string
	Body      string
	AuthorID  uuid.UUID
	Status    Status
	CreatedAt time.Time
	SavedAt   time.Time
	Published *PublishedBlog
}

// NewBlog creates a draft blog. The title must contain non-whitespace
// characters and the author must be set.
func NewBlog(title, body string, authorID uuid.UUID, now time.Time) (*Blog, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateAuthor(authorID); err != nil {
		return nil, err
	}

	return &Blog{
		id:        uuid.New(),
		title:     title,
		body:      body,
		authorID:  authorID,
		status:    StatusDraft,
		createdAt: now,
		savedAt:   now,
	}, nil
}

// RehydrateBlog rebuilds a blog from storage without validating it.
// Use NewBlog for anything that did not come out of a repository.
func RehydrateBlog(r BlogRecord) *Blog {
	b := &Blog{
		id:        r.ID,
		title:     r.Title,
		body:      r.Body,
		authorID:  r.AuthorID,
		status:    r.Status,
		createdAt: r.CreatedAt,
		savedAt:   r.SavedAt,
	}
	if r.Published != nil {
		p := *r.Published
		b.published = &p
	}
	return b
}

func (b *Blog) ID() uuid.UUID {
	return b.id
}

func (b *Blog) Title() string {
	return b.title
}

func (b *Blog) Body() string {
	return b.body
}

func (b *Blog) AuthorID() uuid.UUID {
	return b.authorID
}

func (b *Blog) Status() Status {
	return b.status
}

func (b *Blog) CreatedAt() time.Time {
	return b.createdAt
}

func (b *Blog) SavedAt() time.Time {
	return b.savedAt
}

// Published returns a copy of the last published snapshot, if any.
func (b *Blog) Published() (PublishedBlog, bool) {
	if b.published == nil {
		return PublishedBlog{}, false
	}
	return *b.published, true
}

// IsPublished reports whether the blog has been published at least once.
func (b *Blog) IsPublished() bool {
	return b.published != nil
}

// Record returns the stored fields of the blog.
func (b *Blog) Record() BlogRecord {
	r := BlogRecord{
		ID:        b.id,
		Title:     b.title,
		Body:      b.body,
		AuthorID:  b.authorID,
		Status:    b.status,
		CreatedAt: b.createdAt,
		SavedAt:   b.savedAt,
	}
	if b.published != nil {
		p := *b.published
		r.Published = &p
	}
	return r
}

func (b *Blog) saveDraft(title, body string, now time.Time) error {
	if err := validateTitle(title); err != nil {
		return err
	}

	b.title = title
	b.body = body
	b.savedAt = now
	return nil
}

func (b *Blog) publish(now time.Time) error {
	if err := b.validateNeedToPublish(); err != nil {
		return err
	}

	b.published = &PublishedBlog{
		title:       b.title,
		body:        b.body,
		publishedAt: now,
	}
	b.status = StatusPublished
	return nil
}

func (b *Blog) validateNeedToPublish() error {
	if b.status != StatusPublished || b.published == nil {
		return nil
	}

	if b.title == b.published.title && b.body == b.published.body {
		return ErrNoNeedToPublish
	}
	return nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return newValidationError("title", "the title cannot be null or no content")
	}
	return nil
}

func validateAuthor(authorID uuid.UUID) error {
	if authorID == uuid.Nil {
		return newValidationError("author", "the author cannot be null")
	}
	return nil
}
