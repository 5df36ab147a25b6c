package application

import (
	"context"
	"fmt"
	"time"

	"github.com/dfryer1193/blogcontext/blog/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// TxRunner runs fn inside a unit of work. Repository calls made with the
// context passed to fn take part in it.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type CreateBlogCommand struct {
	Title    string
	Body     string
	AuthorID uuid.UUID
}

type SaveDraftCommand struct {
	Title string
	Body  string
}

type ListBlogsQuery struct {
	Status domain.Status
	Limit  int
	Offset int
}

type Page struct {
	Items  []*domain.Blog
	Total  int
	Limit  int
	Offset int
}

// PublishedView is the reader-facing form of a published blog
type PublishedView struct {
	BlogID      uuid.UUID
	AuthorID    uuid.UUID
	Title       string
	HTML        string
	Snippet     string
	PublishedAt time.Time
}

// BlogService is the application boundary for blogs. It is the only
// component that changes a blog, always through its domain.Editor and
// always inside a transaction.
type BlogService struct {
	repo     domain.BlogRepository
	tx       TxRunner
	editor   *domain.Editor
	markdown MarkdownRenderer
}

func NewBlogService(repo domain.BlogRepository, tx TxRunner, editor *domain.Editor, markdown MarkdownRenderer) *BlogService {
	return &BlogService{
		repo:     repo,
		tx:       tx,
		editor:   editor,
		markdown: markdown,
	}
}

// CreateBlog stores a new draft
func (s *BlogService) CreateBlog(ctx context.Context, cmd CreateBlogCommand) (*domain.Blog, error) {
	blog, err := s.editor.Create(cmd.Title, cmd.Body, cmd.AuthorID)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		return s.repo.Save(txCtx, blog)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create blog: %w", err)
	}

	log.Info().
		Str("blogID", blog.ID().String()).
		Str("authorID", blog.AuthorID().String()).
		Msg("Created blog")

	return blog, nil
}

// SaveDraft replaces the draft content of a blog
func (s *BlogService) SaveDraft(ctx context.Context, id uuid.UUID, cmd SaveDraftCommand) (*domain.Blog, error) {
	blog, err := s.mutate(ctx, id, func(b *domain.Blog) error {
		return s.editor.SaveDraft(b, cmd.Title, cmd.Body)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("blogID", id.String()).Msg("Saved blog draft")

	return blog, nil
}

// PublishBlog publishes the current draft of a blog
func (s *BlogService) PublishBlog(ctx context.Context, id uuid.UUID) (*domain.Blog, error) {
	blog, err := s.mutate(ctx, id, s.editor.Publish)
	if err != nil {
		return nil, err
	}

	log.Info().Str("blogID", id.String()).Msg("Published blog")

	return blog, nil
}

// mutate loads a blog, applies change and stores the result in one transaction
func (s *BlogService) mutate(ctx context.Context, id uuid.UUID, change func(*domain.Blog) error) (*domain.Blog, error) {
	var blog *domain.Blog

	err := s.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		b, err := s.repo.Get(txCtx, id)
		if err != nil {
			return err
		}

		if err := change(b); err != nil {
			return err
		}

		if err := s.repo.Save(txCtx, b); err != nil {
			return err
		}

		blog = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return blog, nil
}

func (s *BlogService) GetBlog(ctx context.Context, id uuid.UUID) (*domain.Blog, error) {
	return s.repo.Get(ctx, id)
}

// ListBlogs pages through blogs, most recently saved first
func (s *BlogService) ListBlogs(ctx context.Context, q ListBlogsQuery) (*Page, error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidBlog, q.Status)
	}

	limit, offset := q.Limit, q.Offset
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	page := &Page{Limit: limit, Offset: offset}

	err := s.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		items, err := s.repo.List(txCtx, domain.ListFilter{Status: q.Status, Limit: limit, Offset: offset})
		if err != nil {
			return err
		}

		total, err := s.repo.Count(txCtx, q.Status)
		if err != nil {
			return err
		}

		page.Items = items
		page.Total = total
		return nil
	})
	if err != nil {
		return nil, err
	}

	return page, nil
}

func (s *BlogService) DeleteBlog(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Str("blogID", id.String()).Msg("Deleted blog")

	return nil
}

// GetPublished renders the published snapshot of a blog. Blogs that were
// never published report ErrBlogNotFound.
func (s *BlogService) GetPublished(ctx context.Context, id uuid.UUID) (*PublishedView, error) {
	blog, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	published, ok := blog.Published()
	if !ok {
		return nil, fmt.Errorf("%w: %s has not been published", domain.ErrBlogNotFound, id)
	}

	rendered, err := s.markdown.Render(published.Body())
	if err != nil {
		log.Error().Err(err).Str("blogID", id.String()).Msg("Failed to render published blog")
		return nil, err
	}

	return &PublishedView{
		BlogID:      blog.ID(),
		AuthorID:    blog.AuthorID(),
		Title:       published.Title(),
		HTML:        rendered.HTML,
		Snippet:     rendered.Snippet,
		PublishedAt: published.PublishedAt(),
	}, nil
}
