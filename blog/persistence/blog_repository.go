package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dfryer1193/blogcontext/blog/domain"
	"github.com/dfryer1193/blogcontext/shared/db"
	"github.com/google/uuid"
)

var _ domain.BlogRepository = (*SQLiteBlogRepository)(nil)

const defaultListLimit = 10

// SQLiteBlogRepository implements domain.BlogRepository using SQL database (SQLite)
type SQLiteBlogRepository struct {
	db *sql.DB
}

// NewBlogRepository creates a new SQLiteBlogRepository from a standard sql.DB
func NewBlogRepository(db *sql.DB) *SQLiteBlogRepository {
	return &SQLiteBlogRepository{
		db: db,
	}
}

const upsertBlogQuery = `
	INSERT INTO blogs (id, title, body, author_id, status, created_at, saved_at, published_title, published_body, published_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		title = excluded.title,
		body = excluded.body,
		status = excluded.status,
		saved_at = excluded.saved_at,
		published_title = excluded.published_title,
		published_body = excluded.published_body,
		published_at = excluded.published_at
`

// Save upserts the full state of a blog. author_id and created_at are
// written on insert only.
func (r *SQLiteBlogRepository) Save(ctx context.Context, b *domain.Blog) error {
	if b == nil {
		return fmt.Errorf("blog cannot be nil")
	}

	if b.ID() == uuid.Nil {
		return fmt.Errorf("blog ID cannot be empty")
	}

	rec := b.Record()

	var publishedTitle, publishedBody, publishedAt any
	if rec.Published != nil {
		publishedTitle = rec.Published.Title()
		publishedBody = rec.Published.Body()
		publishedAt = rec.Published.PublishedAt().UTC()
	}

	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)
		_, err := executor.ExecContext(txCtx, upsertBlogQuery,
			rec.ID.String(),
			rec.Title,
			rec.Body,
			rec.AuthorID.String(),
			string(rec.Status),
			rec.CreatedAt.UTC(),
			rec.SavedAt.UTC(),
			publishedTitle,
			publishedBody,
			publishedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert blog: %w", err)
		}

		return nil
	})
}

const blogColumns = `id, title, body, author_id, status, created_at, saved_at, published_title, published_body, published_at`

const getBlogQuery = `
	SELECT ` + blogColumns + `
	FROM blogs
	WHERE id = ?
`

// Get retrieves a single blog by ID
func (r *SQLiteBlogRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Blog, error) {
	executor := db.GetExecutor(ctx, r.db)

	var row blogRow
	err := row.scan(executor.QueryRowContext(ctx, getBlogQuery, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blog: %w", err)
	}

	return row.toDomain()
}

const listBlogsQuery = `
	SELECT ` + blogColumns + `
	FROM blogs
	WHERE (? = '' OR status = ?)
	ORDER BY saved_at DESC, id
	LIMIT ? OFFSET ?
`

// List retrieves blogs ordered by saved_at descending
func (r *SQLiteBlogRepository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Blog, error) {
	limit, offset := filter.Limit, filter.Offset
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	status := string(filter.Status)

	executor := db.GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, listBlogsQuery, status, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}
	defer rows.Close()

	blogs := make([]*domain.Blog, 0)
	for rows.Next() {
		var row blogRow
		if err := row.scan(rows); err != nil {
			return nil, fmt.Errorf("failed to scan blog row: %w", err)
		}

		b, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blog rows: %w", err)
	}

	return blogs, nil
}

const countBlogsQuery = `SELECT COUNT(*) FROM blogs WHERE (? = '' OR status = ?)`

// Count returns the number of blogs with the given status, or all blogs when status is empty
func (r *SQLiteBlogRepository) Count(ctx context.Context, status domain.Status) (int, error) {
	var count int
	executor := db.GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, countBlogsQuery, string(status), string(status)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count blogs: %w", err)
	}

	return count, nil
}

const deleteBlogQuery = `DELETE FROM blogs WHERE id = ?`

// Delete removes a blog by ID
func (r *SQLiteBlogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := db.GetExecutor(ctx, r.db)
	res, err := executor.ExecContext(ctx, deleteBlogQuery, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete blog: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read deleted rows: %w", err)
	}
	if n == 0 {
		return domain.NewNotFoundError(id)
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// blogRow is a private struct used to scan database rows
type blogRow struct {
	ID             string         `db:"id"`
	Title          string         `db:"title"`
	Body           string         `db:"body"`
	AuthorID       string         `db:"author_id"`
	Status         string         `db:"status"`
	CreatedAt      time.Time      `db:"created_at"`
	SavedAt        time.Time      `db:"saved_at"`
	PublishedTitle sql.NullString `db:"published_title"`
	PublishedBody  sql.NullString `db:"published_body"`
	PublishedAt    sql.NullTime   `db:"published_at"`
}

func (br *blogRow) scan(s rowScanner) error {
	return s.Scan(
		&br.ID,
		&br.Title,
		&br.Body,
		&br.AuthorID,
		&br.Status,
		&br.CreatedAt,
		&br.SavedAt,
		&br.PublishedTitle,
		&br.PublishedBody,
		&br.PublishedAt,
	)
}

// toDomain rehydrates a blog from the row without re-running validation
func (br *blogRow) toDomain() (*domain.Blog, error) {
	id, err := uuid.Parse(br.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid blog id %q: %w", br.ID, err)
	}

	authorID, err := uuid.Parse(br.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author id %q for blog %s: %w", br.AuthorID, br.ID, err)
	}

	rec := domain.BlogRecord{
		ID:        id,
		Title:     br.Title,
		Body:      br.Body,
		AuthorID:  authorID,
		Status:    domain.Status(br.Status),
		CreatedAt: br.CreatedAt.UTC(),
		SavedAt:   br.SavedAt.UTC(),
	}

	if br.PublishedAt.Valid {
		published := domain.NewPublishedBlog(
			br.PublishedTitle.String,
			br.PublishedBody.String,
			br.PublishedAt.Time.UTC(),
		)
		rec.Published = &published
	}

	return domain.RehydrateBlog(rec), nil
}
