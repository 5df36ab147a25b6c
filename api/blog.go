package api

import "time"

type CreateBlogRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	AuthorID string `json:"author_id" binding:"required"`
}

type SaveDraftRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type PublishedBlog struct {
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	PublishedAt time.Time `json:"published_at"`
}

type Blog struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	AuthorID  string         `json:"author_id"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	SavedAt   time.Time      `json:"saved_at"`
	Published *PublishedBlog `json:"published,omitempty"`
}

type BlogPage struct {
	Items  []Blog `json:"items"`
	Total  int    `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// PublishedView is what readers see of a published blog
type PublishedView struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"author_id"`
	Title       string    `json:"title"`
	HTML        string    `json:"html"`
	Snippet     string    `json:"snippet"`
	PublishedAt time.Time `json:"published_at"`
}

type Error struct {
	Error string `json:"error"`
}
