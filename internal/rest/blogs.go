package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dfryer1193/blogcontext/api"
	"github.com/dfryer1193/blogcontext/blog/application"
	"github.com/dfryer1193/blogcontext/blog/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type BlogHandler struct {
	service *application.BlogService
}

func NewBlogHandler(service *application.BlogService) *BlogHandler {
	return &BlogHandler{service: service}
}

func (h *BlogHandler) CreateBlog(c *gin.Context) {
	var req api.CreateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Error{Error: err.Error()})
		return
	}

	authorID, err := uuid.Parse(req.AuthorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Error{Error: "invalid author id"})
		return
	}

	blog, err := h.service.CreateBlog(c.Request.Context(), application.CreateBlogCommand{
		Title:    req.Title,
		Body:     req.Body,
		AuthorID: authorID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBlogResponse(blog))
}

func (h *BlogHandler) ListBlogs(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Error{Error: err.Error()})
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Error{Error: err.Error()})
		return
	}

	page, err := h.service.ListBlogs(c.Request.Context(), application.ListBlogsQuery{
		Status: domain.Status(c.Query("status")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	resp := api.BlogPage{
		Items:  make([]api.Blog, 0, len(page.Items)),
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	for _, b := range page.Items {
		resp.Items = append(resp.Items, toBlogResponse(b))
	}

	c.JSON(http.StatusOK, resp)
}

func (h *BlogHandler) GetBlog(c *gin.Context) {
	id, ok := blogID(c)
	if !ok {
		return
	}

	blog, err := h.service.GetBlog(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBlogResponse(blog))
}

func (h *BlogHandler) SaveDraft(c *gin.Context) {
	id, ok := blogID(c)
	if !ok {
		return
	}

	var req api.SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Error{Error: err.Error()})
		return
	}

	blog, err := h.service.SaveDraft(c.Request.Context(), id, application.SaveDraftCommand{
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBlogResponse(blog))
}

func (h *BlogHandler) PublishBlog(c *gin.Context) {
	id, ok := blogID(c)
	if !ok {
		return
	}

	blog, err := h.service.PublishBlog(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBlogResponse(blog))
}

func (h *BlogHandler) GetPublished(c *gin.Context) {
	id, ok := blogID(c)
	if !ok {
		return
	}

	view, err := h.service.GetPublished(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.PublishedView{
		ID:          view.BlogID.String(),
		AuthorID:    view.AuthorID.String(),
		Title:       view.Title,
		HTML:        view.HTML,
		Snippet:     view.Snippet,
		PublishedAt: view.PublishedAt,
	})
}

func (h *BlogHandler) DeleteBlog(c *gin.Context) {
	id, ok := blogID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteBlog(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// blogID parses the blogId path parameter, writing a 400 when it is not a uuid
func blogID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("blogId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Error{Error: "invalid blog id"})
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return v, nil
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidBlog):
		c.JSON(http.StatusBadRequest, api.Error{Error: err.Error()})
	case errors.Is(err, domain.ErrBlogNotFound):
		c.JSON(http.StatusNotFound, api.Error{Error: err.Error()})
	case errors.Is(err, domain.ErrNoNeedToPublish):
		c.JSON(http.StatusConflict, api.Error{Error: err.Error()})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, api.Error{Error: "internal error"})
	}
}

func toBlogResponse(b *domain.Blog) api.Blog {
	resp := api.Blog{
		ID:        b.ID().String(),
		Title:     b.Title(),
		Body:      b.Body(),
		AuthorID:  b.AuthorID().String(),
		Status:    string(b.Status()),
		CreatedAt: b.CreatedAt(),
		SavedAt:   b.SavedAt(),
	}

	if published, ok := b.Published(); ok {
		resp.Published = &api.PublishedBlog{
			Title:       published.Title(),
			Body:        published.Body(),
			PublishedAt: published.PublishedAt(),
		}
	}

	return resp
}
