package rest

import (
	"net/http"

	"github.com/dfryer1193/blogcontext/blog/application"
	"github.com/gin-gonic/gin"
)

func NewApi(router *gin.Engine, service *application.BlogService) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := NewBlogHandler(service)
	blogsV1 := router.Group("blogs/v1")
	{
		blogsV1.POST("/", h.CreateBlog)
		blogsV1.GET("/", h.ListBlogs)
		blogsV1.GET("/:blogId", h.GetBlog)
		blogsV1.PUT("/:blogId", h.SaveDraft)
		blogsV1.DELETE("/:blogId", h.DeleteBlog)
		blogsV1.POST("/:blogId/published", h.PublishBlog)
		blogsV1.GET("/:blogId/published", h.GetPublished)
	}
}
