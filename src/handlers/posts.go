package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zirvehikayem/blog-api/src/models"
	"github.com/zirvehikayem/blog-api/src/services"
)

// PostHandler serves blog posts and categories
type PostHandler struct {
	posts *services.PostService
}

// NewPostHandler creates a new post handler
func NewPostHandler(posts *services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// HandleList handles GET /api/posts?category=&featured=&limit=
func (h *PostHandler) HandleList(c *gin.Context) {
	var featured *bool
	if raw := c.Query("featured"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, "", queryError("featured", "must be true or false"))
			return
		}
		featured = &v
	}

	var limit int64
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(c, "", queryError("limit", "must be an integer"))
			return
		}
		limit = v
	}

	posts, err := h.posts.List(c.Request.Context(), c.Query("category"), featured, limit)
	if err != nil {
		respondError(c, "Post", err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// HandleFeatured handles GET /api/posts/featured
func (h *PostHandler) HandleFeatured(c *gin.Context) {
	posts, err := h.posts.Featured(c.Request.Context())
	if err != nil {
		respondError(c, "Post", err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// HandleGet handles GET /api/posts/:slug
func (h *PostHandler) HandleGet(c *gin.Context) {
	post, err := h.posts.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, "Post", err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// HandleCreate handles POST /api/posts
func (h *PostHandler) HandleCreate(c *gin.Context) {
	var input models.PostInput
	if !bindJSON(c, &input) {
		return
	}

	post, err := h.posts.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, "Post", err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// HandleUpdate handles PUT /api/posts/:id
func (h *PostHandler) HandleUpdate(c *gin.Context) {
	var patch models.PostPatch
	if !bindJSON(c, &patch) {
		return
	}

	post, err := h.posts.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, "Post", err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// HandleDelete handles DELETE /api/posts/:id
func (h *PostHandler) HandleDelete(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, "Post", err)
		return
	}
	c.JSON(http.StatusOK, success("Post deleted successfully"))
}

// HandleCategories handles GET /api/categories
func (h *PostHandler) HandleCategories(c *gin.Context) {
	categories, err := h.posts.Categories(c.Request.Context())
	if err != nil {
		respondError(c, "Category", err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func queryError(field, message string) error {
	return &services.ValidationError{Fields: []services.FieldError{{Field: field, Message: message}}}
}
