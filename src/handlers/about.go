package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zirvehikayem/blog-api/src/models"
	"github.com/zirvehikayem/blog-api/src/services"
)

// AboutHandler serves the about page document
type AboutHandler struct {
	about *services.AboutService
}

// NewAboutHandler creates a new about handler
func NewAboutHandler(about *services.AboutService) *AboutHandler {
	return &AboutHandler{about: about}
}

// HandleGet handles GET /api/about
func (h *AboutHandler) HandleGet(c *gin.Context) {
	content, err := h.about.Get(c.Request.Context())
	if err != nil {
		respondError(c, "About content", err)
		return
	}
	c.JSON(http.StatusOK, content)
}

// HandleUpdate handles PUT /api/about
func (h *AboutHandler) HandleUpdate(c *gin.Context) {
	var patch models.AboutPatch
	if !bindJSON(c, &patch) {
		return
	}

	content, err := h.about.Update(c.Request.Context(), patch)
	if err != nil {
		respondError(c, "About content", err)
		return
	}
	c.JSON(http.StatusOK, content)
}
