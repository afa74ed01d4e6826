package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zirvehikayem/blog-api/src/models"
	"github.com/zirvehikayem/blog-api/src/services"
)

const contactReceivedMessage = "Mesajınız başarıyla gönderildi! En kısa sürede size dönüş yapacağım."

// ContactHandler serves the contact form and the admin inbox
type ContactHandler struct {
	contact *services.ContactService
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contact *services.ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

// HandleSubmit handles POST /api/contact
func (h *ContactHandler) HandleSubmit(c *gin.Context) {
	var input models.ContactInput
	if !bindJSON(c, &input) {
		return
	}

	if _, err := h.contact.Submit(c.Request.Context(), input); err != nil {
		respondError(c, "Message", err)
		return
	}
	c.JSON(http.StatusOK, success(contactReceivedMessage))
}

// HandleList handles GET /api/contact?status=
func (h *ContactHandler) HandleList(c *gin.Context) {
	messages, err := h.contact.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, "Message", err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// HandleUpdateStatus handles PUT /api/contact/:id/status. The status is
// read from ?status= or from a JSON body {"status": ...}.
func (h *ContactHandler) HandleUpdateStatus(c *gin.Context) {
	var update models.StatusUpdate
	update.Status = c.Query("status")
	if update.Status == "" && c.Request.ContentLength != 0 {
		if !bindJSON(c, &update) {
			return
		}
	}

	if err := h.contact.UpdateStatus(c.Request.Context(), c.Param("id"), update.Status); err != nil {
		respondError(c, "Message", err)
		return
	}
	c.JSON(http.StatusOK, success("Message status updated successfully"))
}
