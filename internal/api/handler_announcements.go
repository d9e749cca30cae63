package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-backend/internal/model"
)

type announcementRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// ListAnnouncements handles GET /api/announcements, newest first.
func (h *Handler) ListAnnouncements(c *gin.Context) {
	list, err := h.store.ListAnnouncements(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetAnnouncement handles GET /api/announcements/:id.
func (h *Handler) GetAnnouncement(c *gin.Context) {
	aid, ok := h.int64Param(c, "id", "Announcement")
	if !ok {
		return
	}
	a, err := h.store.GetAnnouncement(c.Request.Context(), aid)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// CreateAnnouncement handles POST /api/announcements. The caller is the
// author.
func (h *Handler) CreateAnnouncement(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	var req announcementRequest
	if !h.bindJSON(c, &req) {
		return
	}

	a := &model.Announcement{Title: req.Title, Content: req.Content, AuthorID: id.UserID}
	if err := h.store.CreateAnnouncement(c.Request.Context(), a); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Announcement created successfully", "announcement": a})
}

// UpdateAnnouncement handles PUT /api/announcements/:id.
func (h *Handler) UpdateAnnouncement(c *gin.Context) {
	aid, ok := h.int64Param(c, "id", "Announcement")
	if !ok {
		return
	}
	var req announcementRequest
	if !h.bindJSON(c, &req) {
		return
	}

	a, err := h.store.UpdateAnnouncement(c.Request.Context(), &model.Announcement{ID: aid, Title: req.Title, Content: req.Content})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Announcement updated successfully", "announcement": a})
}

// DeleteAnnouncement handles DELETE /api/announcements/:id.
func (h *Handler) DeleteAnnouncement(c *gin.Context) {
	aid, ok := h.int64Param(c, "id", "Announcement")
	if !ok {
		return
	}
	if err := h.store.DeleteAnnouncement(c.Request.Context(), aid); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Announcement deleted successfully"})
}
