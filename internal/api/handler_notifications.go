package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-backend/internal/apperr"
	"campus-backend/internal/auth"
	"campus-backend/internal/model"
	"campus-backend/internal/store"
)

type notificationRequest struct {
	UserID  int64  `json:"userId" binding:"required,gt=0"`
	Message string `json:"message" binding:"required"`
	Type    string `json:"type" binding:"required"`
	IsRead  bool   `json:"isRead"`
}

// ListNotifications handles GET /api/notifications. Publishers see every
// user's notifications and may narrow with ?userId=N; everyone else only
// sees their own. ?mine=true limits to the caller, ?unread=true to unread.
func (h *Handler) ListNotifications(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	userID, err := optionalInt64Query(c, "userId")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if c.Query("mine") == "true" || !model.IsPublisher(id.Role) {
		userID = &id.UserID
	}

	list, err := h.store.ListNotifications(c.Request.Context(), store.NotificationFilter{
		UserID:     userID,
		UnreadOnly: c.Query("unread") == "true",
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetNotification handles GET /api/notifications/:id.
func (h *Handler) GetNotification(c *gin.Context) {
	n, _, ok := h.ownedNotification(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, n)
}

// ownedNotification loads the :id notification if the caller is its target
// user or a publisher.
func (h *Handler) ownedNotification(c *gin.Context) (*model.Notification, *auth.Identity, bool) {
	id, ok := h.identity(c)
	if !ok {
		return nil, nil, false
	}
	nid, ok := h.int64Param(c, "id", "Notification")
	if !ok {
		return nil, nil, false
	}
	n, err := h.store.GetNotification(c.Request.Context(), nid)
	if err != nil {
		h.respondError(c, err)
		return nil, nil, false
	}
	if !canManageNotification(id, n) {
		h.respondError(c, apperr.Forbidden("Insufficient permissions"))
		return nil, nil, false
	}
	return n, id, true
}

func canManageNotification(id *auth.Identity, n *model.Notification) bool {
	return n.UserID == id.UserID || model.IsPublisher(id.Role)
}

// CreateNotification handles POST /api/notifications and queues a push
// to the target user's browsers.
func (h *Handler) CreateNotification(c *gin.Context) {
	var req notificationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	n := &model.Notification{
		UserID:  req.UserID,
		Message: req.Message,
		Type:    req.Type,
		SentAt:  h.now(),
	}
	if err := h.store.CreateNotification(c.Request.Context(), n); err != nil {
		h.respondError(c, err)
		return
	}
	if h.push != nil {
		h.push.Dispatch(n.ID)
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Notification created successfully", "notification": n})
}

// UpdateNotification handles PUT /api/notifications/:id. Only publishers
// may readdress a notification to another user.
func (h *Handler) UpdateNotification(c *gin.Context) {
	existing, id, ok := h.ownedNotification(c)
	if !ok {
		return
	}
	var req notificationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if req.UserID != existing.UserID && !model.IsPublisher(id.Role) {
		h.respondError(c, apperr.Forbidden("Insufficient permissions"))
		return
	}

	n, err := h.store.UpdateNotification(c.Request.Context(), &model.Notification{
		ID:      existing.ID,
		UserID:  req.UserID,
		Message: req.Message,
		Type:    req.Type,
		IsRead:  req.IsRead,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification updated successfully", "notification": n})
}

// DeleteNotification handles DELETE /api/notifications/:id.
func (h *Handler) DeleteNotification(c *gin.Context) {
	n, _, ok := h.ownedNotification(c)
	if !ok {
		return
	}
	if err := h.store.DeleteNotification(c.Request.Context(), n.ID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted successfully"})
}

type markReadRequest struct {
	IsRead *bool `json:"isRead"`
}

// MarkNotificationRead handles PATCH /api/notifications/:id/read. An empty
// body marks the notification read.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	existing, _, ok := h.ownedNotification(c)
	if !ok {
		return
	}
	var req markReadRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	read := true
	if req.IsRead != nil {
		read = *req.IsRead
	}

	n, err := h.store.MarkNotificationRead(c.Request.Context(), existing.ID, read)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}
