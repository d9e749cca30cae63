package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"campus-backend/internal/apperr"
	"campus-backend/internal/model"
)

type putSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	P256DH   string `json:"p256dh" binding:"required"`
	Auth     string `json:"auth" binding:"required"`
}

// PutSubscription handles the creation or replacement of the caller's
// subscription.
func (h *Handler) PutSubscription(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	var req putSubscriptionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	subscription := model.PushSubscription{
		Endpoint: req.Endpoint,
		UserID:   id.UserID,
		P256DH:   req.P256DH,
		Auth:     req.Auth,
	}
	if err := h.store.UpsertSubscription(c.Request.Context(), &subscription); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeleteSubscription handles the deletion of one of the caller's
// subscriptions.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	var req deleteSubscriptionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.store.DeleteSubscription(c.Request.Context(), id.UserID, req.Endpoint); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// rawQueryParam reads key from the raw query without URL decoding, so an
// endpoint is matched exactly as the browser registered it.
func rawQueryParam(rawQuery, key string) (string, bool) {
	for _, kv := range strings.Split(rawQuery, "&") {
		if strings.HasPrefix(kv, key+"=") {
			return kv[len(key)+1:], true
		}
	}
	return "", false
}

// GetSubscription handles GET /api/subscriptions. With ?endpoint= it
// returns that subscription, otherwise all of the caller's.
func (h *Handler) GetSubscription(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}

	raw, ok := rawQueryParam(c.Request.URL.RawQuery, "endpoint")
	if !ok {
		subs, err := h.store.ListSubscriptionsForUser(c.Request.Context(), id.UserID)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, subs)
		return
	}
	if raw == "" {
		h.respondError(c, apperr.Validation("endpoint is required"))
		return
	}

	subscription, err := h.store.GetSubscription(c.Request.Context(), raw)
	if err == nil && subscription.UserID != id.UserID {
		err = apperr.NotFound("Subscription not found")
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subscription)
}
