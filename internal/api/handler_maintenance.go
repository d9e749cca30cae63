package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-backend/internal/model"
	"campus-backend/internal/store"
)

type createMaintenanceRequest struct {
	Description string `json:"description" binding:"required"`
	PhotoURL    string `json:"photoUrl"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Location    string `json:"location" binding:"required"`
	Category    string `json:"category" binding:"required"`
	AssigneeID  *int64 `json:"assigneeId"`
}

type updateMaintenanceRequest struct {
	Description string `json:"description" binding:"required"`
	PhotoURL    string `json:"photoUrl"`
	Priority    string `json:"priority" binding:"required,oneof=low medium high urgent"`
	Status      string `json:"status" binding:"required,oneof=open in_progress resolved closed"`
	Location    string `json:"location" binding:"required"`
	Category    string `json:"category" binding:"required"`
	AssigneeID  *int64 `json:"assigneeId"`
}

// ListMaintenanceRequests handles GET /api/maintenance with optional
// ?status=, ?reporterId= and ?assigneeId= filters.
func (h *Handler) ListMaintenanceRequests(c *gin.Context) {
	reporter, err := optionalInt64Query(c, "reporterId")
	if err != nil {
		h.respondError(c, err)
		return
	}
	assignee, err := optionalInt64Query(c, "assigneeId")
	if err != nil {
		h.respondError(c, err)
		return
	}

	reqs, err := h.store.ListMaintenanceRequests(c.Request.Context(), store.MaintenanceFilter{
		Status:     c.Query("status"),
		ReporterID: reporter,
		AssigneeID: assignee,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

// GetMaintenanceRequest handles GET /api/maintenance/:id. The update log is
// embedded.
func (h *Handler) GetMaintenanceRequest(c *gin.Context) {
	m, err := h.store.GetMaintenanceRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// CreateMaintenanceRequest handles POST /api/maintenance. The caller is the
// reporter.
func (h *Handler) CreateMaintenanceRequest(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	var req createMaintenanceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	m := &model.MaintenanceRequest{
		ReporterID:  id.UserID,
		Description: req.Description,
		PhotoURL:    req.PhotoURL,
		Priority:    req.Priority,
		Status:      model.MaintenanceOpen,
		Location:    req.Location,
		Category:    req.Category,
		AssigneeID:  req.AssigneeID,
	}
	if err := h.store.CreateMaintenanceRequest(c.Request.Context(), m); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Maintenance request created successfully", "request": m})
}

// UpdateMaintenanceRequest handles PUT /api/maintenance/:id.
func (h *Handler) UpdateMaintenanceRequest(c *gin.Context) {
	var req updateMaintenanceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	m, err := h.store.UpdateMaintenanceRequest(c.Request.Context(), &model.MaintenanceRequest{
		ID:          c.Param("id"),
		Description: req.Description,
		PhotoURL:    req.PhotoURL,
		Priority:    req.Priority,
		Status:      req.Status,
		Location:    req.Location,
		Category:    req.Category,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Maintenance request updated successfully", "request": m})
}

// DeleteMaintenanceRequest handles DELETE /api/maintenance/:id.
func (h *Handler) DeleteMaintenanceRequest(c *gin.Context) {
	if err := h.store.DeleteMaintenanceRequest(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Maintenance request deleted successfully"})
}

type maintenanceUpdateRequest struct {
	Comment string `json:"comment" binding:"required"`
	Status  string `json:"status" binding:"required,oneof=open in_progress resolved closed"`
}

// AddMaintenanceUpdate handles POST /api/maintenance/:id/updates. It only
// appends to the log; the request's status is changed through PUT.
func (h *Handler) AddMaintenanceUpdate(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	var req maintenanceUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	u := &model.MaintenanceUpdate{
		RequestID: c.Param("id"),
		AuthorID:  id.UserID,
		Comment:   req.Comment,
		Status:    req.Status,
	}
	if err := h.store.AddMaintenanceUpdate(c.Request.Context(), u); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Update added successfully", "update": u})
}

// ListMaintenanceUpdates handles GET /api/maintenance/:id/updates.
func (h *Handler) ListMaintenanceUpdates(c *gin.Context) {
	updates, err := h.store.ListMaintenanceUpdates(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updates)
}
