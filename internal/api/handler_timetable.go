package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campus-backend/internal/apperr"
	"campus-backend/internal/model"
	"campus-backend/internal/store"
)

const clockLayout = "15:04"

type timetableRequest struct {
	UserID     int64  `json:"userId"`
	Course     string `json:"course" binding:"required"`
	Day        string `json:"day" binding:"required"`
	StartTime  string `json:"startTime" binding:"required,datetime=15:04"`
	EndTime    string `json:"endTime" binding:"required,datetime=15:04"`
	Location   string `json:"location"`
	Instructor string `json:"instructor"`
}

// normalizeClock rewrites both times as zero-padded HH:MM and checks their
// order.
func (r *timetableRequest) normalizeClock() error {
	start, err := time.Parse(clockLayout, r.StartTime)
	if err != nil {
		return apperr.Validation("startTime must be a time in HH:MM format")
	}
	end, err := time.Parse(clockLayout, r.EndTime)
	if err != nil {
		return apperr.Validation("endTime must be a time in HH:MM format")
	}
	if !end.After(start) {
		return apperr.Validation("End time must be after start time")
	}
	r.StartTime, r.EndTime = start.Format(clockLayout), end.Format(clockLayout)
	return nil
}

// toModel builds the entry; a missing userId means the caller.
func (r timetableRequest) toModel(id, caller int64) *model.TimetableEntry {
	userID := r.UserID
	if userID == 0 {
		userID = caller
	}
	return &model.TimetableEntry{
		ID:         id,
		UserID:     userID,
		Course:     r.Course,
		Day:        r.Day,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Location:   r.Location,
		Instructor: r.Instructor,
	}
}

// ListTimetable handles GET /api/timetable. ?userId=N or ?mine=true narrow
// the list, ?day=Monday selects one day.
func (h *Handler) ListTimetable(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	userID, err := optionalInt64Query(c, "userId")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if c.Query("mine") == "true" {
		userID = &id.UserID
	}

	entries, err := h.store.ListTimetable(c.Request.Context(), store.TimetableFilter{UserID: userID, Day: c.Query("day")})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetTimetableEntry handles GET /api/timetable/:id.
func (h *Handler) GetTimetableEntry(c *gin.Context) {
	entryID, ok := h.int64Param(c, "id", "Timetable entry")
	if !ok {
		return
	}
	entry, err := h.store.GetTimetableEntry(c.Request.Context(), entryID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// CreateTimetableEntry handles POST /api/timetable.
func (h *Handler) CreateTimetableEntry(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	var req timetableRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := req.normalizeClock(); err != nil {
		h.respondError(c, err)
		return
	}

	entry := req.toModel(0, id.UserID)
	if err := h.store.CreateTimetableEntry(c.Request.Context(), entry); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Timetable entry created successfully", "entry": entry})
}

// UpdateTimetableEntry handles PUT /api/timetable/:id.
func (h *Handler) UpdateTimetableEntry(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	entryID, ok := h.int64Param(c, "id", "Timetable entry")
	if !ok {
		return
	}
	var req timetableRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := req.normalizeClock(); err != nil {
		h.respondError(c, err)
		return
	}

	entry, err := h.store.UpdateTimetableEntry(c.Request.Context(), req.toModel(entryID, id.UserID))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Timetable entry updated successfully", "entry": entry})
}

// DeleteTimetableEntry handles DELETE /api/timetable/:id.
func (h *Handler) DeleteTimetableEntry(c *gin.Context) {
	entryID, ok := h.int64Param(c, "id", "Timetable entry")
	if !ok {
		return
	}
	if err := h.store.DeleteTimetableEntry(c.Request.Context(), entryID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Timetable entry deleted successfully"})
}
