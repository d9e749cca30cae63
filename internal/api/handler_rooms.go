package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"campus-backend/internal/apperr"
	"campus-backend/internal/model"
)

type roomRequest struct {
	Name     string         `json:"name" binding:"required"`
	Type     string         `json:"type" binding:"required"`
	Building string         `json:"building" binding:"required"`
	Floor    int            `json:"floor"`
	Capacity int            `json:"capacity" binding:"required,gt=0"`
	Features map[string]any `json:"features"`
}

func (r roomRequest) toModel(id string) *model.Room {
	return &model.Room{
		ID:       id,
		Name:     r.Name,
		Type:     r.Type,
		Building: r.Building,
		Floor:    r.Floor,
		Capacity: r.Capacity,
		Features: r.Features,
	}
}

// ListRooms handles GET /api/rooms. Each room carries its upcoming bookings.
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.store.ListRooms(c.Request.Context(), h.now())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GetRoom handles GET /api/rooms/:id.
func (h *Handler) GetRoom(c *gin.Context) {
	room, err := h.store.GetRoom(c.Request.Context(), c.Param("id"), h.now())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// CreateRoom handles POST /api/rooms.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req roomRequest
	if !h.bindJSON(c, &req) {
		return
	}
	room := req.toModel("")
	if err := h.store.CreateRoom(c.Request.Context(), room); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Room created successfully", "room": room})
}

// UpdateRoom handles PUT /api/rooms/:id.
func (h *Handler) UpdateRoom(c *gin.Context) {
	var req roomRequest
	if !h.bindJSON(c, &req) {
		return
	}
	room, err := h.store.UpdateRoom(c.Request.Context(), req.toModel(c.Param("id")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Room updated successfully", "room": room})
}

// DeleteRoom handles DELETE /api/rooms/:id.
func (h *Handler) DeleteRoom(c *gin.Context) {
	if err := h.store.DeleteRoom(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Room deleted successfully"})
}

type bookRoomRequest struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Purpose   string    `json:"purpose" binding:"required"`
}

// BookRoom handles POST /api/rooms/:id/book for the calling user.
func (h *Handler) BookRoom(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	var req bookRoomRequest
	if !h.bindJSON(c, &req) {
		return
	}

	b := &model.Booking{
		RoomID:    c.Param("id"),
		UserID:    id.UserID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Purpose:   req.Purpose,
		Status:    model.BookingActive,
	}
	if err := h.store.CreateBooking(c.Request.Context(), b); err != nil {
		h.respondError(c, err)
		return
	}

	h.log.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"room_id":    b.RoomID,
		"user_id":    b.UserID,
	}).Info("room booked")
	c.JSON(http.StatusCreated, gin.H{"message": "Room booked successfully", "booking": b})
}

// ListRoomBookings handles GET /api/rooms/:id/bookings: bookings from now
// on, earliest first.
func (h *Handler) ListRoomBookings(c *gin.Context) {
	bookings, err := h.store.ListRoomBookings(c.Request.Context(), c.Param("id"), h.now())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

type bookingStatusRequest struct {
	Status model.BookingStatus `json:"status" binding:"required,oneof=active cancelled"`
}

// UpdateBookingStatus handles PUT /api/bookings/:id/status. The booking's
// owner and admins may change it.
func (h *Handler) UpdateBookingStatus(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	var req bookingStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	existing, err := h.store.GetBooking(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if existing.UserID != id.UserID && id.Role != model.RoleAdmin {
		h.respondError(c, apperr.Forbidden("Insufficient permissions"))
		return
	}

	updated, err := h.store.UpdateBookingStatus(ctx, existing.ID, req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking updated successfully", "booking": updated})
}
