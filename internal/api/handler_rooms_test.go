package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-backend/internal/model"
)

func slot(hour, minute int) string {
	return time.Date(2030, time.March, 4, hour, minute, 0, 0, time.UTC).Format(time.RFC3339)
}

func createRoom(t *testing.T, api *testAPI, adminToken string, capacity int) model.Room {
	t.Helper()
	w := api.do(t, http.MethodPost, "/api/rooms", adminToken, gin.H{
		"name": "Lab 1", "type": "lab", "building": "Science", "floor": 2, "capacity": capacity,
		"features": gin.H{"projector": true},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[struct {
		Message string     `json:"message"`
		Room    model.Room `json:"room"`
	}](t, w)
	assert.Equal(t, "Room created successfully", resp.Message)
	require.NotEmpty(t, resp.Room.ID)
	return resp.Room
}

func TestRooms_AdminOnlyWrites(t *testing.T) {
	api := newTestAPI(t)
	_, adminToken := api.userWithToken(t, "admin@x.com", model.RoleAdmin)
	_, studentToken := api.userWithToken(t, "student@x.com", model.RoleStudent)

	room := createRoom(t, api, adminToken, 10)
	update := gin.H{"name": "Lab 1", "type": "lab", "building": "Science", "floor": 2, "capacity": 5}

	w := api.do(t, http.MethodPost, "/api/rooms", studentToken, update)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Insufficient permissions"}`, w.Body.String())

	w = api.do(t, http.MethodPut, "/api/rooms/"+room.ID, studentToken, update)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodPut, "/api/rooms/"+room.ID, adminToken, update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"capacity":5`)

	w = api.do(t, http.MethodDelete, "/api/rooms/"+room.ID, studentToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodDelete, "/api/rooms/"+room.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/api/rooms/"+room.ID, studentToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Room not found"}`, w.Body.String())
}

func TestRooms_Validation(t *testing.T) {
	api := newTestAPI(t)
	_, adminToken := api.userWithToken(t, "admin@x.com", model.RoleAdmin)

	testCases := []struct {
		name      string
		body      gin.H
		wantError string
	}{
		{name: "missing name", body: gin.H{"type": "lab", "building": "S", "capacity": 3}, wantError: "name is required"},
		{name: "zero capacity", body: gin.H{"name": "L", "type": "lab", "building": "S", "capacity": 0}, wantError: "capacity is required"},
		{name: "negative capacity", body: gin.H{"name": "L", "type": "lab", "building": "S", "capacity": -2}, wantError: "capacity must be greater than 0"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := api.do(t, http.MethodPost, "/api/rooms", adminToken, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"`+tc.wantError+`"}`, w.Body.String())
		})
	}
}

func TestBookRoom_Conflicts(t *testing.T) {
	api := newTestAPI(t)
	_, adminToken := api.userWithToken(t, "admin@x.com", model.RoleAdmin)
	_, studentToken := api.userWithToken(t, "student@x.com", model.RoleStudent)
	room := createRoom(t, api, adminToken, 10)
	path := "/api/rooms/" + room.ID + "/book"

	w := api.do(t, http.MethodPost, path, studentToken, gin.H{"startTime": slot(10, 0), "endTime": slot(11, 0), "purpose": "Study"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Room booked successfully")

	w = api.do(t, http.MethodPost, path, adminToken, gin.H{"startTime": slot(10, 30), "endTime": slot(11, 30), "purpose": "Overlap"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"Room is already booked for this time slot"}`, w.Body.String())

	w = api.do(t, http.MethodPost, path, adminToken, gin.H{"startTime": slot(11, 0), "endTime": slot(12, 0), "purpose": "Adjacent"})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodPost, path, studentToken, gin.H{"startTime": slot(14, 0), "endTime": slot(13, 0), "purpose": "Backwards"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, path, studentToken, gin.H{"startTime": slot(15, 0), "endTime": slot(16, 0)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"purpose is required"}`, w.Body.String())

	w = api.do(t, http.MethodPost, "/api/rooms/no-such-room/book", studentToken, gin.H{"startTime": slot(10, 0), "endTime": slot(11, 0), "purpose": "Ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodGet, "/api/rooms/"+room.ID+"/bookings", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	bookings := decode[[]model.Booking](t, w)
	require.Len(t, bookings, 2)
	assert.Equal(t, "Study", bookings[0].Purpose)
	assert.Equal(t, "Adjacent", bookings[1].Purpose)
	require.NotNil(t, bookings[0].User)
	assert.Equal(t, "student@x.com", bookings[0].User.Email)

	w = api.do(t, http.MethodGet, "/api/rooms/"+room.ID, studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[model.Room](t, w).Bookings, 2)
}

func TestUpdateBookingStatus_OwnerOrAdmin(t *testing.T) {
	api := newTestAPI(t)
	_, adminToken := api.userWithToken(t, "admin@x.com", model.RoleAdmin)
	_, ownerToken := api.userWithToken(t, "owner@x.com", model.RoleStudent)
	_, otherToken := api.userWithToken(t, "other@x.com", model.RoleStudent)
	room := createRoom(t, api, adminToken, 4)

	w := api.do(t, http.MethodPost, "/api/rooms/"+room.ID+"/book", ownerToken, gin.H{"startTime": slot(9, 0), "endTime": slot(10, 0), "purpose": "Meeting"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	booking := decode[struct {
		Booking model.Booking `json:"booking"`
	}](t, w).Booking
	path := "/api/bookings/" + booking.ID + "/status"

	w = api.do(t, http.MethodPut, path, otherToken, gin.H{"status": "cancelled"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodPut, path, ownerToken, gin.H{"status": "paused"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"status must be one of: active cancelled"}`, w.Body.String())

	w = api.do(t, http.MethodPut, path, ownerToken, gin.H{"status": "cancelled"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"cancelled"`)

	// The freed slot can be taken by someone else.
	w = api.do(t, http.MethodPost, "/api/rooms/"+room.ID+"/book", otherToken, gin.H{"startTime": slot(9, 0), "endTime": slot(10, 0), "purpose": "Retake"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodPut, path, adminToken, gin.H{"status": "active"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPut, "/api/bookings/missing/status", adminToken, gin.H{"status": "active"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
