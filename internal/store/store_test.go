package store

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"campus-backend/internal/apperr"
	"campus-backend/internal/model"
	"campus-backend/internal/testutil"
)

// A helper function to create a mock database connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	return gormDB, mock
}

// Any is a helper for sqlmock to match any argument.
type Any struct{}

// Match satisfies the sqlmock.Argument interface
func (a Any) Match(v driver.Value) bool {
	return true
}

var day = time.Date(2030, time.March, 4, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func newRoom(t *testing.T, s Store, name string) *model.Room {
	t.Helper()
	r := &model.Room{Name: name, Type: "lab", Building: "B1", Floor: 2, Capacity: 10,
		Features: map[string]any{"projector": true}}
	require.NoError(t, s.CreateRoom(context.Background(), r))
	return r
}

func TestGormStore_CreateBookingConflict(t *testing.T) {
	gormDB := testutil.OpenDB(t)
	s := NewGormStore(gormDB)
	ctx := context.Background()

	user := testutil.CreateUser(t, gormDB, "alice@x.com", model.RoleStudent)
	room := newRoom(t, s, "R1")
	other := newRoom(t, s, "R2")

	book := func(roomID string, start, end time.Time) (*model.Booking, error) {
		b := &model.Booking{RoomID: roomID, UserID: user.ID, StartTime: start, EndTime: end, Purpose: "study"}
		return b, s.CreateBooking(ctx, b)
	}

	first, err := book(room.ID, at(10, 0), at(11, 0))
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, model.BookingActive, first.Status)

	_, err = book(room.ID, at(10, 30), at(11, 30))
	assert.True(t, apperr.Is(err, apperr.KindConflict), "got %v", err)

	_, err = book(room.ID, at(11, 0), at(12, 0))
	require.NoError(t, err, "adjacent booking must be accepted")

	_, err = book(room.ID, at(9, 0), at(10, 0))
	require.NoError(t, err, "adjacent booking must be accepted")

	_, err = book(other.ID, at(10, 30), at(11, 30))
	require.NoError(t, err, "other rooms do not conflict")

	_, err = book(room.ID, at(12, 0), at(11, 0))
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = book("missing-room", at(13, 0), at(14, 0))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	var count int64
	require.NoError(t, gormDB.Model(&model.Booking{}).Where("room_id = ?", room.ID).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestGormStore_UpdateBookingStatus(t *testing.T) {
	gormDB := testutil.OpenDB(t)
	s := NewGormStore(gormDB)
	ctx := context.Background()

	user := testutil.CreateUser(t, gormDB, "bob@x.com", model.RoleStaff)
	room := newRoom(t, s, "R1")

	first := &model.Booking{RoomID: room.ID, UserID: user.ID, StartTime: at(10, 0), EndTime: at(11, 0), Purpose: "a"}
	require.NoError(t, s.CreateBooking(ctx, first))

	cancelled, err := s.UpdateBookingStatus(ctx, first.ID, model.BookingCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, cancelled.Status)

	// The freed slot can be taken again.
	second := &model.Booking{RoomID: room.ID, UserID: user.ID, StartTime: at(10, 0), EndTime: at(11, 0), Purpose: "b"}
	require.NoError(t, s.CreateBooking(ctx, second))

	_, err = s.UpdateBookingStatus(ctx, first.ID, model.BookingActive)
	assert.True(t, apperr.Is(err, apperr.KindConflict), "re-activation must not overlap")

	stored, err := s.GetBooking(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, stored.Status)

	_, err = s.UpdateBookingStatus(ctx, first.ID, "pending")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = s.UpdateBookingStatus(ctx, "nope", model.BookingCancelled)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestGormStore_ListRoomBookings(t *testing.T) {
	gormDB := testutil.OpenDB(t)
	s := NewGormStore(gormDB)
	ctx := context.Background()

	user := testutil.CreateUser(t, gormDB, "carol@x.com", model.RoleLecturer)
	room := newRoom(t, s, "R1")

	for _, h := range []int{14, 9, 11} {
		b := &model.Booking{RoomID: room.ID, UserID: user.ID, StartTime: at(h, 0), EndTime: at(h+1, 0), Purpose: "p"}
		require.NoError(t, s.CreateBooking(ctx, b))
	}

	list, err := s.ListRoomBookings(ctx, room.ID, at(10, 0))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].StartTime.Equal(at(11, 0)))
	assert.True(t, list[1].StartTime.Equal(at(14, 0)))
	require.NotNil(t, list[0].User)
	assert.Equal(t, "carol@x.com", list[0].User.Email)
	assert.Empty(t, list[0].User.PasswordHash)

	_, err = s.ListRoomBookings(ctx, "missing", day)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	rooms, err := s.ListRooms(ctx, at(10, 0))
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Len(t, rooms[0].Bookings, 2)
	assert.Equal(t, true, rooms[0].Features["projector"])
}

func TestGormStore_RoomLifecycle(t *testing.T) {
	gormDB := testutil.OpenDB(t)
	s := NewGormStore(gormDB)
	ctx := context.Background()

	user := testutil.CreateUser(t, gormDB, "dan@x.com", model.RoleAdmin)
	room := newRoom(t, s, "R1")
	require.NoError(t, s.CreateBooking(ctx, &model.Booking{
		RoomID: room.ID, UserID: user.ID, StartTime: at(10, 0), EndTime: at(11, 0), Purpose: "p",
	}))

	updated, err := s.UpdateRoom(ctx, &model.Room{ID: room.ID, Name: "R1b", Type: "hall", Building: "B2", Floor: 0, Capacity: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Capacity)
	assert.Equal(t, "hall", updated.Type)
	assert.Nil(t, updated.Features, "update replaces every field")

	got, err := s.GetRoom(ctx, room.ID, day)
	require.NoError(t, err)
	assert.Equal(t, "R1b", got.Name)
	assert.Len(t, got.Bookings, 1)

	_, err = s.UpdateRoom(ctx, &model.Room{ID: "missing", Name: "x", Type: "x", Building: "x", Capacity: 1})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, s.DeleteRoom(ctx, room.ID))
	_, err = s.GetRoom(ctx, room.ID, day)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	var count int64
	require.NoError(t, gormDB.Model(&model.Booking{}).Count(&count).Error)
	assert.Zero(t, count, "bookings are removed with their room")
}

func TestGormStore_DuplicateEmail(t *testing.T) {
	gormDB := testutil.OpenDB(t)
	s := NewGormStore(gormDB)
	ctx := context.Background()

	role, err := s.GetRoleByName(ctx, model.RoleStudent)
	require.NoError(t, err)

	first := &model.User{Email: "eve@x.com", PasswordHash: "h", FirstName: "Eve", RoleID: role.ID}
	require.NoError(t, s.CreateUser(ctx, first))

	second := &model.User{Email: "eve@x.com", PasswordHash: "h2", FirstName: "Other", RoleID: role.ID}
	err = s.CreateUser(ctx, second)
	assert.True(t, apperr.Is(err, apperr.KindConflict), "got %v", err)

	got, err := s.GetUserByEmail(ctx, "eve@x.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, got.Role.Name)

	renamed, err := s.UpdateUserName(ctx, got.ID, "Evelyn", "Smith")
	require.NoError(t, err)
	assert.Equal(t, "Evelyn Smith", renamed.Name())

	_, err = s.UpdateUserName(ctx, 999, "X", "Y")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	roles, err := s.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, len(model.DefaultRoles))
}

func TestGormStore_DeleteMissingIsNotFound(t *testing.T) {
	s := NewGormStore(testutil.OpenDB(t))
	ctx := context.Background()

	testCases := []struct {
		name string
		del  func() error
	}{
		{name: "room", del: func() error { return s.DeleteRoom(ctx, "missing") }},
		{name: "timetable", del: func() error { return s.DeleteTimetableEntry(ctx, 42) }},
		{name: "maintenance", del: func() error { return s.DeleteMaintenanceRequest(ctx, "missing") }},
		{name: "notification", del: func() error { return s.DeleteNotification(ctx, 42) }},
		{name: "announcement", del: func() error { return s.DeleteAnnouncement(ctx, 42) }},
		{name: "subscription", del: func() error { return s.DeleteSubscription(ctx, 1, "https://push.example/x") }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.del()
			assert.True(t, apperr.Is(err, apperr.KindNotFound), "got %v", err)
		})
	}
}

func TestGormStore_MaintenanceUpdates(t *testing.T) {
	s := NewGormStore(testutil.OpenDB(t))
	ctx := context.Background()

	req := &model.MaintenanceRequest{ReporterID: 1, Description: "Leaking tap", Location: "B1-101", Category: "plumbing"}
	require.NoError(t, s.CreateMaintenanceRequest(ctx, req))
	assert.Equal(t, model.MaintenanceOpen, req.Status)
	assert.Equal(t, model.PriorityMedium, req.Priority)

	comments := []string{"assigned", "parts ordered", "fixed"}
	statuses := []string{model.MaintenanceInProgress, model.MaintenanceInProgress, model.MaintenanceResolved}
	for i := range comments {
		require.NoError(t, s.AddMaintenanceUpdate(ctx, &model.MaintenanceUpdate{
			RequestID: req.ID, AuthorID: 2, Comment: comments[i], Status: statuses[i],
		}))
	}

	updates, err := s.ListMaintenanceUpdates(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, updates, 3)
	for i, u := range updates {
		assert.Equal(t, comments[i], u.Comment)
	}

	parent, err := s.GetMaintenanceRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MaintenanceOpen, parent.Status, "log entries do not move the request status")
	assert.Len(t, parent.Updates, 3)

	err = s.AddMaintenanceUpdate(ctx, &model.MaintenanceUpdate{RequestID: "missing", AuthorID: 2, Comment: "x", Status: "open"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	assignee := int64(7)
	parent.Status = model.MaintenanceClosed
	parent.AssigneeID = &assignee
	updated, err := s.UpdateMaintenanceRequest(ctx, parent)
	require.NoError(t, err)
	assert.Equal(t, model.MaintenanceClosed, updated.Status)

	mine, err := s.ListMaintenanceRequests(ctx, MaintenanceFilter{AssigneeID: &assignee})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, s.DeleteMaintenanceRequest(ctx, req.ID))
	_, err = s.ListMaintenanceUpdates(ctx, req.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestGormStore_Notifications(t *testing.T) {
	s := NewGormStore(testutil.OpenDB(t))
	ctx := context.Background()

	for _, uid := range []int64{1, 1, 2} {
		require.NoError(t, s.CreateNotification(ctx, &model.Notification{UserID: uid, Message: "hi", Type: "info"}))
	}

	uid := int64(1)
	mine, err := s.ListNotifications(ctx, NotificationFilter{UserID: &uid})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.False(t, mine[0].SentAt.IsZero())

	read, err := s.MarkNotificationRead(ctx, mine[0].ID, true)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	unread, err := s.ListNotifications(ctx, NotificationFilter{UserID: &uid, UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, unread, 1)

	_, err = s.MarkNotificationRead(ctx, 999, true)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestGormStore_Subscriptions(t *testing.T) {
	s := NewGormStore(testutil.OpenDB(t))
	ctx := context.Background()

	sub := &model.PushSubscription{Endpoint: "https://push.example/a", UserID: 1, P256DH: "k1", Auth: "a1"}
	require.NoError(t, s.UpsertSubscription(ctx, sub))

	moved := &model.PushSubscription{Endpoint: "https://push.example/a", UserID: 2, P256DH: "k2", Auth: "a2"}
	require.NoError(t, s.UpsertSubscription(ctx, moved))

	got, err := s.GetSubscription(ctx, "https://push.example/a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.UserID)
	assert.Equal(t, "k2", got.P256DH)

	subs, err := s.ListSubscriptionsForUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, subs)

	err = s.DeleteSubscription(ctx, 1, "https://push.example/a")
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "only the owner may delete")
	require.NoError(t, s.DeleteSubscription(ctx, 2, "https://push.example/a"))
}

func TestGormStore_CreateBookingLocksRoom(t *testing.T) {
	bookingCols := []string{"id", "room_id", "user_id", "start_time", "end_time", "purpose", "status"}

	testCases := []struct {
		name             string
		mockExpectations func(mock sqlmock.Sqlmock)
		wantKind         apperr.Kind
	}{
		{
			name: "overlapping booking rolls back with conflict",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT .*FROM "rooms" WHERE id = \$1 .*FOR UPDATE`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("room-1"))
				mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE \(?room_id = \$1 AND status <> \$2 AND start_time < \$3 AND end_time > \$4`).
					WithArgs("room-1", "cancelled", Any{}, Any{}).
					WillReturnRows(sqlmock.NewRows(bookingCols).
						AddRow("b-1", "room-1", 1, at(10, 0), at(11, 0), "taken", "active"))
				mock.ExpectRollback()
			},
			wantKind: apperr.KindConflict,
		},
		{
			name: "missing room rolls back with not found",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT .*FROM "rooms" WHERE id = \$1 .*FOR UPDATE`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
				mock.ExpectRollback()
			},
			wantKind: apperr.KindNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gormDB, mock := newMockDB(t)
			tc.mockExpectations(mock)

			s := NewGormStore(gormDB)
			err := s.CreateBooking(context.Background(), &model.Booking{
				RoomID: "room-1", UserID: 2, StartTime: at(10, 30), EndTime: at(11, 30), Purpose: "p",
			})

			assert.True(t, apperr.Is(err, tc.wantKind), "got %v", err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
