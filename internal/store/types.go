package store

// TimetableFilter narrows ListTimetable. Zero values match everything.
type TimetableFilter struct {
	UserID *int64
	Day    string
}

// MaintenanceFilter narrows ListMaintenanceRequests.
type MaintenanceFilter struct {
	Status     string
	ReporterID *int64
	AssigneeID *int64
}

// NotificationFilter narrows ListNotifications.
type NotificationFilter struct {
	UserID     *int64
	UnreadOnly bool
}
