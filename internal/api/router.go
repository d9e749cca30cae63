package api

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"campus-backend/config"
	"campus-backend/internal/model"
	"campus-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.ServerConfig, d Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// The logger wraps recovery so recovered panics still get a request line.
	r.Use(mw.RequestLogger(d.Log), mw.Recovery(d.Log, !cfg.IsProduction()))

	handler := NewHandler(d)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)
	// Credential endpoints get a tighter bucket against password guessing.
	authLimiter := mw.RateLimiter(rate.Limit(cfg.AuthRateLimitPerSec), cfg.AuthRateLimitBurst)

	authenticate := mw.Authenticate(d.Auth)
	adminOnly := mw.AuthorizeRole(model.RoleAdmin)
	publishers := mw.AuthorizeRole(model.PublisherRoles...)

	r.GET("/healthz", handler.Health)

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authLimiter, handler.Register)
			authGroup.POST("/login", authLimiter, handler.Login)
			authGroup.GET("/roles", handler.ListRoles)
			authGroup.GET("/profile", authenticate, handler.GetProfile)
			authGroup.PUT("/profile", authenticate, handler.UpdateProfile)
		}

		rooms := api.Group("/rooms", authenticate)
		{
			rooms.GET("", handler.ListRooms)
			rooms.GET("/:id", handler.GetRoom)
			rooms.POST("", adminOnly, handler.CreateRoom)
			rooms.PUT("/:id", adminOnly, handler.UpdateRoom)
			rooms.DELETE("/:id", adminOnly, handler.DeleteRoom)
			rooms.POST("/:id/book", handler.BookRoom)
			rooms.GET("/:id/bookings", handler.ListRoomBookings)
		}

		api.PUT("/bookings/:id/status", authenticate, handler.UpdateBookingStatus)

		timetable := api.Group("/timetable", authenticate)
		{
			timetable.GET("", handler.ListTimetable)
			timetable.POST("", handler.CreateTimetableEntry)
			timetable.GET("/:id", handler.GetTimetableEntry)
			timetable.PUT("/:id", handler.UpdateTimetableEntry)
			timetable.DELETE("/:id", handler.DeleteTimetableEntry)
		}

		maintenance := api.Group("/maintenance", authenticate)
		{
			maintenance.GET("", handler.ListMaintenanceRequests)
			maintenance.POST("", handler.CreateMaintenanceRequest)
			maintenance.GET("/:id", handler.GetMaintenanceRequest)
			maintenance.PUT("/:id", handler.UpdateMaintenanceRequest)
			maintenance.DELETE("/:id", handler.DeleteMaintenanceRequest)
			maintenance.GET("/:id/updates", handler.ListMaintenanceUpdates)
			maintenance.POST("/:id/updates", handler.AddMaintenanceUpdate)
		}

		notifications := api.Group("/notifications", authenticate)
		{
			notifications.GET("", handler.ListNotifications)
			notifications.POST("", publishers, handler.CreateNotification)
			notifications.GET("/:id", handler.GetNotification)
			notifications.PUT("/:id", handler.UpdateNotification)
			notifications.DELETE("/:id", handler.DeleteNotification)
			notifications.PATCH("/:id/read", handler.MarkNotificationRead)
		}

		announcements := api.Group("/announcements", authenticate)
		{
			announcements.GET("", handler.ListAnnouncements)
			announcements.GET("/:id", handler.GetAnnouncement)
			announcements.POST("", publishers, handler.CreateAnnouncement)
			announcements.PUT("/:id", publishers, handler.UpdateAnnouncement)
			announcements.DELETE("/:id", publishers, handler.DeleteAnnouncement)
		}

		api.GET("/subscriptions", authenticate, handler.GetSubscription)
		api.PUT("/subscriptions", authenticate, handler.PutSubscription)
		api.DELETE("/subscriptions", authenticate, handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
