package api

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"campus-backend/internal/apperr"
	"campus-backend/internal/auth"
	"campus-backend/internal/mw"
	"campus-backend/internal/store"
)

// Dispatcher queues a stored notification for push delivery.
type Dispatcher interface {
	Dispatch(notificationID int64) bool
}

// Deps are the collaborators the handlers need.
type Deps struct {
	Store   store.Store
	Auth    *auth.Service
	Push    Dispatcher // nil when push delivery is disabled
	WebPush *webpush.Options
	Log     *logrus.Logger
	Now     func() time.Time
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	auth    *auth.Service
	push    Dispatcher
	webpush *webpush.Options
	log     *logrus.Logger
	now     func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		store:   d.Store,
		auth:    d.Auth,
		push:    d.Push,
		webpush: d.WebPush,
		log:     d.Log,
		now:     now,
	}
}

func init() {
	// Report json field names in validation messages.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	}
}

// respondError writes err as {"error": message} with the status of its kind.
func (h *Handler) respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		h.log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("request failed")
	}
	c.AbortWithStatusJSON(apperr.HTTPStatus(kind), gin.H{"error": apperr.Message(err)})
}

// bindJSON decodes the body into dst and answers 400 on failure.
func (h *Handler) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.respondError(c, apperr.Wrap(apperr.KindValidation, err, describeBindError(err)))
		return false
	}
	return true
}

func describeBindError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Please enter a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a time in HH:MM format", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// identity returns the caller set by mw.Authenticate.
func (h *Handler) identity(c *gin.Context) (*auth.Identity, bool) {
	id, ok := mw.IdentityFrom(c)
	if !ok {
		h.respondError(c, apperr.Unauthorized("Access token required"))
	}
	return id, ok
}

// int64Param parses a numeric path parameter; a malformed id cannot exist.
func (h *Handler) int64Param(c *gin.Context, name, what string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(c, apperr.NotFound("%s not found", what))
		return 0, false
	}
	return id, true
}

// optionalInt64Query parses ?name=N, returning nil when absent.
func optionalInt64Query(c *gin.Context, name string) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperr.Validation("%s must be an integer", name)
	}
	return &v, nil
}
