package mw

import (
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Recovery turns a panic into a 500 JSON response and logs it with its
// stack. The panic value is only shown to clients when exposeDetails is set,
// i.e. outside production.
func Recovery(log *logrus.Logger, exposeDetails bool) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		log.WithFields(logrus.Fields{
			"panic":  recovered,
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"stack":  string(debug.Stack()),
		}).Error("panic recovered")

		msg := "Internal server error"
		if exposeDetails {
			msg = fmt.Sprint(recovered)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msg})
	})
}
