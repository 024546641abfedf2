package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/khanomthai/bakery_backend/utils"
	"github.com/sirupsen/logrus"
)

// RequestLogger emits one structured line per request with the correlation
// id set by the server's first middleware.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
		entry := logger.WithFields(logrus.Fields{
			"method":         c.Request.Method,
			"path":           c.Request.URL.Path,
			"status":         c.Writer.Status(),
			"duration_ms":    time.Since(start).Milliseconds(),
			"correlation_id": cid,
		})
		if c.Writer.Status() >= 500 {
			entry.Error("request failed")
			return
		}
		entry.Info("request completed")
	}
}
