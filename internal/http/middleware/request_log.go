package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/maiopinion/internal/platform/ctxutil"
	"github.com/yungbote/maiopinion/internal/platform/logger"
)

// Probe routes are logged at debug so health checks and scrapes do not
// drown out diagnosis traffic.
var probeRoutes = map[string]bool{
	"/api/health": true,
	"/metrics":    true,
}

func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		kv := append([]interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"elapsed_ms", time.Since(start).Milliseconds(),
		}, ctxutil.LogFields(c.Request.Context())...)
		if c.Request.ContentLength > 0 {
			kv = append(kv, "bytes_in", c.Request.ContentLength)
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("request failed", kv...)
		case status >= 400:
			log.Warn("request rejected", kv...)
		case probeRoutes[route]:
			log.Debug("probe", kv...)
		default:
			log.Info("request served", kv...)
		}
	}
}
