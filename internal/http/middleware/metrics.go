package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

type RequestObserver interface {
	ObserveHTTP(method, route, status string)
}

// Metrics counts requests by matched route.
func Metrics(obs RequestObserver) gin.HandlerFunc {
	if obs == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		c.Next()
		obs.ObserveHTTP(c.Request.Method, c.FullPath(), strconv.Itoa(c.Writer.Status()))
	}
}
