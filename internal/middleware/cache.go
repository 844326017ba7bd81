package middleware

import (
	"github.com/gin-gonic/gin"
)

// NoStore marks responses as private and never cacheable, e.g. graded results.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("Pragma", "no-cache")
		c.Next()
	}
}
