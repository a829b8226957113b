package middleware

import "github.com/gin-gonic/gin"

// NoStore marks responses as private and uncacheable. Worksheet documents
// belong to one account.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "private, no-store")
		c.Next()
	}
}
