package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/lendfast/appform/config"
)

// CORSMiddleware is a middleware that adds CORS headers to response
func CORSMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		origin := ctx.GetHeader("Origin")

		// The form client is the only browser consumer. Reflect its
		// configured origin, fall back to allowing all when unset.
		allowedOrigin := "*"
		if clientURL := config.ServerConfig().ClientURL; clientURL != "" {
			allowedOrigin = clientURL
			if origin != "" && origin != clientURL {
				allowedOrigin = "null"
			}
		}

		ctx.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		ctx.Writer.Header().Set("Access-Control-Max-Age", "86400")
		ctx.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, UPDATE")
		ctx.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
		ctx.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Disposition")
		ctx.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		ctx.Writer.Header().Set("Cache-Control", "no-cache")

		if ctx.Request.Method == "OPTIONS" {
			ctx.AbortWithStatus(200)
		} else {
			ctx.Next()
		}
	}
}
