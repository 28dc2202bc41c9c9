package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hammamikhairi/recipebook/internal/logger"
)

// Logger logs one line per request. Server errors log at error level,
// client errors at warn and everything else at debug.
func Logger(log *logger.Logger) gin.HandlerFunc {
	z := log.Zap()
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", requestid.Get(c)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			z.Error("request failed", fields...)
		case status >= http.StatusBadRequest:
			z.Warn("client error", fields...)
		default:
			z.Debug("request", fields...)
		}
	}
}

// Recovery turns a panic in a handler into a JSON 500.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	z := log.Zap()
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				z.Error("panic recovered",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "internal server error",
				})
			}
		}()
		c.Next()
	}
}

// BodySizeLimit rejects request bodies larger than maxSize bytes.
func BodySizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error":    "request body too large",
				"max_size": maxSize,
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
