package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const RequestIDHeader = "X-Request-Id"

// RequestID tags every request with an id and hangs a request-scoped
// logger on the context.
func RequestID(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)

		reqLog := log.With().Str("request_id", id).Str("method", c.Request.Method).Str("path", c.FullPath()).Logger()
		c.Set("logger", reqLog)

		c.Next()
	}
}

// RequestLogger returns the request-scoped logger, falling back to the
// global one when the middleware did not run.
func RequestLogger(c *gin.Context) zerolog.Logger {
	if v, ok := c.Get("logger"); ok {
		if l, ok := v.(zerolog.Logger); ok {
			return l
		}
	}
	return zerolog.Nop()
}
