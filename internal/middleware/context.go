package middleware

import (
	"context"
	"time"

	"github.com/Payphone-Digital/marketplace/internal/constants"
	ctxutil "github.com/Payphone-Digital/marketplace/pkg/context"
	"github.com/Payphone-Digital/marketplace/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextMiddleware seeds the request context with tracking values and a deadline
func ContextMiddleware(module string, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = c.GetHeader(constants.HeaderXCorrelationID)
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(constants.HeaderXRequestID, requestID)

		ctx := ctxutil.WithRequestInfo(c.Request.Context(), requestID, c.ClientIP(), c.GetHeader(constants.HeaderUserAgent))
		ctx = ctxutil.NewContextWithRequest(ctx, module, c.FullPath())

		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		c.Request = c.Request.WithContext(ctx)

		logger.DebugWithContext(ctx, "Request started").
			Method(c.Request.Method).
			Path(c.Request.URL.Path).
			String("query", c.Request.URL.RawQuery).
			Log()

		c.Next()

		logger.InfoWithContext(ctx, "Request completed").
			Method(c.Request.Method).
			Path(c.Request.URL.Path).
			StatusCode(c.Writer.Status()).
			Int("response_size", c.Writer.Size()).
			Duration(ctxutil.GetDuration(ctx)).
			Log()
	}
}
