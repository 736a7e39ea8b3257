package middleware

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Payphone-Digital/marketplace/internal/constants"
	"github.com/Payphone-Digital/marketplace/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoggingMiddleware logs HTTP requests through zap instead of gin's writer
func LoggingMiddleware(slowThreshold time.Duration) gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			logger.LogRequest(
				param.Method,
				param.Path,
				param.StatusCode,
				param.Latency.Milliseconds(),
				param.ClientIP,
				param.Request.UserAgent(),
			)

			if param.ErrorMessage != "" {
				logger.GetLogger().Error("Request error",
					zap.String("error", param.ErrorMessage),
					zap.String("method", param.Method),
					zap.String("path", param.Path),
					zap.Int("status_code", param.StatusCode),
				)
			}

			if slowThreshold > 0 && param.Latency > slowThreshold {
				logger.GetLogger().Warn("Slow request detected",
					zap.String("method", param.Method),
					zap.String("path", param.Path),
					zap.Duration("latency", param.Latency),
				)
			}

			return ""
		},
		Output:    io.Discard,
		SkipPaths: []string{"/api/health"},
	})
}

// RecoveryMiddleware turns a panic into a 500 {message} response
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.LogPanic(recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, constants.BuildErrorResponse(constants.MsgInternalError))
	})
}

// SecurityLoggingMiddleware logs login attempts and scanner user agents
func SecurityLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		userAgent := c.Request.UserAgent()

		if isSuspiciousUserAgent(userAgent) {
			logger.GetLogger().Warn("Suspicious user agent detected",
				zap.String("client_ip", clientIP),
				zap.String("user_agent", userAgent),
				zap.String("path", c.Request.URL.Path),
			)
		}

		if c.Request.Method == http.MethodPost && c.FullPath() == "/user/login" {
			logger.GetLogger().Info("Login attempt",
				zap.String("client_ip", clientIP),
				zap.String("user_agent", userAgent),
			)
		}

		c.Next()
	}
}

func isSuspiciousUserAgent(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, pattern := range []string{"sqlmap", "nikto", "nmap", "masscan", "burp"} {
		if strings.Contains(ua, pattern) {
			return true
		}
	}
	return false
}
