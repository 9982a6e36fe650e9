package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "requestId"
	loggerKey       = "logger"
)

// LoggingMiddleware assigns every request an ID (reusing the caller's
// X-Request-ID when sent), stores a request-scoped logger in the context
// and writes one access log entry once the handler chain has finished.
func LoggingMiddleware(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)
		c.Set(requestIDKey, requestID)

		reqLogger := logger.WithField("request_id", requestID)
		c.Set(loggerKey, reqLogger)

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		entry := reqLogger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"route":     route,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
			"bytes":     c.Writer.Size(),
		})
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("request completed")
		case status >= 400:
			entry.Warn("request completed")
		default:
			entry.Info("request completed")
		}
	}
}

// GetRequestID returns the ID assigned by LoggingMiddleware.
func GetRequestID(c *gin.Context) (string, bool) {
	requestID, exists := c.Get(requestIDKey)
	if !exists {
		return "", false
	}
	return requestID.(string), true
}
