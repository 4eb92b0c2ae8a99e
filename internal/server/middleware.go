package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	intakehandler "now-hiring/internal/application/intake-handler"
	stderrors "now-hiring/internal/common/errors"
	"now-hiring/internal/common/logger"
	"now-hiring/internal/common/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID keeps an incoming X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequestIDFrom returns the id assigned by RequestID.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// ClientAddress hands the client IP gin resolved against the trusted proxy
// list to handlers mounted with gin.WrapH.
func ClientAddress() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(intakehandler.WithClientIP(c.Request.Context(), c.ClientIP()))
		c.Next()
	}
}

// AccessLog logs one line per request and records its duration.
func AccessLog(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)
		metrics.HTTPRequestDuration.
			WithLabelValues(route, c.Request.Method, strconv.Itoa(status)).
			Observe(elapsed.Seconds())

		fields := map[string]interface{}{
			"requestId":  RequestIDFrom(c),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"bytes":      c.Writer.Size(),
			"durationMs": elapsed.Milliseconds(),
			"clientIp":   c.ClientIP(),
		}
		if status >= http.StatusInternalServerError {
			log.Error("http request", fields)
			return
		}
		log.Info("http request", fields)
	}
}

// Recover turns a panic into a 500 with the standard error body.
func Recover(log logger.Logger) gin.HandlerFunc {
	errs := stderrors.NewErrorHandler(log)
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic while serving request", map[string]interface{}{
					"requestId": RequestIDFrom(c),
					"method":    c.Request.Method,
					"path":      c.Request.URL.Path,
					"panic":     rec,
				})
				if !c.Writer.Written() {
					errs.WriteError(c.Writer, stderrors.NewInternalError(fmt.Errorf("panic: %v", rec)))
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
