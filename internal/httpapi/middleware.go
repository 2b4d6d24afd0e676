// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/giftlink/giftlink/internal/logging"
)

const (
	// HeaderRequestID is echoed back, or generated when absent.
	HeaderRequestID = "X-Request-ID"

	readHeaderTimeout = 10 * time.Second
	maxRequestIDLen   = 128
	tracerName        = "github.com/giftlink/giftlink/internal/httpapi"
)

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLen {
			id = ulid.Make().String()
		}
		c.Header(HeaderRequestID, id)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// accessLog wraps each request in a span, then records the response in
// metrics and the log.
func (h *handler) accessLog() gin.HandlerFunc {
	tracer := otel.Tracer(tracerName)
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+route)
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)
		h.metrics.ObserveHTTP(route, c.Request.Method, status)

		level := slogLevelFor(status)
		h.logger.Log(ctx, level, "http request",
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

func (h *handler) recover(c *gin.Context, recovered any) {
	h.logger.ErrorContext(c.Request.Context(), "panic in handler", "panic", recovered)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
}

func slogLevelFor(status int) slog.Level {
	if status >= http.StatusInternalServerError {
		return slog.LevelError
	}
	return slog.LevelInfo
}
