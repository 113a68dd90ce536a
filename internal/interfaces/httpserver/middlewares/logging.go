package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// healthRoutes are polled constantly; successful hits log at debug.
var healthRoutes = map[string]struct{}{
	"/":        {},
	"/healthz": {},
	"/readyz":  {},
	"/metrics": {},
}

// LoggingMiddleware writes one access log line per request, keyed by route
// template. The query string is left out because list calls carry owner ids
// in it.
func LoggingMiddleware(logger zerolog.Logger) gin.HandlerFunc {
	logger = logger.With().Str("component", "http").Logger()

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		event := accessLevel(logger, route, status)
		if !event.Enabled() {
			return
		}

		if sc := trace.SpanFromContext(c.Request.Context()).SpanContext(); sc.IsValid() {
			event = event.
				Str("trace_id", sc.TraceID().String()).
				Str("span_id", sc.SpanID().String())
		}
		if id := RequestIDFromContext(c); id != "" {
			event = event.Str("request_id", id)
		}
		if id := c.Param("id"); id != "" {
			event = event.Str("conversation_id", id)
		}
		if last := c.Errors.Last(); last != nil {
			event = event.Err(last.Err)
		}

		event.
			Str("method", c.Request.Method).
			Str("route", route).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Msg("http request")
	}
}

func accessLevel(logger zerolog.Logger, route string, status int) *zerolog.Event {
	switch {
	case status >= 500:
		return logger.Error()
	case status >= 400:
		return logger.Warn()
	}
	if _, ok := healthRoutes[route]; ok {
		return logger.Debug()
	}
	return logger.Info()
}
