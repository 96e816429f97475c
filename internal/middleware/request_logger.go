package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/spsina/bookStore/internal/logging"
)

// RequestLogger logs one line per request and puts a logger tagged with
// the request id into the request context. Run it after RequestID.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = req.Header.Get(echo.HeaderXRequestID)
			}
			reqLogger := logger.With(zap.String("request_id", rid))
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), reqLogger)))

			err := next(c)
			if err != nil {
				// let echo write the response so the status is final
				c.Error(err)
			}

			status := c.Response().Status
			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", c.Path()),
				zap.String("uri", req.RequestURI),
				zap.Int("status", status),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			}
			switch {
			case status >= 500:
				reqLogger.Error("request", fields...)
			case status >= 400:
				reqLogger.Warn("request", fields...)
			default:
				reqLogger.Info("request", fields...)
			}
			return nil
		}
	}
}
