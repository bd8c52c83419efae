package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Logger logs every processed request with logrus
func Logger(logger logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err) // response must be committed before status is read
			}

			req := c.Request()
			res := c.Response()

			logger.WithFields(logrus.Fields{
				"method":  req.Method,
				"uri":     req.RequestURI,
				"status":  res.Status,
				"latency": time.Since(start).String(),
				"remote":  c.RealIP(),
			}).Info("request processed")

			return nil
		}
	}
}
