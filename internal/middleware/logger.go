package middleware

import (
	"time"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/sirupsen/logrus"
)

// RequestLogger emits one structured log line per request.
func RequestLogger(log *logrus.Logger) drift.HandlerFunc {
	return func(c *drift.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path

		c.Next()

		log.WithFields(logrus.Fields{
			"method":   method,
			"path":     path,
			"duration": time.Since(start).String(),
		}).Info("request handled")
	}
}
