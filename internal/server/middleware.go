package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// errorEnvelope is the uniform failure shape every operation answers with.
type errorEnvelope struct {
	Success   bool          `json:"success"`
	Exception exceptionBody `json:"exception"`
}

type exceptionBody struct {
	Message string `json:"message"`
}

// respondError maps a core error into the envelope. All core errors carry
// their client-facing message directly.
func respondError(c *gin.Context, err error) {
	respondMessage(c, err.Error())
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, errorEnvelope{
		Success:   false,
		Exception: exceptionBody{Message: message},
	})
}

// LoggingMiddleware logs one line per request.
func LoggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// RecoveryMiddleware converts handler panics into the error envelope so a
// single bad request never takes the process down.
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("handler panic",
					zap.String("path", c.Request.URL.Path),
					zap.Any("panic", r),
				)
				c.Abort()
				respondMessage(c, "Internal server error")
			}
		}()
		c.Next()
	}
}
