package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tyee-ai/gpu-thermal/internal/api/dto"
)

// ErrorHandlerMiddleware logs errors attached to the context and, if the
// handler wrote nothing, answers with a 500 ErrorResponse
func ErrorHandlerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()
		logger.Error("Request error",
			zap.String("error", err.Error()),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.String("request_id", c.GetString(RequestIDKey)),
		)

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
				Error:     "Internal Server Error",
				Message:   err.Error(),
				Timestamp: time.Now(),
			})
		}
	}
}
