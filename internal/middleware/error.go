package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "byapar/internal/errors"
	"byapar/internal/logger"
	"byapar/internal/response"
)

// ErrorHandler returns a Gin middleware that converts errors set on the Gin
// context into consistent envelope responses. AppErrors are returned with
// their message and status; unexpected errors are logged and return a generic
// internal error to avoid leaking details.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// Process the last error (most relevant in a middleware chain)
		err := c.Errors.Last().Err

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if appErr.Internal != nil {
				logger.Get().Errorw("app error",
					"code", appErr.Code,
					"message", appErr.Message,
					"internal", appErr.Internal.Error(),
					"path", c.Request.URL.Path,
				)
			}
			response.Fail(c, appErr.StatusCode, appErr.Code, appErr.Message)
			return
		}

		// Unexpected error: log full details, return generic message
		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		response.Fail(c, apperrors.ErrInternalServer.StatusCode, apperrors.ErrInternalServer.Code, apperrors.ErrInternalServer.Message)
	}
}
