package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "byapar/internal/errors"
	"byapar/internal/logger"
	"byapar/internal/middleware"
	"byapar/internal/models"
	"byapar/internal/nepali"
	"byapar/internal/response"
)

// currentUser extracts the authenticated user from the Gin context.
// Returns ErrUnauthorized if not present.
func currentUser(c *gin.Context) (*models.User, error) {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil, apperrors.ErrUnauthorized
	}
	return value.(*models.User), nil
}

// parsePathID parses a uint path parameter. Devanagari numerals are
// accepted alongside ASCII digits.
func parsePathID(c *gin.Context, param string) (uint, error) {
	raw := nepali.ToEnglishDigits(c.Param(param))
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return uint(id), nil
}

// respondWithError writes a consistent envelope error response. If the error
// is an *AppError it uses the error's status code and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		response.Fail(c, appErr.StatusCode, appErr.Code, appErr.Message)
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	response.Fail(c, apperrors.ErrInternalServer.StatusCode, apperrors.ErrInternalServer.Code, apperrors.ErrInternalServer.Message)
}

// respondWithBindingError converts a gin binding failure into a 400
// validation response with one message per failed field.
func respondWithBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = validationMessage(fe)
		}
		response.ValidationFailed(c, fields)
		return
	}
	response.Fail(c, apperrors.ErrInvalidInput.StatusCode, apperrors.ErrInvalidInput.Code, err.Error())
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Value is below the minimum of " + fe.Param()
	case "max":
		return "Value exceeds the maximum of " + fe.Param()
	case "nepali_phone":
		return "Must be a valid Nepali phone number"
	default:
		return "Invalid value"
	}
}
