package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/postlens/post-analyzer-api/internal/handler/dto"
	"github.com/postlens/post-analyzer-api/internal/ierr"
	"go.uber.org/zap"
)

func ErrorHandlerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("ErrorHandler")
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		log.Error("Request failed", zap.Error(err))

		status := http.StatusInternalServerError
		errResponse := dto.APIErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "An unexpected error occurred.",
		}

		var ve validator.ValidationErrors

		if errors.As(err, &ve) {
			status = http.StatusBadRequest
			errResponse.Code = "VALIDATION_ERROR"
			errResponse.Message = "Input validation failed."
			errResponse.Details = buildValidationErrors(ve)
		} else {
			switch {
			case errors.Is(err, ierr.ErrValidation), errors.Is(err, ierr.ErrMalformedRequest):
				status = http.StatusBadRequest
				errResponse.Code = "VALIDATION_ERROR"
				errResponse.Message = err.Error()
			case errors.Is(err, ierr.ErrNoUpstreamCredential):
				status = http.StatusBadRequest
				errResponse.Code = "NO_UPSTREAM_CREDENTIAL"
				errResponse.Message = "No model API key configured. Add your Gemini API key in the Credentials tab."
			case errors.Is(err, ierr.ErrUnauthorized), errors.Is(err, ierr.ErrInvalidToken):
				status = http.StatusUnauthorized
				errResponse.Code = "UNAUTHENTICATED"
				errResponse.Message = "Authentication required or failed."
			case errors.Is(err, ierr.ErrForbidden):
				status = http.StatusForbidden
				errResponse.Code = "FORBIDDEN"
				errResponse.Message = "Access denied."
			case errors.Is(err, ierr.ErrNotFound), errors.Is(err, ierr.ErrAccountNotFound):
				status = http.StatusNotFound
				errResponse.Code = "NOT_FOUND"
				errResponse.Message = "The requested resource was not found."
			case errors.Is(err, ierr.ErrConflict):
				status = http.StatusConflict
				errResponse.Code = "CONFLICT"
				errResponse.Message = err.Error()
			case errors.Is(err, ierr.ErrUpstreamParseFailure):
				status = http.StatusInternalServerError
				errResponse.Code = "UPSTREAM_PARSE_FAILURE"
				errResponse.Message = "Failed to parse analysis results. The model returned an unexpected format."
			case errors.Is(err, ierr.ErrUpstreamInvalidAPIKey):
				status = http.StatusUnauthorized
				errResponse.Code = "UPSTREAM_KEY_REJECTED"
				errResponse.Message = "Invalid or expired model API key. Please update your credentials."
			case errors.Is(err, ierr.ErrUpstreamUnavailable):
				status = http.StatusInternalServerError
				errResponse.Code = "UPSTREAM_UNAVAILABLE"
				errResponse.Message = "Analysis failed. Please try again."
			default:
				errResponse.Message = "An unexpected error occurred."
			}
		}

		c.AbortWithStatusJSON(status, errResponse)
	}
}

func buildValidationErrors(ve validator.ValidationErrors) []dto.FieldError {
	details := make([]dto.FieldError, len(ve))
	for i, fe := range ve {
		details[i] = dto.FieldError{
			Field:   fe.Field(),
			Message: getValidationErrorMsg(fe),
		}
	}
	return details
}

func getValidationErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Field '%s' is required", fe.Field())
	case "min":
		return fmt.Sprintf("Field '%s' must be at least %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("Field '%s' must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("Field '%s' failed validation on the '%s' tag", fe.Field(), fe.Tag())
	}
}
