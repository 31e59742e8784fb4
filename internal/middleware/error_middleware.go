package middleware

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/campusbuzz/backend/internal/app/models/dto"
	"github.com/campusbuzz/backend/internal/pkg/apperrors"
)

// HandleAPIError maps service errors to HTTP responses. Controllers
// funnel every non-nil service error through here.
func HandleAPIError(c *gin.Context, err error) {
	// Unwrap CustomError to surface its message
	var custom *apperrors.CustomError
	message := ""
	if errors.As(err, &custom) {
		message = custom.Message
	}

	respond := func(status int, code dto.ErrorCode, fallback string) {
		if message == "" {
			message = fallback
		}
		c.JSON(status, dto.APIResponse{
			Error: dto.NewErrorDetail(code, message),
		})
	}

	switch {
	// Authentication
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(401, dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(401, dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		respond(401, dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrTokenNotFound):
		respond(401, dto.ErrorCodeTokenNotFound, "Token not found")
	case errors.Is(err, apperrors.ErrAccountDisabled):
		respond(403, dto.ErrorCodeAccountDisabled, "Account is disabled")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(403, dto.ErrorCodeForbidden, "Permission denied")

	// Connections
	case errors.Is(err, apperrors.ErrSelfConnection):
		respond(400, dto.ErrorCodeValidationFailed, "Cannot connect with yourself")
	case errors.Is(err, apperrors.ErrAlreadyConnected):
		respond(409, dto.ErrorCodeConflict, "Already connected")
	case errors.Is(err, apperrors.ErrRequestAlreadySent):
		respond(409, dto.ErrorCodeConflict, "Connection request already sent")
	case errors.Is(err, apperrors.ErrRequestNotFound):
		respond(404, dto.ErrorCodeResourceNotFound, "Connection request not found")
	case errors.Is(err, apperrors.ErrConnectionNotFound):
		respond(404, dto.ErrorCodeResourceNotFound, "Connection not found")
	case errors.Is(err, apperrors.ErrInvalidTransition):
		respond(409, dto.ErrorCodeConflict, "Invalid connection state transition")
	case errors.Is(err, apperrors.ErrNotConnected):
		respond(403, dto.ErrorCodeForbidden, "You can only message your connections")

	// Messaging
	case errors.Is(err, apperrors.ErrMessageNotFound):
		respond(404, dto.ErrorCodeResourceNotFound, "Message not found")
	case errors.Is(err, apperrors.ErrEmptyMessage):
		respond(400, dto.ErrorCodeValidationFailed, "Message must have content, images or a shared post")

	// Users
	case errors.Is(err, apperrors.ErrUserNotFound):
		respond(404, dto.ErrorCodeResourceNotFound, "User not found")
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		respond(409, dto.ErrorCodeResourceAlreadyExists, "Email already exists")
	case errors.Is(err, apperrors.ErrUsernameAlreadyExists):
		respond(409, dto.ErrorCodeResourceAlreadyExists, "Username already exists")

	// Content
	case errors.Is(err, apperrors.ErrPostNotFound):
		respond(404, dto.ErrorCodeResourceNotFound, "Post not found")
	case errors.Is(err, apperrors.ErrCommentNotFound):
		respond(404, dto.ErrorCodeResourceNotFound, "Comment not found")
	case errors.Is(err, apperrors.ErrEventNotFound):
		respond(404, dto.ErrorCodeResourceNotFound, "Event not found")
	case errors.Is(err, apperrors.ErrActivityNotFound):
		respond(404, dto.ErrorCodeResourceNotFound, "Activity not found")
	case errors.Is(err, apperrors.ErrNoticeNotFound):
		respond(404, dto.ErrorCodeResourceNotFound, "Notice not found")
	case errors.Is(err, apperrors.ErrPlacementNotFound):
		respond(404, dto.ErrorCodeResourceNotFound, "Placement not found")
	case errors.Is(err, apperrors.ErrItemNotFound):
		respond(404, dto.ErrorCodeResourceNotFound, "Lost and found item not found")

	// Generic
	case errors.Is(err, apperrors.ErrResourceNotFound):
		respond(404, dto.ErrorCodeResourceNotFound, "Resource not found")
	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		respond(409, dto.ErrorCodeResourceAlreadyExists, "Resource already exists")
	case errors.Is(err, apperrors.ErrConflict):
		respond(409, dto.ErrorCodeConflict, "Conflict")
	case errors.Is(err, apperrors.ErrValidationFailed):
		respond(400, dto.ErrorCodeValidationFailed, "Validation failed")
	case errors.Is(err, apperrors.ErrBadRequest):
		respond(400, dto.ErrorCodeValidationFailed, "Bad request")

	default:
		respond(500, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

// HandleValidationError maps a request-binding error to a 400 response.
func HandleValidationError(c *gin.Context, err error) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fieldError := validationErrors[0]
		errorDetail = errorDetail.
			WithField(fieldError.Field()).
			WithDetails(fmt.Sprintf("failed on the '%s' rule", fieldError.Tag()))
	} else {
		errorDetail = errorDetail.WithDetails(err.Error())
	}

	c.JSON(400, dto.APIResponse{Error: errorDetail})
}
