package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "tiponx-backend/internal/common/errors"
)

// ErrorResponse is the envelope for error replies.
type ErrorResponse struct {
	Success   bool                `json:"success"`
	Error     *apperrors.AppError `json:"error"`
	Timestamp time.Time           `json:"timestamp"`
	RequestID string              `json:"request_id"`
}

// Recovery converts panics into a logged 500 with a generic body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID := GetRequestID(c)

		log.Error().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("panic", fmt.Sprintf("%v", recovered)).
			Str("stack", string(debug.Stack())).
			Msg("Panic recovered")

		appErr := apperrors.New(apperrors.ErrCodeInternal, "Internal server error").
			WithRequestID(requestID)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Success:   false,
			Error:     appErr,
			Timestamp: time.Now(),
			RequestID: requestID,
		})
	})
}

// RespondError writes err as a JSON error response, sanitizing internal
// causes so store and adapter failures are never echoed to clients.
func RespondError(c *gin.Context, err error) {
	requestID := GetRequestID(c)

	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Wrap(err, apperrors.ErrCodeInternal, "Internal server error")
	}
	appErr.WithRequestID(requestID)

	logEvent := log.Warn()
	if appErr.IsInternal() {
		logEvent = log.Error()
	}
	logEvent.
		Str("request_id", requestID).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("error_code", string(appErr.Code)).
		Err(appErr).
		Msg("request failed")

	if appErr.IsInternal() {
		// Full context is in the logs; clients get a generic message.
		appErr = apperrors.New(appErr.Code, "Internal server error").WithRequestID(requestID)
	}

	c.AbortWithStatusJSON(appErr.HTTPStatus(), ErrorResponse{
		Success:   false,
		Error:     appErr,
		Timestamp: time.Now(),
		RequestID: requestID,
	})
}
