package middleware

import (
	"errors"
	"net/http"

	"go-profile-backend/internal/delivery/http/response"
	"go-profile-backend/internal/domain"
	"go-profile-backend/pkg/apperror"
	"go-profile-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler renders the last error pushed with c.Error. Field errors go in
// the "error" member; anything that is not an AppError, and every 500, is
// logged and answered with a generic message.
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.Internal(err)
		}

		if appErr.Code >= http.StatusInternalServerError {
			log.Error("request failed", err,
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.String("request_id", c.GetString(string(domain.KeyRequestID))),
			)
			response.Error(c, appErr.Code, "An unexpected error occurred. Please try again later.", nil)
			return
		}

		if len(appErr.Fields) > 0 {
			response.Error(c, appErr.Code, appErr.Message, appErr.Fields)
			return
		}
		response.Error(c, appErr.Code, appErr.Message, nil)
	}
}
