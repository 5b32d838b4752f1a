package middleware

import (
	"net/http"
	"strings"

	"go-profile-backend/internal/domain"
	"go-profile-backend/pkg/apperror"
	"go-profile-backend/pkg/auth"
	"go-profile-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware requires a bearer token whose subject is an existing user.
func AuthMiddleware(jwtSvc *auth.JWTService, authUC domain.AuthUsecase, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, apperror.Unauthorized("Authorization header is required"))
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			abortWith(c, apperror.Unauthorized("Invalid token format"))
			return
		}

		claims, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			log.Debug("token rejected", zap.Error(err), zap.String("request_id", c.GetString(string(domain.KeyRequestID))))
			abortWith(c, apperror.Unauthorized("Invalid or expired token"))
			return
		}

		// The account may have been deleted after the token was issued.
		user, err := authUC.GetCurrentUser(c.Request.Context(), claims.UserID)
		if err != nil {
			if apperror.StatusOf(err) == http.StatusNotFound {
				abortWith(c, apperror.Unauthorized("User not found"))
				return
			}
			abortWith(c, err)
			return
		}

		c.Set(string(domain.KeyUserID), user.ID)
		c.Set(string(domain.KeyUserEmail), user.Email)

		c.Next()
	}
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
