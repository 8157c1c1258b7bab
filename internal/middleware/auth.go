package middleware

import (
	"strconv"
	"strings"

	"hajj_backend/internal/auth"
	"hajj_backend/internal/logger"
	"hajj_backend/pkg/apperrors"
	"hajj_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware - middleware проверки JWT. Только идентифицирует пользователя.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			c.Abort()
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseToken(tokenStr, secret)
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrInvalidToken.WithError(err))
			c.Abort()
			return
		}

		c.Set(contextkeys.UserIDKey, claims.UserID)
		c.Set(contextkeys.RoleKey, claims.Role)

		ctx := logger.WithUserID(c.Request.Context(), strconv.FormatUint(uint64(claims.UserID), 10))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста, 0 если его нет
func GetUserID(c *gin.Context) uint {
	userID, exists := c.Get(contextkeys.UserIDKey)
	if !exists {
		return 0
	}

	id, ok := userID.(uint)
	if !ok {
		return 0
	}

	return id
}
