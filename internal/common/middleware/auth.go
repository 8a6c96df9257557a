package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "broadcast-tool-backend/internal/common/errors"
	authservice "broadcast-tool-backend/internal/features/auth/service"
	usermodels "broadcast-tool-backend/internal/features/user/models"
	userservice "broadcast-tool-backend/internal/features/user/service"
)

// Authenticate validates the Bearer token and stores the claims in the
// request context.
func Authenticate(authSvc authservice.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			AbortWithError(c, apperrors.NewUnauthorizedError("missing Authorization header"))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			AbortWithError(c, apperrors.NewUnauthorizedError("malformed Authorization header"))
			return
		}

		claims, err := authSvc.ParseAccessToken(parts[1])
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireRole allows only the listed roles through. Admin always passes.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles)+1)
	allowed[usermodels.RoleAdmin] = true
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			AbortWithError(c, apperrors.NewUnauthorizedError("authentication required"))
			return
		}

		if !allowed[role] {
			AbortWithError(c, apperrors.NewForbiddenError("insufficient role").
				WithDetail("role", role))
			return
		}

		c.Next()
	}
}

// CheckAccountStatus rejects requests from banned or deactivated accounts.
// Token role claims stay valid until expiry, so the status check goes to the
// database on every protected request.
func CheckAccountStatus(userSvc userservice.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64("user_id")
		if userID == 0 {
			c.Next()
			return
		}

		user, err := userSvc.GetUser(c.Request.Context(), userID)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		switch user.Status {
		case usermodels.StatusBanned:
			AbortWithError(c, apperrors.New(apperrors.ErrCodeUserBanned, "Account has been banned").
				WithUserID(userID))
			return
		case usermodels.StatusInactive:
			AbortWithError(c, apperrors.New(apperrors.ErrCodeUserInactive, "Account is inactive").
				WithUserID(userID))
			return
		}

		c.Next()
	}
}
