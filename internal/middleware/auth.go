// File: internal/middleware/auth.go
package middleware

import (
	"strings"

	"barberlink_backend/internal/common"
	"barberlink_backend/internal/firebase"
	"barberlink_backend/internal/profile"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// AuthorizationHeader is the header name for authorization token
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the prefix for Bearer tokens
	AuthorizationTypeBearer = "Bearer"
	// SubjectIDKey is the context key for the provider subject (Firebase UID)
	SubjectIDKey = "subjectID"
	// UserEmailKey is the context key for the authenticated user's email
	UserEmailKey = "userEmail"
	// UserRoleKey is the context key for the authenticated user's role
	UserRoleKey = "userRole"
	// ProfileIDKey is the context key for the canonical profile ID
	ProfileIDKey = "profileID"
)

// AuthMiddleware verifies the Firebase ID token carried in the Authorization
// header and resolves the caller's role from the profile table. Callers
// without a profile record are treated as plain clients.
func AuthMiddleware(verifier *firebase.Service, profiles profile.Repository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			logger.Debug("Authorization header missing")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header is required."))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], AuthorizationTypeBearer) {
			logger.Debug("Authorization header format invalid")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'."))
			return
		}

		token, err := verifier.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			logger.Warn("ID token verification failed", zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired ID token."))
			return
		}

		email := ""
		if v, ok := token.Claims["email"].(string); ok {
			email = v
		}

		role := common.RoleClient
		if email != "" {
			record, err := profiles.FindByEmail(c.Request.Context(), email)
			if err == nil {
				role = record.Role
				c.Set(ProfileIDKey, record.ID)
			}
		}

		c.Set(SubjectIDKey, token.UID)
		c.Set(UserEmailKey, email)
		c.Set(UserRoleKey, role)

		logger.Debug("User authenticated successfully",
			zap.String("subjectID", token.UID),
			zap.String("email", email),
			zap.String("role", role),
		)

		c.Next()
	}
}

// GetSubjectIDFromContext retrieves the provider subject ID from the context.
func GetSubjectIDFromContext(c *gin.Context) string {
	return c.GetString(SubjectIDKey)
}

// GetProfileIDFromContext retrieves the canonical profile ID from the Gin
// context. Returns uuid.Nil when the caller has no profile record.
func GetProfileIDFromContext(c *gin.Context) uuid.UUID {
	val, exists := c.Get(ProfileIDKey)
	if !exists {
		return uuid.Nil
	}
	id, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

// GetUserRoleFromContext retrieves the user role from the Gin context.
func GetUserRoleFromContext(c *gin.Context) string {
	val, exists := c.Get(UserRoleKey)
	if !exists {
		return ""
	}
	role, ok := val.(string)
	if !ok {
		return ""
	}
	return role
}

// RoleAuthMiddleware creates a middleware to check if the authenticated user has one of the required roles.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := GetUserRoleFromContext(c)
		if userRole == "" {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("User role not found in context."))
			return
		}

		isAllowed := false
		for _, role := range allowedRoles {
			if userRole == role {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("You do not have sufficient permissions for this resource."))
			return
		}
		c.Next()
	}
}
