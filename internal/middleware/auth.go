package middleware

import (
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
	"github.com/leonardo-school/simulation-service/internal/models"
	"github.com/leonardo-school/simulation-service/internal/repositories"
	"github.com/leonardo-school/simulation-service/internal/utils"
)

const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
)

// NewCasdoorClient builds the identity client from configuration values.
func NewCasdoorClient(endpoint, clientID, clientSecret, certificate, organization, application string) *casdoorsdk.Client {
	return casdoorsdk.NewClient(endpoint, clientID, clientSecret, certificate, organization, application)
}

// Authenticate validates the bearer token against Casdoor and loads the
// caller's identity into the request context. The local user row is synced
// lazily so the rest of the service can join on users without talking to the
// identity provider.
func Authenticate(client *casdoorsdk.Client, repo repositories.Repository, logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		claims, err := client.ParseJwtToken(token)
		if err != nil {
			logger.Warn("Token validation failed", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}

		role := roleFromClaims(claims)
		user := &models.User{
			ID:       claims.User.Id,
			FullName: claims.User.DisplayName,
			Email:    claims.User.Email,
			Role:     role,
			IsActive: !claims.User.IsForbidden,
		}

		if err := repo.User().Upsert(c.Request.Context(), user); err != nil {
			// Stale local data is acceptable; the claims are authoritative
			// for this request.
			logger.Warn("Failed to sync user from token", "user_id", user.ID, "error", err)
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserRole, role)
		c.Next()
	}
}

// RequireStaff rejects requests from non-staff callers before they reach the
// handler. Services re-check permissions; this just fails fast.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetUserRole(c)
		if !role.IsStaff() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "staff access required"})
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user's id from the request context.
func GetUserID(c *gin.Context) string {
	if id, exists := c.Get(ContextUserID); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

// GetUserRole returns the authenticated user's role, defaulting to student.
func GetUserRole(c *gin.Context) models.UserRole {
	if role, exists := c.Get(ContextUserRole); exists {
		if r, ok := role.(models.UserRole); ok {
			return r
		}
	}
	return models.RoleStudent
}

// roleFromClaims maps the Casdoor user onto a service role. Admin status
// comes from Casdoor itself; collaborators are tagged in the organization.
func roleFromClaims(claims *casdoorsdk.Claims) models.UserRole {
	if claims.User.IsAdmin {
		return models.RoleAdmin
	}
	switch models.UserRole(claims.User.Tag) {
	case models.RoleCollaborator:
		return models.RoleCollaborator
	default:
		return models.RoleStudent
	}
}
