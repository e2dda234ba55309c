package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zerofoodhero/api/internal/model"
	"github.com/zerofoodhero/api/internal/repository"
	"github.com/zerofoodhero/api/pkg/auth"
)

const (
	// ContextUser holds the authenticated *model.User
	ContextUser = "current_user"
)

// AuthMiddleware validates session tokens and gates routes by role
type AuthMiddleware struct {
	jwtSvc   auth.JWTService
	userRepo repository.UserRepository
}

func NewAuthMiddleware(jwtSvc auth.JWTService, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{jwtSvc: jwtSvc, userRepo: userRepo}
}

// Authenticate resolves the bearer token to a user record
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abort(c, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := m.jwtSvc.ValidateToken(token)
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		user, err := m.userRepo.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			abort(c, http.StatusUnauthorized, "account no longer exists")
			return
		}

		c.Set(ContextUser, user)
		c.Next()
	}
}

// RequireRole gates a route to the listed roles. Admin passes every gate.
func (m *AuthMiddleware) RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abort(c, http.StatusUnauthorized, "authentication required")
			return
		}
		if user.Role == model.RoleAdmin {
			c.Next()
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "insufficient role")
	}
}

// CurrentUser returns the authenticated user set by Authenticate, or nil
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil
	}
	user, ok := v.(*model.User)
	if !ok {
		return nil
	}
	return user
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"status":  "error",
		"message": message,
	})
}
