package middleware

import (
	"strings"

	"github.com/GabeHenrique/ong-connect-api/internal/auth"
	"github.com/GabeHenrique/ong-connect-api/internal/constants"
	apierrors "github.com/GabeHenrique/ong-connect-api/internal/errors"
	"github.com/GabeHenrique/ong-connect-api/internal/models"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Principal is the authenticated caller
type Principal struct {
	UserID uint64
	Email  string
	Role   models.UserRole
}

// RequireAuth checks the Bearer token, falling back to the token stored in
// the session at login.
func RequireAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token = sessionToken(c)
		}

		if token == "" {
			apierrors.Unauthorized(c, "")
			return
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			return
		}

		userID, err := claims.UserID()
		role := models.UserRole(claims.Role)
		if err != nil || !role.Valid() {
			apierrors.Unauthorized(c, "Invalid or expired token")
			return
		}

		// Store the principal in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Set(constants.ContextKeyUserEmail, claims.Email)
		c.Set(constants.ContextKeyUserRole, role)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func sessionToken(c *gin.Context) string {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return ""
	}
	token, _ := sessions.Default(c).Get(constants.SessionKeyAccessToken).(string)
	return token
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	v, ok := userID.(uint64)
	return v, ok
}

// GetPrincipal retrieves the authenticated caller from context
func GetPrincipal(c *gin.Context) (Principal, bool) {
	userID, ok := GetUserID(c)
	if !ok {
		return Principal{}, false
	}

	return Principal{
		UserID: userID,
		Email:  c.GetString(constants.ContextKeyUserEmail),
		Role:   userRole(c),
	}, true
}

func userRole(c *gin.Context) models.UserRole {
	role, _ := c.Get(constants.ContextKeyUserRole)
	r, _ := role.(models.UserRole)
	return r
}
