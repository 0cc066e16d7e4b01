package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/saudelog/agenda-api/pkg/httputil"
)

const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
	ContextTenantID = "tenant_id"

	RoleAdmin = "admin"
)

type AuthMiddleware struct {
	jwtSecret []byte
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: []byte(jwtSecret)}
}

// Authenticate resolves the caller identity. A Bearer token takes precedence;
// the X-User-ID / X-User-Role / X-Tenant-ID headers are accepted for callers
// behind the gateway, which strips them from external traffic.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				abortUnauthorized(c, "invalid authorization format")
				return
			}
			claims, err := m.parseToken(parts[1])
			if err != nil {
				abortUnauthorized(c, "invalid token")
				return
			}
			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextUserRole, claims.Role)
			c.Set(ContextTenantID, claims.TenantID)
			c.Next()
			return
		}

		userID := c.GetHeader("X-User-ID")
		tenantID := c.GetHeader("X-Tenant-ID")
		if userID == "" || tenantID == "" {
			abortUnauthorized(c, "missing credentials")
			return
		}
		if _, err := uuid.Parse(tenantID); err != nil {
			abortUnauthorized(c, "invalid tenant ID")
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUserRole, c.GetHeader("X-User-Role"))
		c.Set(ContextTenantID, tenantID)
		c.Next()
	}
}

// RequireAdmin guards destructive operations.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserRole) != RoleAdmin {
			c.JSON(http.StatusForbidden, httputil.Response{Status: "error", Message: "admin role required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

type apiClaims struct {
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}

func (m *AuthMiddleware) parseToken(tokenString string) (*apiClaims, error) {
	claims := &apiClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

// TenantID reads the tenant set by Authenticate. The second return is false
// when the value is missing or malformed, which means a routing bug.
func TenantID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString(ContextTenantID)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, httputil.Response{Status: "error", Message: message})
	c.Abort()
}
