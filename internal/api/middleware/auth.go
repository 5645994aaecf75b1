package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/theline-social/theline/pkg/response"
)

const (
	// CtxUserID is the gin context key the verified account id is stored
	// under. Employee tokens store under CtxEmployeeID instead.
	CtxUserID     = "userID"
	CtxEmployeeID = "employeeID"
)

// parseToken verifies the bearer token and returns (subject id, scope).
func parseToken(raw, secret string) (uint, string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, "", jwt.ErrTokenUnverifiable
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", jwt.ErrTokenInvalidClaims
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, "", jwt.ErrTokenInvalidSubject
	}
	scope, _ := claims["scope"].(string)
	return uint(sub), scope, nil
}

func bearer(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	// websocket clients cannot set headers from the browser
	return c.Query("token")
}

// Auth gates a route group behind a valid user token.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearer(c)
		if raw == "" {
			response.Unauthorized(c, "missing token")
			c.Abort()
			return
		}
		id, scope, err := parseToken(raw, secret)
		if err != nil || scope != "user" {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}
		c.Set(CtxUserID, id)
		c.Next()
	}
}

// EmployeeAuth gates staff-only routes.
func EmployeeAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearer(c)
		if raw == "" {
			response.Unauthorized(c, "missing token")
			c.Abort()
			return
		}
		id, scope, err := parseToken(raw, secret)
		if err != nil || scope != "employee" {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}
		c.Set(CtxEmployeeID, id)
		c.Next()
	}
}

// UserID reads the verified account id set by Auth.
func UserID(c *gin.Context) uint {
	return c.GetUint(CtxUserID)
}

// EmployeeID reads the verified staff id set by EmployeeAuth.
func EmployeeID(c *gin.Context) uint {
	return c.GetUint(CtxEmployeeID)
}
