package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/ariebrainware/comorbidity-network/util"
)

// RoleAdmin is the role claim required by RequireAdmin.
const RoleAdmin = "admin"

const subjectKey = "subject"

var (
	errMissingToken = errors.New("missing bearer token")
	errInvalidToken = errors.New("invalid token")
	errNotAdmin     = errors.New("admin role required")
	errAuthDisabled = errors.New("JWTSECRET is not configured")
)

// RequireAdmin accepts requests carrying an HS256 bearer token signed with
// secret whose role claim is admin. An empty secret rejects every request.
func RequireAdmin(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			unauthorized(c, "Recompute is disabled", errAuthDisabled)
			return
		}
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c, "Authorization required", errMissingToken)
			return
		}

		claims, err := ParseToken(secret, raw)
		if err != nil {
			unauthorized(c, "Invalid token", err)
			return
		}
		if role, _ := claims["role"].(string); role != RoleAdmin {
			unauthorized(c, "Forbidden", errNotAdmin)
			return
		}
		if sub, _ := claims["sub"].(string); sub != "" {
			c.Set(subjectKey, sub)
		}
		c.Next()
	}
}

// ParseToken verifies an HS256 token and returns its claims. Expiry is
// checked when the token carries exp.
func ParseToken(secret, raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errInvalidToken
	}
	return claims, nil
}

// IssueToken signs an HS256 token for subject with the given role.
func IssueToken(secret, subject, role string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errAuthDisabled
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// GetSubject returns the authenticated subject set by RequireAdmin.
func GetSubject(c *gin.Context) (string, bool) {
	v, ok := c.Get(subjectKey)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

func unauthorized(c *gin.Context, msg string, err error) {
	util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: msg, Err: err})
	c.Abort()
}
