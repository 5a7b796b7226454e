package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-123"

func adminRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/admin", RequireAdmin(secret), func(c *gin.Context) {
		sub, _ := GetSubject(c)
		c.JSON(http.StatusOK, gin.H{"subject": sub})
	})
	return r
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestRequireAdmin_AcceptsAdminToken(t *testing.T) {
	token, err := IssueToken(testSecret, "ops", RoleAdmin, time.Hour)
	require.NoError(t, err)

	w := doRequest(adminRouter(testSecret), http.MethodPost, "/admin", bearer(token))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"subject":"ops"}`, w.Body.String())
}

func TestRequireAdmin_Rejections(t *testing.T) {
	viewer, err := IssueToken(testSecret, "viewer", "viewer", time.Hour)
	require.NoError(t, err)
	expired, err := IssueToken(testSecret, "ops", RoleAdmin, -time.Minute)
	require.NoError(t, err)
	foreign, err := IssueToken("other-secret", "ops", RoleAdmin, time.Hour)
	require.NoError(t, err)
	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"role": RoleAdmin})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := []struct {
		name    string
		secret  string
		headers map[string]string
		msg     string
	}{
		{"no header", testSecret, nil, "Authorization required"},
		{"not bearer", testSecret, map[string]string{"Authorization": "Basic abc"}, "Authorization required"},
		{"wrong role", testSecret, bearer(viewer), "Forbidden"},
		{"expired", testSecret, bearer(expired), "Invalid token"},
		{"wrong secret", testSecret, bearer(foreign), "Invalid token"},
		{"alg none", testSecret, bearer(unsigned), "Invalid token"},
		{"garbage", testSecret, bearer("not.a.jwt"), "Invalid token"},
		{"auth disabled", "", bearer(viewer), "Recompute is disabled"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(adminRouter(tc.secret), http.MethodPost, "/admin", tc.headers)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tc.msg, resp.Msg)
		})
	}
}

func TestParseToken_ReturnsClaims(t *testing.T) {
	token, err := IssueToken(testSecret, "ops", RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims["sub"])
	assert.Equal(t, RoleAdmin, claims["role"])
}

func TestIssueToken_RequiresSecret(t *testing.T) {
	_, err := IssueToken("", "ops", RoleAdmin, time.Hour)
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	tok, ok := bearerToken("bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = bearerToken("Bearer ")
	assert.False(t, ok)
}
