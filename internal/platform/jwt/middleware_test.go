package jwtmw

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain はテスト実行前にGinをテストモードに設定します。
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

const testSecret = "test-secret-key"

func run(t *testing.T, mw gin.HandlerFunc, authHeader string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/reddit-sentiment", nil)
	if authHeader != "" {
		c.Request.Header.Set("Authorization", authHeader)
	}
	mw(c)
	return w, c
}

func signed(t *testing.T, secret string, claims Claims, method jwt.SigningMethod) string {
	t.Helper()
	var key any = []byte(secret)
	if method == jwt.SigningMethodNone {
		key = jwt.UnsafeAllowNoneSignatureType
	}
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func claimsFor(scope string, exp time.Duration) Claims {
	now := time.Now()
	return Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "dashboard",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(exp)),
		},
	}
}

// TestPublishAuth_Disabled はシークレット未設定時に認証なしで通過することを検証します。
func TestPublishAuth_Disabled(t *testing.T) {
	t.Parallel()

	w, c := run(t, PublishAuth(""), "")
	assert.False(t, c.IsAborted())
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestPublishAuth_Rejects は不正な認証ヘッダ・トークンが拒否されることを検証します。
func TestPublishAuth_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		header   string
		wantCode int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"basic auth", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"bearer lowercase", "bearer token123", http.StatusUnauthorized},
		{"malformed", "Bearer not.a.token", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signed(t, "other", claimsFor(ScopePublish, time.Hour), jwt.SigningMethodHS256), http.StatusUnauthorized},
		{"expired", "Bearer " + signed(t, testSecret, claimsFor(ScopePublish, -time.Hour), jwt.SigningMethodHS256), http.StatusUnauthorized},
		{"none alg", "Bearer " + signed(t, testSecret, claimsFor(ScopePublish, time.Hour), jwt.SigningMethodNone), http.StatusUnauthorized},
		{"hs512 not allowed", "Bearer " + signed(t, testSecret, claimsFor(ScopePublish, time.Hour), jwt.SigningMethodHS512), http.StatusUnauthorized},
		{"wrong scope", "Bearer " + signed(t, testSecret, claimsFor("read", time.Hour), jwt.SigningMethodHS256), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w, c := run(t, PublishAuth(testSecret), tt.header)
			assert.True(t, c.IsAborted())
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

// TestPublishAuth_ValidToken は Generator が発行したトークンで通過し、publisher が設定されることを検証します。
func TestPublishAuth_ValidToken(t *testing.T) {
	t.Parallel()

	g, err := NewGenerator(testSecret, time.Hour)
	require.NoError(t, err)
	tok, err := g.GenerateToken("n8n-workflow")
	require.NoError(t, err)

	_, c := run(t, PublishAuth(testSecret), "Bearer "+tok)
	require.False(t, c.IsAborted())
	assert.Equal(t, "n8n-workflow", c.GetString(ContextPublisher))
}
