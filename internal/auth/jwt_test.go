package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, "stays.testnet")

	token, err := m.GenerateAccessToken("bob.near")
	require.NoError(t, err)

	claims, err := m.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "bob.near", claims.Subject)

	other := NewJWTManager("another-secret", time.Minute, "stays.testnet")
	_, err = other.ParseAndValidate(token)
	assert.Error(t, err)

	wrongIssuer := NewJWTManager("secret", time.Minute, "flats.testnet")
	_, err = wrongIssuer.ParseAndValidate(token)
	assert.Error(t, err)

	expired := NewJWTManager("secret", -time.Minute, "stays.testnet")
	old, err := expired.GenerateAccessToken("bob.near")
	require.NoError(t, err)
	_, err = m.ParseAndValidate(old)
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewJWTManager("secret", time.Minute, "stays.testnet")
	token, err := m.GenerateAccessToken("bob.near")
	require.NoError(t, err)

	r := gin.New()
	whoami := func(c *gin.Context) { c.String(http.StatusOK, GetAccountID(c)) }
	r.GET("/required", AuthRequired(m), whoami)
	r.GET("/optional", OptionalAuth(m), whoami)

	do := func(path, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do("/required", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bob.near", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do("/required", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do("/required", "Token "+token).Code)
	assert.Equal(t, http.StatusUnauthorized, do("/required", "Bearer garbage").Code)

	w = do("/optional", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = do("/optional", "Bearer "+token)
	assert.Equal(t, "bob.near", w.Body.String())
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptPasswordHasher(1)
	assert.Equal(t, bcrypt.MinCost, h.cost)

	hash, err := h.Hash("password123")
	require.NoError(t, err)
	assert.NoError(t, h.Compare(hash, "password123"))
	assert.ErrorIs(t, h.Compare(hash, "nope"), ErrPasswordMismatch)
	assert.NotErrorIs(t, h.Compare("not-a-hash", "password123"), ErrPasswordMismatch)

	_, err = h.Hash(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	assert.Equal(t, bcrypt.DefaultCost, NewBcryptPasswordHasher(0).cost)
}
