package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeVerifier struct {
	userID int64
	err    error
}

func (f fakeVerifier) VerifyToken(string) (int64, error) {
	return f.userID, f.err
}

func serve(t *testing.T, verifier TokenVerifier, authHeader string, protected bool) (*httptest.ResponseRecorder, int64, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var (
		gotID int64
		gotOK bool
	)
	r := gin.New()
	r.Use(Authenticate(verifier))
	handlers := []gin.HandlerFunc{}
	if protected {
		handlers = append(handlers, RequireAuth())
	}
	handlers = append(handlers, func(c *gin.Context) {
		gotID, gotOK = GetUserID(c)
		c.Status(http.StatusOK)
	})
	r.GET("/", handlers...)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w, gotID, gotOK
}

func TestAuthenticateSetsUserID(t *testing.T) {
	w, id, ok := serve(t, fakeVerifier{userID: 42}, "Bearer good-token", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestAuthenticateIgnoresMissingOrBadTokens(t *testing.T) {
	w, _, ok := serve(t, fakeVerifier{userID: 42}, "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, ok)

	w, _, ok = serve(t, fakeVerifier{err: errors.New("bad token")}, "Bearer bad", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, ok)

	// not a bearer scheme
	w, _, ok = serve(t, fakeVerifier{userID: 42}, "Basic dXNlcjpwYXNz", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, ok)
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	w, _, _ := serve(t, fakeVerifier{err: errors.New("no token")}, "", true)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _, ok := serve(t, fakeVerifier{userID: 7}, "Bearer good", true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, ok)
}
