package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"taskboard/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(m *session.Manager) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(), Sessions(m))
	r.GET("/login", func(c *gin.Context) { c.String(http.StatusOK, "login") })
	r.GET("/private", RequireLogin(), func(c *gin.Context) {
		c.String(http.StatusOK, "user %d", c.GetUint("userID"))
	})
	r.GET("/as/:name", func(c *gin.Context) {
		session.Get(c).Login(9, c.Param("name"))
		_ = session.Save(c)
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestRequireLoginRedirectsAnonymous(t *testing.T) {
	m := session.NewManager([]byte("secret"), false)
	r := newEngine(m)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	// The redirect carries the notice in the session cookie
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(cookies[0])
	s := m.Load(req)
	assert.False(t, s.IsAuthenticated())
	require.Len(t, s.Flashes, 1)
	assert.Equal(t, "Please log in to access this page.", s.Flashes[0].Message)
}

func TestRequireLoginPassesAuthenticated(t *testing.T) {
	m := session.NewManager([]byte("secret"), false)
	r := newEngine(m)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/as/alice", nil))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user 9", w.Body.String())
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	r := newEngine(session.NewManager([]byte("secret"), false))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
