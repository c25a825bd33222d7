// Package session keeps per-visitor state in a signed cookie: the logged-in
// identity and one-time flash notices.
package session

import (
	"crypto/rand" // Signing key generation
	"net/http"    // Cookies
	"time"        // Session lifetime

	"github.com/gin-gonic/gin" // Gin web framework
)

// Flash categories
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "taskboard_session"
	// DefaultTTL is how long an untouched session stays valid.
	DefaultTTL = 24 * time.Hour

	contextKey = "session"
)

// Flash is a one-time notice shown on the next rendered page.
type Flash struct {
	Category string `json:"category"` // success, error or info
	Message  string `json:"message"`  // Text shown to the user
}

// Identity is what the login guard needs to know about a caller.
type Identity interface {
	IsAuthenticated() bool
	CurrentUserID() uint
}

// Session is the decoded cookie state for one request.
type Session struct {
	UserID   uint    // Zero when logged out
	Username string  // Shown in the page header
	Flashes  []Flash // Pending notices
}

// IsAuthenticated reports whether a user is logged in.
func (s *Session) IsAuthenticated() bool { return s.UserID != 0 }

// CurrentUserID returns the logged-in user id, or zero.
func (s *Session) CurrentUserID() uint { return s.UserID }

// Login records the user as logged in.
func (s *Session) Login(userID uint, username string) {
	s.UserID = userID
	s.Username = username
}

// Clear drops the identity and any pending notices.
func (s *Session) Clear() {
	*s = Session{} // Reset every field
}

// AddFlash queues a notice for the next rendered page.
func (s *Session) AddFlash(category, message string) {
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
}

// PopFlashes returns the pending notices and forgets them.
func (s *Session) PopFlashes() []Flash {
	f := s.Flashes
	s.Flashes = nil // Shown once
	return f
}

func (s *Session) empty() bool {
	return s.UserID == 0 && len(s.Flashes) == 0
}

// Manager encodes sessions into cookies and back.
type Manager struct {
	secret []byte           // HMAC signing key
	ttl    time.Duration    // Cookie and token lifetime
	secure bool             // HTTPS-only cookies
	now    func() time.Time // Clock, replaced in tests
}

// NewManager returns a Manager signing with secret. Secure cookies are only
// sent over HTTPS.
func NewManager(secret []byte, secure bool) *Manager {
	return &Manager{secret: secret, ttl: DefaultTTL, secure: secure, now: time.Now}
}

// RandomSecret returns a fresh signing key. Sessions signed with it do not
// survive a restart.
func RandomSecret() ([]byte, error) {
	b := make([]byte, 32) // 256-bit key
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Load decodes the session cookie of r. A missing, tampered or expired
// cookie yields an empty session.
func (m *Manager) Load(r *http.Request) *Session {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return &Session{} // No cookie
	}
	claims, err := parseToken(cookie.Value, m.secret)
	if err != nil {
		return &Session{} // Tampered or expired
	}
	return &Session{UserID: claims.UserID, Username: claims.Username, Flashes: claims.Flashes}
}

// Save writes s to the response cookie. An empty session removes the
// cookie, if the client sent one.
func (m *Manager) Save(c *gin.Context, s *Session) error {
	c.SetSameSite(http.SameSiteLaxMode)
	if s.empty() {
		if _, err := c.Request.Cookie(CookieName); err != nil {
			return nil // Nothing to clear
		}
		c.SetCookie(CookieName, "", -1, "/", "", m.secure, true) // Expire the cookie
		return nil
	}
	token, err := generateToken(s, m.secret, m.ttl, m.now()) // Sign the session
	if err != nil {
		return err
	}
	c.SetCookie(CookieName, token, int(m.ttl.Seconds()), "/", "", m.secure, true)
	return nil
}

// Attach stores s and m on the gin context for later handlers.
func Attach(c *gin.Context, m *Manager, s *Session) {
	c.Set(contextKey, &bound{manager: m, session: s})
}

type bound struct {
	manager *Manager // Encodes the session on save
	session *Session // State for this request
}

// Get returns the session attached to c, or an empty one.
func Get(c *gin.Context) *Session {
	if b, ok := c.Get(contextKey); ok {
		return b.(*bound).session
	}
	return &Session{}
}

// Save persists the session attached to c.
func Save(c *gin.Context) error {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil // Sessions middleware not installed
	}
	b := v.(*bound)
	return b.manager.Save(c, b.session)
}
