package middleware

import (
	"net/http" // HTTP status codes

	"taskboard/internal/session" // Cookie sessions

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/sirupsen/logrus"
)

// Sessions decodes the session cookie and attaches it to the context
func Sessions(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session.Attach(c, m, m.Load(c.Request))
		c.Next()
	}
}

// RequireLogin sends anonymous visitors to the login page with a notice
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var id session.Identity = session.Get(c)
		if id.IsAuthenticated() {
			c.Set("userID", id.CurrentUserID()) // Store userID in context
			c.Next()
			return
		}
		sess := session.Get(c)
		sess.AddFlash(session.FlashError, "Please log in to access this page.")
		if err := session.Save(c); err != nil {
			logrus.WithError(err).Error("Failed to save session")
		}
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}
