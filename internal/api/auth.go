package api

import (
	"errors"
	"net/http" // HTTP status codes

	"taskboard/internal/session" // Cookie sessions
	"taskboard/internal/store"   // Persistence
	"taskboard/internal/utils"   // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// IndexHandler sends visitors to the dashboard or the login page
func IndexHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if session.Get(c).IsAuthenticated() {
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
		c.Redirect(http.StatusFound, "/login")
	}
}

// LoginPageHandler renders the login form
func LoginPageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, http.StatusOK, "login.html", gin.H{"Title": "Log in"})
	}
}

// LoginHandler checks credentials and starts a session
func LoginHandler(users CredentialStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form LoginForm
		if err := c.ShouldBind(&form); err != nil {
			renderNotice(c, http.StatusUnauthorized, "login.html", "Invalid username or password.", gin.H{"Title": "Log in"})
			return
		}
		user, err := users.FindByUsername(c.Request.Context(), form.Username)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			serverError(c, err, "Login failed", logrus.Fields{"username": form.Username})
			return
		}
		// Unknown user and wrong password look the same to the client
		if user == nil || !users.Verify(user, form.Password) {
			logrus.WithField("username", form.Username).Warn("Login failed")
			renderNotice(c, http.StatusUnauthorized, "login.html", "Invalid username or password.", gin.H{"Title": "Log in"})
			return
		}
		sess := session.Get(c)
		sess.Login(user.ID, user.Username)
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,
			"username": user.Username,
		}).Info("User logged in")
		flashRedirect(c, session.FlashSuccess, "Login successful!", "/dashboard")
	}
}

// RegisterPageHandler renders the registration form
func RegisterPageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, http.StatusOK, "register.html", gin.H{"Title": "Register"})
	}
}

// RegisterHandler creates an account and sends the user to log in
func RegisterHandler(users CredentialStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := gin.H{"Title": "Register"}
		var form RegisterForm
		if err := c.ShouldBind(&form); err != nil {
			renderNotice(c, http.StatusBadRequest, "register.html", registerError(err), page)
			return
		}
		if form.Password != form.ConfirmPassword {
			renderNotice(c, http.StatusBadRequest, "register.html", "Passwords do not match.", page)
			return
		}
		ctx := c.Request.Context()
		user, err := users.CreateUser(ctx, form.Username, form.Email, form.Password)
		if errors.Is(err, store.ErrDuplicateIdentity) {
			renderNotice(c, http.StatusBadRequest, "register.html", "Username or email already exists.", page)
			return
		}
		if err != nil {
			serverError(c, err, "Registration failed", logrus.Fields{"username": form.Username})
			return
		}
		// Roster changed
		if err := utils.DeleteCache(ctx, rdb, utils.RosterCacheKey); err != nil {
			logrus.WithError(err).Warn("Failed to invalidate roster cache")
		}
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,
			"username": user.Username,
		}).Info("User registered")
		flashRedirect(c, session.FlashSuccess, "Registration successful! Please log in.", "/login")
	}
}

// LogoutHandler ends the session
func LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.Get(c)
		if sess.IsAuthenticated() {
			logrus.WithField("user_id", sess.CurrentUserID()).Info("User logged out")
		}
		sess.Clear()
		flashRedirect(c, session.FlashInfo, "You have been logged out.", "/login")
	}
}
