package api

import (
	"net/http"
	"strconv"

	"taskboard/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// render writes an HTML page. Pending flash notices are consumed here.
func render(c *gin.Context, status int, name string, data gin.H) {
	sess := session.Get(c)
	flashes := sess.PopFlashes()
	data["Flashes"] = flashes
	data["CurrentUser"] = sess.Username
	if len(flashes) > 0 {
		saveSession(c)
	}
	c.HTML(status, name, data)
}

// renderNotice re-renders a page with an error notice
func renderNotice(c *gin.Context, status int, name, message string, data gin.H) {
	session.Get(c).AddFlash(session.FlashError, message)
	render(c, status, name, data)
}

// redirect saves the session and sends the client to location
func redirect(c *gin.Context, location string) {
	saveSession(c)
	c.Redirect(http.StatusFound, location)
}

// flashRedirect queues a notice and redirects
func flashRedirect(c *gin.Context, category, message, location string) {
	session.Get(c).AddFlash(category, message)
	redirect(c, location)
}

// serverError logs an unexpected failure and renders the error page
func serverError(c *gin.Context, err error, msg string, fields logrus.Fields) {
	_ = c.Error(err)
	logrus.WithFields(fields).WithError(err).Error(msg)
	render(c, http.StatusInternalServerError, "error.html", gin.H{
		"Title":   "Error",
		"Message": msg,
	})
}

func saveSession(c *gin.Context) {
	if err := session.Save(c); err != nil {
		logrus.WithError(err).Error("Failed to save session")
	}
}

// taskID parses the :id path parameter
func taskID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
