package api

import (
	"net/http"

	"taskboard/internal/middleware" // Custom package for middleware
	"taskboard/internal/session"    // Cookie sessions
	"taskboard/internal/web"        // HTML views

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// Deps are the collaborators the router wires into handlers
type Deps struct {
	DB       *gorm.DB
	Users    CredentialStore
	Tasks    TaskStore
	Redis    *redis.Client // nil disables caching
	Sessions *session.Manager
}

// NewRouter builds the gin engine with every route registered
func NewRouter(d Deps) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery(), middleware.Sessions(d.Sessions))
	r.SetHTMLTemplate(tmpl)

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		return nil, err
	}

	r.GET("/healthz", HealthHandler(d.DB))

	// Public routes
	r.GET("/", IndexHandler())
	r.GET("/login", LoginPageHandler())
	r.POST("/login", LoginHandler(d.Users))
	r.GET("/register", RegisterPageHandler())
	r.POST("/register", RegisterHandler(d.Users, d.Redis))
	r.GET("/logout", LogoutHandler())

	// Routes that need a logged-in user
	auth := r.Group("", middleware.RequireLogin())
	auth.GET("/dashboard", DashboardHandler(d.Users, d.Tasks, d.Redis))
	auth.GET("/tasks/new", NewTaskPageHandler(d.Users, d.Redis))
	auth.POST("/tasks/new", CreateTaskHandler(d.Users, d.Tasks, d.Redis))
	auth.GET("/tasks/:id", ViewTaskHandler(d.Tasks))
	auth.GET("/tasks/:id/edit", EditTaskPageHandler(d.Users, d.Tasks, d.Redis))
	auth.POST("/tasks/:id/edit", UpdateTaskHandler(d.Users, d.Tasks, d.Redis))
	auth.POST("/tasks/:id/delete", DeleteTaskHandler(d.Tasks, d.Redis))

	return r, nil
}

// HealthHandler reports whether the database answers
func HealthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
