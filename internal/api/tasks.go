package api

import (
	"context"  // Request-scoped store calls
	"errors"   // Sentinel error checks
	"net/http" // HTTP status codes
	"strconv"  // Path and query ids

	"taskboard/internal/domain"  // Task and user models
	"taskboard/internal/session" // Cookie sessions
	"taskboard/internal/store"   // Persistence
	"taskboard/internal/utils"   // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// statusCount is one entry of the dashboard summary
type statusCount struct {
	Status domain.Status // Status name
	Count  int64         // Number of tasks in it
}

// loadRoster returns all users ordered by username, cached when Redis is configured
func loadRoster(ctx context.Context, users CredentialStore, rdb *redis.Client) ([]domain.User, error) {
	var roster []domain.User
	if found, err := utils.GetCache(ctx, rdb, utils.RosterCacheKey, &roster); err == nil && found {
		return roster, nil // Cache hit
	}
	roster, err := users.ListUsers(ctx) // Cache miss or Redis error, ask the database
	if err != nil {
		return nil, err
	}
	_ = utils.SetCache(ctx, rdb, utils.RosterCacheKey, roster, utils.CacheTTL) // Best effort
	return roster, nil
}

// loadStatusCounts returns a count for every status in display order
func loadStatusCounts(ctx context.Context, tasks TaskStore, rdb *redis.Client) ([]statusCount, error) {
	var counts map[domain.Status]int64
	if found, err := utils.GetCache(ctx, rdb, utils.StatusCountsCacheKey, &counts); err != nil || !found {
		if counts, err = tasks.CountByStatus(ctx); err != nil {
			return nil, err
		}
		_ = utils.SetCache(ctx, rdb, utils.StatusCountsCacheKey, counts, utils.CacheTTL) // Best effort
	}
	out := make([]statusCount, len(domain.Statuses))
	for i, s := range domain.Statuses {
		out[i] = statusCount{Status: s, Count: counts[s]} // Missing statuses count zero
	}
	return out, nil
}

// invalidateCounts drops the cached summary after a task write
func invalidateCounts(ctx context.Context, rdb *redis.Client) {
	if err := utils.DeleteCache(ctx, rdb, utils.StatusCountsCacheKey); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate status counts cache") // Never fails the request
	}
}

// DashboardHandler lists tasks filtered by the status and assignee query parameters
func DashboardHandler(users CredentialStore, tasks TaskStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var filter store.TaskFilter // Empty filter lists everything

		statusFilter := domain.Status(c.Query("status"))
		if statusFilter != "" {
			filter.Status = &statusFilter // Unknown statuses simply match nothing
		}
		var assigneeFilter uint
		if raw := c.Query("assignee"); raw != "" {
			// An unparseable id matches no user, so it matches no task
			if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
				assigneeFilter = uint(id)
			}
			filter.AssigneeID = &assigneeFilter
		}

		list, err := tasks.ListTasks(ctx, filter)
		if err != nil {
			serverError(c, err, "Failed to load tasks", logrus.Fields{"user_id": c.GetUint("userID")})
			return
		}
		roster, err := loadRoster(ctx, users, rdb) // Assignee dropdown
		if err != nil {
			serverError(c, err, "Failed to load users", logrus.Fields{"user_id": c.GetUint("userID")})
			return
		}
		counts, err := loadStatusCounts(ctx, tasks, rdb) // Summary line
		if err != nil {
			serverError(c, err, "Failed to count tasks", logrus.Fields{"user_id": c.GetUint("userID")})
			return
		}
		render(c, http.StatusOK, "dashboard.html", gin.H{
			"Title":          "Dashboard",
			"Tasks":          list,
			"Users":          roster,
			"StatusCounts":   counts,
			"StatusOptions":  domain.Statuses,
			"StatusFilter":   statusFilter,
			"AssigneeFilter": assigneeFilter,
		})
	}
}

// renderTaskForm renders the create or edit form
func renderTaskForm(c *gin.Context, status int, users CredentialStore, rdb *redis.Client, action, formAction string, form taskFormView) {
	roster, err := loadRoster(c.Request.Context(), users, rdb) // Assignee options
	if err != nil {
		serverError(c, err, "Failed to load users", logrus.Fields{"user_id": c.GetUint("userID")})
		return
	}
	render(c, status, "task_form.html", gin.H{
		"Title":         action + " task",
		"Action":        action,
		"FormAction":    formAction,
		"Form":          form,
		"Users":         roster,
		"StatusOptions": domain.Statuses,
	})
}

// bindTask binds and validates a task form, re-rendering it on failure.
// The assignee must name an existing user.
func bindTask(c *gin.Context, users CredentialStore, rdb *redis.Client, action, formAction string) (taskInput, bool) {
	var form TaskForm
	if err := c.ShouldBind(&form); err != nil {
		// Missing or malformed field
		session.Get(c).AddFlash(session.FlashError, taskBindError(err))
		renderTaskForm(c, http.StatusBadRequest, users, rdb, action, formAction, formViewFromInput(&form))
		return taskInput{}, false
	}
	in, msg := form.validate()
	if msg == "" {
		_, err := users.FindByID(c.Request.Context(), in.AssignedUserID) // Assignee must exist
		switch {
		case errors.Is(err, store.ErrNotFound):
			msg = "Assigned user does not exist."
		case err != nil:
			serverError(c, err, "Failed to look up assignee", logrus.Fields{"assigned_user_id": in.AssignedUserID})
			return taskInput{}, false
		}
	}
	if msg != "" {
		session.Get(c).AddFlash(session.FlashError, msg)
		renderTaskForm(c, http.StatusBadRequest, users, rdb, action, formAction, formViewFromInput(&form))
		return taskInput{}, false
	}
	return in, true
}

// endStaleSession logs out a session whose user row no longer exists
func endStaleSession(c *gin.Context) {
	sess := session.Get(c)
	logrus.WithField("user_id", sess.CurrentUserID()).Warn("Session user no longer exists")
	sess.Clear()
	flashRedirect(c, session.FlashError, "Your account no longer exists. Please log in again.", "/login")
}

// NewTaskPageHandler renders an empty task form
func NewTaskPageHandler(users CredentialStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		form := taskFormView{Status: domain.StatusNotStarted, AssignedUserID: c.GetUint("userID")} // Default to self
		renderTaskForm(c, http.StatusOK, users, rdb, "Create", "/tasks/new", form)
	}
}

// CreateTaskHandler creates a task owned by the logged-in user
func CreateTaskHandler(users CredentialStore, tasks TaskStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		in, ok := bindTask(c, users, rdb, "Create", "/tasks/new")
		if !ok {
			return // Form already re-rendered
		}
		ctx := c.Request.Context()
		creatorID := session.Get(c).CurrentUserID() // Never taken from the form
		task, err := tasks.CreateTask(ctx, store.NewTask{
			Title:          in.Title,
			Description:    in.Description,
			Status:         in.Status,
			AssignedUserID: in.AssignedUserID,
			CreatedByID:    creatorID,
		})
		if errors.Is(err, store.ErrInvalidReference) {
			// Either the assignee or the session user vanished since the form was checked
			_, lookupErr := users.FindByID(ctx, creatorID)
			switch {
			case errors.Is(lookupErr, store.ErrNotFound):
				endStaleSession(c)
			case lookupErr != nil:
				serverError(c, lookupErr, "Failed to look up creator", logrus.Fields{"user_id": creatorID})
			default:
				session.Get(c).AddFlash(session.FlashError, "Assigned user does not exist.")
				renderTaskForm(c, http.StatusBadRequest, users, rdb, "Create", "/tasks/new", taskFormView(in))
			}
			return
		}
		if err != nil {
			serverError(c, err, "Failed to create task", logrus.Fields{"user_id": creatorID})
			return
		}
		invalidateCounts(ctx, rdb) // Summary changed
		logrus.WithFields(logrus.Fields{
			"task_id":          task.ID,
			"user_id":          creatorID,
			"assigned_user_id": task.AssignedUserID,
			"status":           task.Status,
		}).Info("Task created")
		flashRedirect(c, session.FlashSuccess, "Task created successfully!", "/dashboard")
	}
}

// loadTask fetches the :id task, redirecting to the dashboard when it is missing
func loadTask(c *gin.Context, tasks TaskStore) (*domain.Task, bool) {
	id, ok := taskID(c)
	if !ok {
		// A malformed id names no task
		flashRedirect(c, session.FlashError, "Task not found.", "/dashboard")
		return nil, false
	}
	task, err := tasks.GetTask(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		flashRedirect(c, session.FlashError, "Task not found.", "/dashboard")
		return nil, false
	}
	if err != nil {
		serverError(c, err, "Failed to load task", logrus.Fields{"task_id": id})
		return nil, false
	}
	return task, true
}

// ViewTaskHandler renders one task
func ViewTaskHandler(tasks TaskStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		task, ok := loadTask(c, tasks)
		if !ok {
			return
		}
		render(c, http.StatusOK, "task_detail.html", gin.H{"Title": task.Title, "Task": task})
	}
}

// EditTaskPageHandler renders the edit form prefilled with the task
func EditTaskPageHandler(users CredentialStore, tasks TaskStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		task, ok := loadTask(c, tasks)
		if !ok {
			return
		}
		renderTaskForm(c, http.StatusOK, users, rdb, "Update", editPath(task.ID), formViewOf(task))
	}
}

// UpdateTaskHandler applies the edit form to an existing task. The creator
// column is never written here, so a reference failure is always the assignee.
func UpdateTaskHandler(users CredentialStore, tasks TaskStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		task, ok := loadTask(c, tasks)
		if !ok {
			return
		}
		in, ok := bindTask(c, users, rdb, "Update", editPath(task.ID))
		if !ok {
			return // Form already re-rendered
		}
		ctx := c.Request.Context()
		err := tasks.UpdateTask(ctx, task.ID, store.TaskChanges{
			Title:          in.Title,
			Description:    in.Description,
			Status:         in.Status,
			AssignedUserID: in.AssignedUserID,
		})
		if errors.Is(err, store.ErrInvalidReference) {
			// Assignee deleted since the form was checked
			session.Get(c).AddFlash(session.FlashError, "Assigned user does not exist.")
			renderTaskForm(c, http.StatusBadRequest, users, rdb, "Update", editPath(task.ID), taskFormView(in))
			return
		}
		if err != nil {
			serverError(c, err, "Failed to update task", logrus.Fields{"task_id": task.ID})
			return
		}
		invalidateCounts(ctx, rdb) // Status may have changed
		logrus.WithFields(logrus.Fields{
			"task_id":          task.ID,
			"user_id":          c.GetUint("userID"),
			"assigned_user_id": in.AssignedUserID,
			"status":           in.Status,
		}).Info("Task updated")
		flashRedirect(c, session.FlashSuccess, "Task updated successfully!", taskPath(task.ID))
	}
}

// DeleteTaskHandler removes a task. Missing ids are not an error.
func DeleteTaskHandler(tasks TaskStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := taskID(c)
		if ok {
			ctx := c.Request.Context()
			if err := tasks.DeleteTask(ctx, id); err != nil {
				serverError(c, err, "Failed to delete task", logrus.Fields{"task_id": id})
				return
			}
			invalidateCounts(ctx, rdb) // Summary changed
			logrus.WithFields(logrus.Fields{
				"task_id": id,
				"user_id": c.GetUint("userID"),
			}).Info("Task deleted")
		}
		flashRedirect(c, session.FlashSuccess, "Task deleted successfully!", "/dashboard")
	}
}

func taskPath(id uint) string { return "/tasks/" + strconv.FormatUint(uint64(id), 10) }

func editPath(id uint) string { return taskPath(id) + "/edit" }
