package api

import (
	"errors"  // Error unwrapping
	"strings" // Whitespace trimming

	"taskboard/internal/domain" // Task status values

	"github.com/go-playground/validator/v10" // Binding failure details
)

// LoginForm is the body of POST /login
type LoginForm struct {
	Username string `form:"username" binding:"required"` // Username must be provided
	Password string `form:"password" binding:"required"` // Password must be provided
}

// RegisterForm is the body of POST /register
type RegisterForm struct {
	Username        string `form:"username" binding:"required"`         // Username must be provided
	Email           string `form:"email" binding:"required,email"`      // Must look like an address
	Password        string `form:"password" binding:"required"`         // Password must be provided
	ConfirmPassword string `form:"confirm_password" binding:"required"` // Must match Password
}

// TaskForm is the body of the task create and edit forms
type TaskForm struct {
	Title          string `form:"title" binding:"required"`            // Title must be provided
	Description    string `form:"description"`                         // Optional
	Status         string `form:"status"`                              // Defaults to Not started
	AssignedUserID uint   `form:"assigned_user_id" binding:"required"` // Must name a user
}

// Validated task form values, ready for the store
type taskInput struct {
	Title          string
	Description    string
	Status         domain.Status
	AssignedUserID uint
}

// registerError turns a binding failure into the notice shown to the user
func registerError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() == "Email" && fe.Tag() == "email" {
				return "Please enter a valid email address." // Present but malformed
			}
		}
	}
	return "All fields are required."
}

// taskBindError turns a binding failure into the notice shown to the user
func taskBindError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Type conversion failures, e.g. a non-numeric assignee
		return "Please choose an assignee."
	}
	switch verrs[0].Field() {
	case "Title":
		return "Title is required."
	case "AssignedUserID":
		return "Please choose an assignee."
	}
	return "Invalid task."
}

// validate checks the fields the binding tags cannot express
func (f *TaskForm) validate() (taskInput, string) {
	in := taskInput{
		Title:          strings.TrimSpace(f.Title),
		Description:    strings.TrimSpace(f.Description),
		AssignedUserID: f.AssignedUserID,
	}
	if in.Title == "" {
		return in, "Title is required." // Whitespace only
	}
	status, ok := domain.ParseStatus(f.Status)
	if !ok {
		return in, "Invalid status."
	}
	in.Status = status
	return in, ""
}

// taskFormView is what the task form template shows in its inputs
type taskFormView struct {
	Title          string
	Description    string
	Status         domain.Status
	AssignedUserID uint
}

func formViewOf(task *domain.Task) taskFormView {
	return taskFormView{
		Title:          task.Title,
		Description:    task.Description,
		Status:         task.Status,
		AssignedUserID: task.AssignedUserID,
	}
}

func formViewFromInput(f *TaskForm) taskFormView {
	return taskFormView{
		Title:          f.Title,
		Description:    f.Description,
		Status:         domain.Status(f.Status),
		AssignedUserID: f.AssignedUserID,
	}
}
