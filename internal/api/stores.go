package api

import (
	"context"

	"taskboard/internal/domain"
	"taskboard/internal/store"
)

// CredentialStore is the user persistence the handlers need
type CredentialStore interface {
	CreateUser(ctx context.Context, username, email, password string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	Verify(user *domain.User, password string) bool
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// TaskStore is the task persistence the handlers need
type TaskStore interface {
	ListTasks(ctx context.Context, f store.TaskFilter) ([]domain.Task, error)
	CountByStatus(ctx context.Context) (map[domain.Status]int64, error)
	GetTask(ctx context.Context, id uint) (*domain.Task, error)
	CreateTask(ctx context.Context, in store.NewTask) (*domain.Task, error)
	UpdateTask(ctx context.Context, id uint, ch store.TaskChanges) error
	DeleteTask(ctx context.Context, id uint) error
}

var (
	_ CredentialStore = (*store.UserStore)(nil)
	_ TaskStore       = (*store.TaskStore)(nil)
)
