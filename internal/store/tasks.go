package store

import (
	"context" // Request-scoped queries
	"errors"  // Sentinel error checks
	"fmt"     // Error wrapping
	"time"    // Update timestamp

	"taskboard/internal/domain" // Task model

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Association clauses
)

// TaskFilter narrows ListTasks. Nil fields are ignored; set fields are ANDed.
type TaskFilter struct {
	Status     *domain.Status // Only tasks in this status
	AssigneeID *uint          // Only tasks assigned to this user
}

// NewTask holds the fields of a task to create.
type NewTask struct {
	Title          string
	Description    string
	Status         domain.Status
	AssignedUserID uint
	CreatedByID    uint
}

// TaskChanges holds the editable fields of a task.
type TaskChanges struct {
	Title          string
	Description    string
	Status         domain.Status
	AssignedUserID uint
}

// TaskStore persists tasks.
type TaskStore struct {
	db *gorm.DB // Database connection
}

// NewTaskStore returns a TaskStore backed by db.
func NewTaskStore(db *gorm.DB) *TaskStore {
	return &TaskStore{db: db}
}

// joined selects tasks with the assignee and creator rows joined in.
func (s *TaskStore) joined(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&domain.Task{}).
		Joins("AssignedUser").
		Joins("CreatedBy")
}

// ListTasks returns the tasks matching f, most recently created first.
func (s *TaskStore) ListTasks(ctx context.Context, f TaskFilter) ([]domain.Task, error) {
	query := s.joined(ctx)
	if f.Status != nil {
		query = query.Where("tasks.status = ?", *f.Status) // Filter by status
	}
	if f.AssigneeID != nil {
		query = query.Where("tasks.assigned_user_id = ?", *f.AssigneeID) // Filter by assignee
	}
	var tasks []domain.Task
	// Newest first, id breaks ties within one timestamp
	if err := query.Order("tasks.created_at DESC").Order("tasks.id DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// CountByStatus returns the number of tasks in each status. Statuses with
// no tasks are absent from the map.
func (s *TaskStore) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	var rows []struct {
		Status domain.Status
		Count  int64
	}
	if err := s.db.WithContext(ctx).
		Model(&domain.Task{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	counts := make(map[domain.Status]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count // One row per status present
	}
	return counts, nil
}

// GetTask returns the task with the given id, or ErrNotFound.
func (s *TaskStore) GetTask(ctx context.Context, id uint) (*domain.Task, error) {
	var task domain.Task
	err := s.joined(ctx).Where("tasks.id = ?", id).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound // Unknown id
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return &task, nil
}

// CreateTask inserts a task. A reference to a missing user yields
// ErrInvalidReference.
func (s *TaskStore) CreateTask(ctx context.Context, in NewTask) (*domain.Task, error) {
	status := in.Status
	if status == "" {
		status = domain.StatusNotStarted // Default status
	}
	task := domain.Task{
		Title:          in.Title,
		Description:    in.Description,
		Status:         status,
		AssignedUserID: in.AssignedUserID,
		CreatedByID:    in.CreatedByID,
	}
	// Users are referenced by id only, never upserted
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&task).Error; err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrInvalidReference // Assignee or creator missing
		}
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &task, nil
}

// UpdateTask applies ch to the task with the given id and refreshes its
// updated timestamp. The creator and creation time are never changed. A
// missing id is not an error.
func (s *TaskStore) UpdateTask(ctx context.Context, id uint, ch TaskChanges) error {
	err := s.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"title":            ch.Title,
			"description":      ch.Description,
			"status":           ch.Status,
			"assigned_user_id": ch.AssignedUserID,
			"updated_at":       time.Now().UTC(), // Refresh the edit timestamp
		}).Error
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrInvalidReference // Assignee missing
		}
		return fmt.Errorf("update task %d: %w", id, err)
	}
	return nil
}

// DeleteTask removes the task with the given id. A missing id is not an error.
func (s *TaskStore) DeleteTask(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&domain.Task{}, id).Error; err != nil { // Zero rows is fine
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}
