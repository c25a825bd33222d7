package domain

import "time"

// Status is the workflow state of a task.
type Status string

const (
	StatusNotStarted Status = "Not started"
	StatusInProgress Status = "In progress"
	StatusComplete   Status = "Complete"
	StatusBlocked    Status = "Blocked"
	StatusClosed     Status = "Closed"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusNotStarted, StatusInProgress, StatusComplete, StatusBlocked, StatusClosed}

// Valid reports whether s is a member of the status enum.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseStatus maps a form value to a Status. An empty value means the default.
func ParseStatus(v string) (Status, bool) {
	if v == "" {
		return StatusNotStarted, true
	}
	s := Status(v)
	return s, s.Valid()
}

// Task Model
type Task struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Description    string    `gorm:"type:text" json:"description"`
	Status         Status    `gorm:"size:32;not null;default:'Not started';index" json:"status"`
	AssignedUserID uint      `gorm:"not null;index" json:"assigned_user_id"`
	CreatedByID    uint      `gorm:"not null" json:"created_by_id"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations, populated by joined reads
	AssignedUser User `gorm:"foreignKey:AssignedUserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CreatedBy    User `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

// AssignedUsername is the display name of the assignee.
func (t Task) AssignedUsername() string { return t.AssignedUser.Username }

// CreatedByUsername is the display name of the creator.
func (t Task) CreatedByUsername() string { return t.CreatedBy.Username }
