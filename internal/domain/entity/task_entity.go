package entity

import (
	"time"
)

// TaskStatus is the task lifecycle state. The set is closed; anything else
// is rejected at the service boundary.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// ParseTaskStatus validates a caller-supplied status value.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(s) {
	case StatusPending, StatusInProgress, StatusCompleted:
		return TaskStatus(s), true
	}
	return "", false
}

// Task is owned by exactly one user; UserID never changes after creation.
type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Status      TaskStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskPatch carries a partial update. Nil fields are left unchanged by the
// store; values are validated before they get here.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
}
