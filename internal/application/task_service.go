package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	repo "github.com/oksasatya/go-task-manager/internal/domain/repository"
	"github.com/oksasatya/go-task-manager/pkg/apperr"
)

// TaskService enforces input validation and owner scoping over the task
// store. The userID on every method is the identity verified by the auth
// middleware, never caller-supplied input.
type TaskService struct {
	Tasks  repo.TaskRepository
	Logger *logrus.Logger
}

func NewTaskService(tasks repo.TaskRepository, logger *logrus.Logger) *TaskService {
	return &TaskService{Tasks: tasks, Logger: logger}
}

// List returns the caller's tasks newest-first, optionally filtered by a
// title substring. An owner with no matches gets an empty slice, not nil.
func (s *TaskService) List(ctx context.Context, userID, search string) ([]entity.Task, error) {
	return s.Tasks.ListByOwner(ctx, userID, strings.TrimSpace(search))
}

// Create validates and persists a new pending task for the caller.
func (s *TaskService) Create(ctx context.Context, userID, title, description string) (*entity.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperr.New(apperr.Validation, "title is required")
	}

	t := &entity.Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      entity.StatusPending,
	}
	if err := s.Tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"task_id": t.ID, "user_id": userID}).Debug("task created")
	}
	return t, nil
}

// Get returns the task only when the caller owns it; anything else is
// NotFound.
func (s *TaskService) Get(ctx context.Context, userID, taskID string) (*entity.Task, error) {
	return s.Tasks.GetByID(ctx, taskID, userID)
}

// UpdateTaskInput is a partial update; nil fields stay untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
}

// Update validates the supplied fields, then applies them as one conditional
// store operation scoped by (taskID, userID). Validation failures happen
// before the store is touched, so a rejected update never partially applies.
func (s *TaskService) Update(ctx context.Context, userID, taskID string, in UpdateTaskInput) (*entity.Task, error) {
	var patch entity.TaskPatch

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperr.New(apperr.Validation, "title is required")
		}
		patch.Title = &title
	}
	if in.Description != nil {
		patch.Description = in.Description
	}
	if in.Status != nil {
		status, ok := entity.ParseTaskStatus(*in.Status)
		if !ok {
			return nil, apperr.Newf(apperr.Validation, "invalid status %q", *in.Status)
		}
		patch.Status = &status
	}

	return s.Tasks.Update(ctx, taskID, userID, patch)
}

// Delete removes the task permanently; no tombstone is kept.
func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	if err := s.Tasks.Delete(ctx, taskID, userID); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"task_id": taskID, "user_id": userID}).Debug("task deleted")
	}
	return nil
}
