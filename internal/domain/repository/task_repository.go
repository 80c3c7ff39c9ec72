package repository

import (
	"context"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

// TaskRepository defines owner-scoped task persistence. Every lookup and
// mutation filters on (task id, user id) in a single store operation, so a
// task owned by someone else is indistinguishable from a missing one and
// there is no check-then-act window.
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	// ListByOwner returns the owner's tasks newest-first. A non-empty search
	// term restricts to titles containing it as a literal substring.
	ListByOwner(ctx context.Context, userID, search string) ([]entity.Task, error)
	GetByID(ctx context.Context, id, userID string) (*entity.Task, error)
	// Update applies the patch conditionally on (id, userID) and returns the
	// post-write record.
	Update(ctx context.Context, id, userID string, patch entity.TaskPatch) (*entity.Task, error)
	Delete(ctx context.Context, id, userID string) error
}
