package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/domain/repository"
	"github.com/oksasatya/go-task-manager/pkg/apperr"
)

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

const taskColumns = `id, user_id, title, description, status, created_at, updated_at`

func scanTask(row pgx.Row, t *entity.Task) error {
	return row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	// created_at and updated_at share the statement's now(), so a fresh task
	// always has identical timestamps.
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (user_id, title, description, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, created_at, updated_at
	`, t.UserID, t.Title, t.Description, t.Status)

	if err := row.Scan(&t.ID, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return apperr.Wrap(apperr.Internal, "insert task", err)
	}
	return nil
}

func (r *TaskRepository) ListByOwner(ctx context.Context, userID, search string) ([]entity.Task, error) {
	// strpos keeps the search a literal substring match; LIKE would let
	// callers smuggle wildcards in. id is the deterministic tie-break for
	// tasks created in the same transaction instant.
	rows, err := r.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = $1
		  AND ($2 = '' OR strpos(title, $2) > 0)
		ORDER BY created_at DESC, id DESC
	`, userID, search)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "select tasks", err)
	}
	defer rows.Close()

	tasks := make([]entity.Task, 0)
	for rows.Next() {
		var t entity.Task
		if err := scanTask(rows, &t); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "scan task", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "iterate tasks", err)
	}
	return tasks, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id, userID string) (*entity.Task, error) {
	if uuid.Validate(id) != nil {
		return nil, apperr.New(apperr.NotFound, "task not found")
	}
	t := &entity.Task{}
	row := r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`, id, userID)

	if err := scanTask(row, t); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.New(apperr.NotFound, "task not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "select task", err)
	}
	return t, nil
}

func (r *TaskRepository) Update(ctx context.Context, id, userID string, patch entity.TaskPatch) (*entity.Task, error) {
	if uuid.Validate(id) != nil {
		return nil, apperr.New(apperr.NotFound, "task not found")
	}
	t := &entity.Task{}
	// Ownership check and mutation are one conditional statement; the
	// RETURNING row is the authoritative post-write state.
	row := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET title       = COALESCE($3, title),
		    description = COALESCE($4, description),
		    status      = COALESCE($5, status),
		    updated_at  = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+taskColumns+`
	`, id, userID, patch.Title, patch.Description, (*string)(patch.Status))

	if err := scanTask(row, t); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.New(apperr.NotFound, "task not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "update task", err)
	}
	return t, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id, userID string) error {
	if uuid.Validate(id) != nil {
		return apperr.New(apperr.NotFound, "task not found")
	}
	res, err := r.pool.Exec(ctx, `
		DELETE FROM tasks
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "delete task", err)
	}
	if res.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "task not found")
	}
	return nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
