package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/ppt-architect/internal/tasks"
	"github.com/jonathan/ppt-architect/internal/types"
)

const taskColumns = `id, status, progress, message, title, theme, template_id,
	file_path, preview_path, pdf_path, created_at, updated_at`

// Create inserts a new task.
func (db *DB) Create(ctx context.Context, task *types.Task) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO ppt_tasks (id, status, progress, message, title, theme, template_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		task.ID, task.Status, task.Progress, task.Message, task.Title, task.Theme, task.TemplateID, task.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of a task.
func (db *DB) Update(ctx context.Context, task *types.Task) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE ppt_tasks
		 SET status = $2, progress = $3, message = $4, file_path = $5,
		     preview_path = $6, pdf_path = $7, updated_at = NOW()
		 WHERE id = $1`,
		task.ID, task.Status, task.Progress, task.Message, task.FilePath, task.PreviewPath, task.PDFPath,
	)
	if err != nil {
		return fmt.Errorf("failed to update task %s: %w", task.ID, err)
	}
	if result.RowsAffected() == 0 {
		return tasks.ErrNotFound
	}
	return nil
}

// Get retrieves a task by id.
func (db *DB) Get(ctx context.Context, id string) (*types.Task, error) {
	row := db.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM ppt_tasks WHERE id = $1`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tasks.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// List retrieves recent tasks, newest first.
func (db *DB) List(ctx context.Context, limit int) ([]types.Task, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM ppt_tasks ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var out []types.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		out = append(out, *task)
	}
	return out, rows.Err()
}

func scanTask(row pgx.Row) (*types.Task, error) {
	var t types.Task
	var status string
	err := row.Scan(&t.ID, &status, &t.Progress, &t.Message, &t.Title, &t.Theme, &t.TemplateID,
		&t.FilePath, &t.PreviewPath, &t.PDFPath, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Status = types.TaskStatus(status)
	return &t, nil
}
