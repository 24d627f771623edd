package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/ppt-architect/internal/tasks"
	"github.com/jonathan/ppt-architect/internal/types"
)

// SaveTemplate records an uploaded template. Re-uploading an id replaces it.
func (db *DB) SaveTemplate(ctx context.Context, info *types.TemplateInfo) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO ppt_templates (id, filename, path, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET filename = $2, path = $3`,
		info.ID, info.Filename, info.Path, info.Created,
	)
	if err != nil {
		return fmt.Errorf("failed to save template %s: %w", info.ID, err)
	}
	return nil
}

// GetTemplate retrieves template metadata by id.
func (db *DB) GetTemplate(ctx context.Context, id string) (*types.TemplateInfo, error) {
	var info types.TemplateInfo
	err := db.pool.QueryRow(ctx,
		`SELECT id, filename, path, created_at FROM ppt_templates WHERE id = $1`, id,
	).Scan(&info.ID, &info.Filename, &info.Path, &info.Created)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tasks.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return &info, nil
}
