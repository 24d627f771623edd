package tasks

import (
	"context"

	"github.com/jonathan/ppt-architect/internal/types"
)

// SetProgress moves a task to processing with the given progress and message.
func SetProgress(ctx context.Context, s Store, id string, progress int, message string) (*types.Task, error) {
	return modify(ctx, s, id, func(t *types.Task) {
		t.Status = types.TaskProcessing
		t.Progress = progress
		t.Message = message
	})
}

// Complete marks a task completed and records its output files.
func Complete(ctx context.Context, s Store, id, filePath, previewPath, pdfPath string) (*types.Task, error) {
	return modify(ctx, s, id, func(t *types.Task) {
		t.Status = types.TaskCompleted
		t.Progress = 100
		t.Message = "PPT 生成完成"
		t.FilePath = filePath
		t.PreviewPath = previewPath
		t.PDFPath = pdfPath
	})
}

// Fail marks a task failed with the error message.
func Fail(ctx context.Context, s Store, id string, cause error) (*types.Task, error) {
	return modify(ctx, s, id, func(t *types.Task) {
		t.Status = types.TaskFailed
		t.Message = cause.Error()
	})
}

func modify(ctx context.Context, s Store, id string, fn func(*types.Task)) (*types.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	fn(task)
	if err := s.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}
