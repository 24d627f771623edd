// Package tasks tracks background deck generation tasks and uploaded templates.
package tasks

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/ppt-architect/internal/types"
)

// ErrNotFound is returned for an unknown task or template id.
var ErrNotFound = errors.New("not found")

// Store persists generation tasks.
type Store interface {
	Create(ctx context.Context, task *types.Task) error
	Update(ctx context.Context, task *types.Task) error
	Get(ctx context.Context, id string) (*types.Task, error)
	// List returns the most recent tasks first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]types.Task, error)
}

// TemplateStore persists uploaded template metadata.
type TemplateStore interface {
	SaveTemplate(ctx context.Context, info *types.TemplateInfo) error
	GetTemplate(ctx context.Context, id string) (*types.TemplateInfo, error)
}

// NewTask returns a pending task with a fresh id.
func NewTask(title, theme, templateID string) *types.Task {
	now := time.Now().UTC()
	return &types.Task{
		ID:         uuid.New().String(),
		Status:     types.TaskPending,
		Message:    "任务已创建",
		Title:      title,
		Theme:      theme,
		TemplateID: templateID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// MemoryStore keeps tasks and templates in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	tasks     map[string]types.Task
	templates map[string]types.TemplateInfo
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks:     make(map[string]types.Task),
		templates: make(map[string]types.TemplateInfo),
	}
}

// Create implements Store.
func (s *MemoryStore) Create(_ context.Context, task *types.Task) error {
	if task == nil || task.ID == "" {
		return errors.New("task id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tasks[task.ID]; exists {
		return errors.New("task already exists: " + task.ID)
	}
	s.tasks[task.ID] = *task
	return nil
}

// Update implements Store.
func (s *MemoryStore) Update(_ context.Context, task *types.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tasks[task.ID]; !exists {
		return ErrNotFound
	}
	updated := *task
	updated.UpdatedAt = time.Now().UTC()
	s.tasks[task.ID] = updated
	return nil
}

// Get implements Store. The returned task is a copy.
func (s *MemoryStore) Get(_ context.Context, id string) (*types.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &task, nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context, limit int) ([]types.Task, error) {
	s.mu.RLock()
	out := make([]types.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SaveTemplate implements TemplateStore.
func (s *MemoryStore) SaveTemplate(_ context.Context, info *types.TemplateInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[info.ID] = *info
	return nil
}

// GetTemplate implements TemplateStore.
func (s *MemoryStore) GetTemplate(_ context.Context, id string) (*types.TemplateInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.templates[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &info, nil
}

var (
	_ Store         = (*MemoryStore)(nil)
	_ TemplateStore = (*MemoryStore)(nil)
)
