package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/PabloGalante/timeplanner-api/internal/domain"
)

// TaskStore is a simple in-memory implementation of domain.TaskStore.
// It is NOT persistent and is only suitable for development and tests.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[domain.UserID]map[string]*domain.Task
}

func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[domain.UserID]map[string]*domain.Task),
	}
}

func cloneTask(t *domain.Task) *domain.Task {
	c := *t
	if t.Due != nil {
		due := *t.Due
		c.Due = &due
	}
	return &c
}

func (s *TaskStore) ListTasks(ctx context.Context, userID domain.UserID) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Task, 0, len(s.tasks[userID]))
	for _, t := range s.tasks[userID] {
		out = append(out, cloneTask(t))
	}

	// Newest first, matching the backing query order.
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *TaskStore) CreateTask(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := s.tasks[task.UserID]
	if byID == nil {
		byID = make(map[string]*domain.Task)
		s.tasks[task.UserID] = byID
	}
	if _, exists := byID[task.ID]; exists {
		return domain.ErrConflict
	}

	byID[task.ID] = cloneTask(task)
	return nil
}

func (s *TaskStore) GetTask(ctx context.Context, userID domain.UserID, id string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[userID][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneTask(t), nil
}

func (s *TaskStore) ReplaceTask(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := s.tasks[task.UserID]
	if _, ok := byID[task.ID]; !ok {
		return domain.ErrNotFound
	}

	byID[task.ID] = cloneTask(task)
	return nil
}

func (s *TaskStore) DeleteTask(ctx context.Context, userID domain.UserID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := s.tasks[userID]
	if _, ok := byID[id]; !ok {
		return domain.ErrNotFound
	}

	delete(byID, id)
	return nil
}

func (s *TaskStore) FindTasksByTitle(ctx context.Context, userID domain.UserID, title string) ([]*domain.Task, error) {
	normalized := strings.ToLower(strings.TrimSpace(title))
	if normalized == "" {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Task
	for _, t := range s.tasks[userID] {
		if strings.ToLower(t.Title) == normalized {
			out = append(out, cloneTask(t))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *TaskStore) DeleteTasksInList(ctx context.Context, userID domain.UserID, list string) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := s.tasks[userID]

	var deleted []*domain.Task
	for id, t := range byID {
		if t.List == list {
			deleted = append(deleted, cloneTask(t))
			delete(byID, id)
		}
	}

	sort.Slice(deleted, func(i, j int) bool {
		return deleted[i].CreatedAt.After(deleted[j].CreatedAt)
	})
	return deleted, nil
}
