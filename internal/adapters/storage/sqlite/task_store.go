package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PabloGalante/timeplanner-api/internal/domain"
)

type taskRow struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	Title     string     `db:"title"`
	List      string     `db:"list_name"`
	Status    string     `db:"status"`
	CreatedAt time.Time  `db:"created_at"`
	Due       *time.Time `db:"due_date"`
}

func (r taskRow) toDomain() *domain.Task {
	return &domain.Task{
		ID:        r.ID,
		UserID:    domain.UserID(r.UserID),
		Title:     r.Title,
		List:      r.List,
		Status:    domain.TaskStatus(r.Status),
		CreatedAt: r.CreatedAt,
		Due:       r.Due,
	}
}

func toTasks(rows []taskRow) []*domain.Task {
	out := make([]*domain.Task, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out
}

func (s *Store) ListTasks(ctx context.Context, userID domain.UserID) ([]*domain.Task, error) {
	var rows []taskRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, title, list_name, status, created_at, due_date
		FROM tasks WHERE user_id = ? ORDER BY created_at DESC`,
		string(userID),
	)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return toTasks(rows), nil
}

func (s *Store) CreateTask(ctx context.Context, task *domain.Task) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, title, list_name, status, created_at, due_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.ID, string(task.UserID), task.Title, task.List,
		string(task.Status), task.CreatedAt.UTC(), task.Due,
	)
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}
	return nil
}

func (s *Store) GetTask(ctx context.Context, userID domain.UserID, id string) (*domain.Task, error) {
	var row taskRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, title, list_name, status, created_at, due_date
		FROM tasks WHERE id = ? AND user_id = ?`,
		id, string(userID),
	)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	return row.toDomain(), nil
}

func (s *Store) ReplaceTask(ctx context.Context, task *domain.Task) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, list_name = ?, status = ?, due_date = ?
		WHERE id = ? AND user_id = ?`,
		task.Title, task.List, string(task.Status), task.Due,
		task.ID, string(task.UserID),
	)
	if err != nil {
		return fmt.Errorf("replacing task %s: %w", task.ID, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, userID domain.UserID, id string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM tasks WHERE id = ? AND user_id = ?",
		id, string(userID),
	)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) FindTasksByTitle(ctx context.Context, userID domain.UserID, title string) ([]*domain.Task, error) {
	normalized := strings.ToLower(strings.TrimSpace(title))
	if normalized == "" {
		return nil, nil
	}

	var rows []taskRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, title, list_name, status, created_at, due_date
		FROM tasks WHERE user_id = ? AND LOWER(title) = ?
		ORDER BY created_at DESC`,
		string(userID), normalized,
	)
	if err != nil {
		return nil, fmt.Errorf("finding tasks by title: %w", err)
	}
	return toTasks(rows), nil
}

func (s *Store) DeleteTasksInList(ctx context.Context, userID domain.UserID, list string) ([]*domain.Task, error) {
	var rows []taskRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, title, list_name, status, created_at, due_date
		FROM tasks WHERE user_id = ? AND list_name = ?
		ORDER BY created_at DESC`,
		string(userID), list,
	)
	if err != nil {
		return nil, fmt.Errorf("listing tasks to delete: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM tasks WHERE user_id = ? AND list_name = ?",
		string(userID), list,
	); err != nil {
		return nil, fmt.Errorf("deleting tasks in list %q: %w", list, err)
	}
	return toTasks(rows), nil
}
