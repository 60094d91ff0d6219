package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PabloGalante/timeplanner-api/internal/domain"
)

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

type eventRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Title     string    `db:"title"`
	Start     time.Time `db:"start_at"`
	End       time.Time `db:"end_at"`
	List      string    `db:"list_name"`
	CreatedAt time.Time `db:"created_at"`
}

func (r eventRow) toDomain() *domain.Event {
	return &domain.Event{
		ID:        r.ID,
		UserID:    domain.UserID(r.UserID),
		Title:     r.Title,
		Start:     r.Start,
		End:       r.End,
		List:      r.List,
		CreatedAt: r.CreatedAt,
	}
}

func toEvents(rows []eventRow) []*domain.Event {
	out := make([]*domain.Event, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out
}

func (s *Store) ListEvents(ctx context.Context, userID domain.UserID, from, to *time.Time) ([]*domain.Event, error) {
	var rows []eventRow
	var err error

	if from != nil && to != nil {
		// Half-open overlap test: the event ends after the range starts
		// and starts before the range ends.
		err = s.db.SelectContext(ctx, &rows, `
			SELECT id, user_id, title, start_at, end_at, list_name, created_at
			FROM events WHERE user_id = ? AND end_at > ? AND start_at < ?
			ORDER BY start_at ASC`,
			string(userID), from.UTC(), to.UTC(),
		)
	} else {
		err = s.db.SelectContext(ctx, &rows, `
			SELECT id, user_id, title, start_at, end_at, list_name, created_at
			FROM events WHERE user_id = ?
			ORDER BY start_at ASC`,
			string(userID),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return toEvents(rows), nil
}

func (s *Store) CreateEvent(ctx context.Context, event *domain.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, user_id, title, start_at, end_at, list_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID, string(event.UserID), event.Title,
		event.Start.UTC(), event.End.UTC(), event.List, event.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating event: %w", err)
	}
	return nil
}

func (s *Store) GetEvent(ctx context.Context, userID domain.UserID, id string) (*domain.Event, error) {
	var row eventRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, title, start_at, end_at, list_name, created_at
		FROM events WHERE id = ? AND user_id = ?`,
		id, string(userID),
	)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("getting event %s: %w", id, err)
	}
	return row.toDomain(), nil
}

func (s *Store) ReplaceEvent(ctx context.Context, event *domain.Event) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE events SET title = ?, start_at = ?, end_at = ?, list_name = ?
		WHERE id = ? AND user_id = ?`,
		event.Title, event.Start.UTC(), event.End.UTC(), event.List,
		event.ID, string(event.UserID),
	)
	if err != nil {
		return fmt.Errorf("replacing event %s: %w", event.ID, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteEvent(ctx context.Context, userID domain.UserID, id string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM events WHERE id = ? AND user_id = ?",
		id, string(userID),
	)
	if err != nil {
		return fmt.Errorf("deleting event %s: %w", id, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) FindEventsByTitle(ctx context.Context, userID domain.UserID, title string) ([]*domain.Event, error) {
	normalized := strings.ToLower(strings.TrimSpace(title))
	if normalized == "" {
		return nil, nil
	}

	var rows []eventRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, title, start_at, end_at, list_name, created_at
		FROM events WHERE user_id = ? AND LOWER(title) = ?
		ORDER BY start_at ASC`,
		string(userID), normalized,
	)
	if err != nil {
		return nil, fmt.Errorf("finding events by title: %w", err)
	}
	if len(rows) > 0 {
		return toEvents(rows), nil
	}

	// No exact match: fall back to substring matching.
	err = s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, title, start_at, end_at, list_name, created_at
		FROM events WHERE user_id = ? AND INSTR(LOWER(title), ?) > 0
		ORDER BY start_at ASC`,
		string(userID), normalized,
	)
	if err != nil {
		return nil, fmt.Errorf("finding events by partial title: %w", err)
	}
	return toEvents(rows), nil
}

func (s *Store) DeleteEventsInRange(ctx context.Context, userID domain.UserID, from, to time.Time) ([]*domain.Event, error) {
	deleted, err := s.ListEvents(ctx, userID, &from, &to)
	if err != nil {
		return nil, err
	}

	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM events WHERE user_id = ? AND end_at > ? AND start_at < ?",
		string(userID), from.UTC(), to.UTC(),
	); err != nil {
		return nil, fmt.Errorf("deleting events in range: %w", err)
	}
	return deleted, nil
}
