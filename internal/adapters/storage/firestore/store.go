package firestore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/timeplanner-api/internal/domain"
)

// Store persists tasks and events in Firestore. One document per record,
// keyed by record id, partitioned logically by the userId field.
type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store for the given project
// (PLANNER_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) tasksCol() *firestore.CollectionRef {
	return s.client.Collection("tasks")
}

func (s *Store) eventsCol() *firestore.CollectionRef {
	return s.client.Collection("events")
}

func mapNotFound(err error) error {
	if status.Code(err) == codes.NotFound {
		return domain.ErrNotFound
	}
	return err
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type taskDoc struct {
	UserID    string     `firestore:"userId"`
	Title     string     `firestore:"title"`
	List      string     `firestore:"list"`
	Status    string     `firestore:"status"`
	CreatedAt time.Time  `firestore:"createdAt"`
	Due       *time.Time `firestore:"dueDate,omitempty"`
}

type eventDoc struct {
	UserID    string    `firestore:"userId"`
	Title     string    `firestore:"title"`
	Start     time.Time `firestore:"start"`
	End       time.Time `firestore:"end"`
	List      string    `firestore:"list"`
	CreatedAt time.Time `firestore:"createdAt"`
}

func toTaskDoc(t *domain.Task) taskDoc {
	return taskDoc{
		UserID:    string(t.UserID),
		Title:     t.Title,
		List:      t.List,
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt,
		Due:       t.Due,
	}
}

func fromTaskDoc(id string, doc taskDoc) *domain.Task {
	return &domain.Task{
		ID:        id,
		UserID:    domain.UserID(doc.UserID),
		Title:     doc.Title,
		List:      doc.List,
		Status:    domain.TaskStatus(doc.Status),
		CreatedAt: doc.CreatedAt,
		Due:       doc.Due,
	}
}

func toEventDoc(e *domain.Event) eventDoc {
	return eventDoc{
		UserID:    string(e.UserID),
		Title:     e.Title,
		Start:     e.Start,
		End:       e.End,
		List:      e.List,
		CreatedAt: e.CreatedAt,
	}
}

func fromEventDoc(id string, doc eventDoc) *domain.Event {
	return &domain.Event{
		ID:        id,
		UserID:    domain.UserID(doc.UserID),
		Title:     doc.Title,
		Start:     doc.Start,
		End:       doc.End,
		List:      doc.List,
		CreatedAt: doc.CreatedAt,
	}
}

// ─────────────────────────────────────────
// TaskStore implementation
// ─────────────────────────────────────────

func (s *Store) ListTasks(ctx context.Context, userID domain.UserID) ([]*domain.Task, error) {
	q := s.tasksCol().
		Where("userId", "==", string(userID)).
		OrderBy("createdAt", firestore.Desc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Task
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListTasks: %w", err)
		}

		var doc taskDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode taskDoc: %w", err)
		}
		out = append(out, fromTaskDoc(snap.Ref.ID, doc))
	}
	return out, nil
}

func (s *Store) CreateTask(ctx context.Context, task *domain.Task) error {
	_, err := s.tasksCol().Doc(task.ID).Create(ctx, toTaskDoc(task))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return domain.ErrConflict
		}
		return fmt.Errorf("firestore CreateTask: %w", err)
	}
	return nil
}

func (s *Store) GetTask(ctx context.Context, userID domain.UserID, id string) (*domain.Task, error) {
	snap, err := s.tasksCol().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetTask: %w", err)
	}

	var doc taskDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetTask decode: %w", err)
	}

	// The document id is global; the owner check keeps the partition closed.
	if doc.UserID != string(userID) {
		return nil, domain.ErrNotFound
	}

	return fromTaskDoc(id, doc), nil
}

func (s *Store) ReplaceTask(ctx context.Context, task *domain.Task) error {
	if _, err := s.GetTask(ctx, task.UserID, task.ID); err != nil {
		return err
	}

	// Full Set, not a merge: a cleared due date must disappear from the
	// document rather than be stored as null.
	_, err := s.tasksCol().Doc(task.ID).Set(ctx, toTaskDoc(task))
	if err != nil {
		return fmt.Errorf("firestore ReplaceTask: %w", mapNotFound(err))
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, userID domain.UserID, id string) error {
	if _, err := s.GetTask(ctx, userID, id); err != nil {
		return err
	}

	if _, err := s.tasksCol().Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("firestore DeleteTask: %w", mapNotFound(err))
	}
	return nil
}

func (s *Store) FindTasksByTitle(ctx context.Context, userID domain.UserID, title string) ([]*domain.Task, error) {
	normalized := strings.ToLower(strings.TrimSpace(title))
	if normalized == "" {
		return nil, nil
	}

	// Firestore cannot lower-case a field server-side, so fetch the
	// partition and compare here.
	tasks, err := s.ListTasks(ctx, userID)
	if err != nil {
		return nil, err
	}

	var out []*domain.Task
	for _, t := range tasks {
		if strings.ToLower(t.Title) == normalized {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) DeleteTasksInList(ctx context.Context, userID domain.UserID, list string) ([]*domain.Task, error) {
	q := s.tasksCol().
		Where("userId", "==", string(userID)).
		Where("list", "==", list)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var deleted []*domain.Task
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore DeleteTasksInList: %w", err)
		}

		var doc taskDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode taskDoc: %w", err)
		}

		if _, err := snap.Ref.Delete(ctx); err != nil {
			return nil, fmt.Errorf("firestore DeleteTasksInList delete: %w", err)
		}
		deleted = append(deleted, fromTaskDoc(snap.Ref.ID, doc))
	}
	return deleted, nil
}

// ─────────────────────────────────────────
// EventStore implementation
// ─────────────────────────────────────────

func (s *Store) ListEvents(ctx context.Context, userID domain.UserID, from, to *time.Time) ([]*domain.Event, error) {
	// The overlap test needs inequalities on two fields (end > from,
	// start < to), which Firestore cannot combine in one query. Fetch the
	// partition ordered by start and filter here.
	q := s.eventsCol().
		Where("userId", "==", string(userID)).
		OrderBy("start", firestore.Asc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Event
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListEvents: %w", err)
		}

		var doc eventDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode eventDoc: %w", err)
		}

		event := fromEventDoc(snap.Ref.ID, doc)
		if from != nil && to != nil && !event.Overlaps(*from, *to) {
			continue
		}
		out = append(out, event)
	}
	return out, nil
}

func (s *Store) CreateEvent(ctx context.Context, event *domain.Event) error {
	_, err := s.eventsCol().Doc(event.ID).Create(ctx, toEventDoc(event))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return domain.ErrConflict
		}
		return fmt.Errorf("firestore CreateEvent: %w", err)
	}
	return nil
}

func (s *Store) GetEvent(ctx context.Context, userID domain.UserID, id string) (*domain.Event, error) {
	snap, err := s.eventsCol().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetEvent: %w", err)
	}

	var doc eventDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetEvent decode: %w", err)
	}

	if doc.UserID != string(userID) {
		return nil, domain.ErrNotFound
	}

	return fromEventDoc(id, doc), nil
}

func (s *Store) ReplaceEvent(ctx context.Context, event *domain.Event) error {
	if _, err := s.GetEvent(ctx, event.UserID, event.ID); err != nil {
		return err
	}

	_, err := s.eventsCol().Doc(event.ID).Set(ctx, toEventDoc(event))
	if err != nil {
		return fmt.Errorf("firestore ReplaceEvent: %w", mapNotFound(err))
	}
	return nil
}

func (s *Store) DeleteEvent(ctx context.Context, userID domain.UserID, id string) error {
	if _, err := s.GetEvent(ctx, userID, id); err != nil {
		return err
	}

	if _, err := s.eventsCol().Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("firestore DeleteEvent: %w", mapNotFound(err))
	}
	return nil
}

func (s *Store) FindEventsByTitle(ctx context.Context, userID domain.UserID, title string) ([]*domain.Event, error) {
	normalized := strings.ToLower(strings.TrimSpace(title))
	if normalized == "" {
		return nil, nil
	}

	events, err := s.ListEvents(ctx, userID, nil, nil)
	if err != nil {
		return nil, err
	}

	var exact, partial []*domain.Event
	for _, e := range events {
		current := strings.ToLower(e.Title)
		if current == normalized {
			exact = append(exact, e)
		} else if strings.Contains(current, normalized) {
			partial = append(partial, e)
		}
	}

	if len(exact) > 0 {
		return exact, nil
	}
	return partial, nil
}

func (s *Store) DeleteEventsInRange(ctx context.Context, userID domain.UserID, from, to time.Time) ([]*domain.Event, error) {
	toDelete, err := s.ListEvents(ctx, userID, &from, &to)
	if err != nil {
		return nil, err
	}

	for _, e := range toDelete {
		if _, err := s.eventsCol().Doc(e.ID).Delete(ctx); err != nil {
			return nil, fmt.Errorf("firestore DeleteEventsInRange: %w", err)
		}
	}
	return toDelete, nil
}
