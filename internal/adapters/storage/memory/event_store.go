package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PabloGalante/timeplanner-api/internal/domain"
)

// EventStore is a simple in-memory implementation of domain.EventStore.
type EventStore struct {
	mu     sync.RWMutex
	events map[domain.UserID]map[string]*domain.Event
}

func NewEventStore() *EventStore {
	return &EventStore{
		events: make(map[domain.UserID]map[string]*domain.Event),
	}
}

func cloneEvent(e *domain.Event) *domain.Event {
	c := *e
	return &c
}

func sortByStart(events []*domain.Event) {
	sort.Slice(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
}

func (s *EventStore) ListEvents(ctx context.Context, userID domain.UserID, from, to *time.Time) ([]*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Event
	for _, e := range s.events[userID] {
		if from != nil && to != nil && !e.Overlaps(*from, *to) {
			continue
		}
		out = append(out, cloneEvent(e))
	}

	sortByStart(out)
	return out, nil
}

func (s *EventStore) CreateEvent(ctx context.Context, event *domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := s.events[event.UserID]
	if byID == nil {
		byID = make(map[string]*domain.Event)
		s.events[event.UserID] = byID
	}
	if _, exists := byID[event.ID]; exists {
		return domain.ErrConflict
	}

	byID[event.ID] = cloneEvent(event)
	return nil
}

func (s *EventStore) GetEvent(ctx context.Context, userID domain.UserID, id string) (*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[userID][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneEvent(e), nil
}

func (s *EventStore) ReplaceEvent(ctx context.Context, event *domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := s.events[event.UserID]
	if _, ok := byID[event.ID]; !ok {
		return domain.ErrNotFound
	}

	byID[event.ID] = cloneEvent(event)
	return nil
}

func (s *EventStore) DeleteEvent(ctx context.Context, userID domain.UserID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := s.events[userID]
	if _, ok := byID[id]; !ok {
		return domain.ErrNotFound
	}

	delete(byID, id)
	return nil
}

func (s *EventStore) FindEventsByTitle(ctx context.Context, userID domain.UserID, title string) ([]*domain.Event, error) {
	normalized := strings.ToLower(strings.TrimSpace(title))
	if normalized == "" {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var exact, partial []*domain.Event
	for _, e := range s.events[userID] {
		current := strings.ToLower(e.Title)
		if current == normalized {
			exact = append(exact, cloneEvent(e))
		} else if strings.Contains(current, normalized) {
			partial = append(partial, cloneEvent(e))
		}
	}

	// Exact matches win; the substring fallback only applies when there
	// is no exact match.
	out := exact
	if len(out) == 0 {
		out = partial
	}

	sortByStart(out)
	return out, nil
}

func (s *EventStore) DeleteEventsInRange(ctx context.Context, userID domain.UserID, from, to time.Time) ([]*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := s.events[userID]

	var deleted []*domain.Event
	for id, e := range byID {
		if e.Overlaps(from, to) {
			deleted = append(deleted, cloneEvent(e))
			delete(byID, id)
		}
	}

	sortByStart(deleted)
	return deleted, nil
}
