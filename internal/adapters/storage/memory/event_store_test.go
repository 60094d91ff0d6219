package memory_test

import (
	"context"
	"testing"
	"time"

	memstore "github.com/PabloGalante/timeplanner-api/internal/adapters/storage/memory"
	"github.com/PabloGalante/timeplanner-api/internal/domain"
)

func newEvent(id string, user domain.UserID, title string, start, end time.Time) *domain.Event {
	return &domain.Event{
		ID:        id,
		UserID:    user,
		Title:     title,
		Start:     start,
		End:       end,
		List:      domain.DefaultEventList,
		CreatedAt: time.Now(),
	}
}

func TestListEventsReturnsOverlappingWindow(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewEventStore()

	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	for _, e := range []*domain.Event{
		newEvent("e1", "user-1", "Breakfast", at(8, 0), at(9, 0)),
		newEvent("e2", "user-1", "Standup", at(10, 0), at(11, 0)),
		newEvent("e3", "user-1", "Dinner", at(19, 0), at(20, 0)),
	} {
		if err := store.CreateEvent(ctx, e); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
	}

	// An event ending exactly at the window start must not be included,
	// and neither must one starting at the window end.
	from, to := at(9, 30), at(12, 0)
	got, err := store.ListEvents(ctx, "user-1", &from, &to)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "e2" {
		t.Fatalf("expected only e2 in [09:30, 12:00), got %v", got)
	}

	all, err := store.ListEvents(ctx, "user-1", nil, nil)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events without a window, got %d", len(all))
	}
	if all[0].ID != "e1" || all[2].ID != "e3" {
		t.Fatalf("expected events sorted by start, got [%s %s %s]", all[0].ID, all[1].ID, all[2].ID)
	}
}

func TestFindEventsByTitlePrefersExactMatches(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewEventStore()

	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	for _, e := range []*domain.Event{
		newEvent("e1", "user-1", "Team Meeting", day.Add(9*time.Hour), day.Add(10*time.Hour)),
		newEvent("e2", "user-1", "Weekly team meeting prep", day.Add(11*time.Hour), day.Add(12*time.Hour)),
	} {
		if err := store.CreateEvent(ctx, e); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
	}

	matches, err := store.FindEventsByTitle(ctx, "user-1", "team meeting")
	if err != nil {
		t.Fatalf("FindEventsByTitle failed: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != "e1" {
		t.Fatalf("expected the exact match only, got %v", matches)
	}

	matches, err = store.FindEventsByTitle(ctx, "user-1", "team")
	if err != nil {
		t.Fatalf("FindEventsByTitle failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 substring matches, got %d", len(matches))
	}
}

func TestDeleteEventsInRange(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewEventStore()

	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	for _, e := range []*domain.Event{
		newEvent("e1", "user-1", "Morning run", day.Add(7*time.Hour), day.Add(8*time.Hour)),
		newEvent("e2", "user-1", "Standup", day.Add(10*time.Hour), day.Add(11*time.Hour)),
		newEvent("e3", "user-1", "Dinner", day.Add(19*time.Hour), day.Add(20*time.Hour)),
	} {
		if err := store.CreateEvent(ctx, e); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
	}

	deleted, err := store.DeleteEventsInRange(ctx, "user-1", day.Add(9*time.Hour), day.Add(12*time.Hour))
	if err != nil {
		t.Fatalf("DeleteEventsInRange failed: %v", err)
	}
	if len(deleted) != 1 || deleted[0].ID != "e2" {
		t.Fatalf("expected only e2 deleted, got %v", deleted)
	}

	remaining, err := store.ListEvents(ctx, "user-1", nil, nil)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected 2 remaining events, got %d", len(remaining))
	}
}

func TestEventStoreScopesByUser(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewEventStore()

	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	mine := newEvent("e1", "user-1", "Mine", day.Add(9*time.Hour), day.Add(10*time.Hour))
	theirs := newEvent("e2", "user-2", "Theirs", day.Add(9*time.Hour), day.Add(10*time.Hour))
	for _, e := range []*domain.Event{mine, theirs} {
		if err := store.CreateEvent(ctx, e); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
	}

	if _, err := store.GetEvent(ctx, "user-1", "e2"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound for another user's event, got %v", err)
	}

	got, err := store.ListEvents(ctx, "user-1", nil, nil)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "e1" {
		t.Fatalf("expected only user-1 events, got %v", got)
	}
}
