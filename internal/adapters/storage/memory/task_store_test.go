package memory_test

import (
	"context"
	"testing"
	"time"

	memstore "github.com/PabloGalante/timeplanner-api/internal/adapters/storage/memory"
	"github.com/PabloGalante/timeplanner-api/internal/domain"
)

func newTask(id string, user domain.UserID, title, list string, createdAt time.Time) *domain.Task {
	return &domain.Task{
		ID:        id,
		UserID:    user,
		Title:     title,
		List:      list,
		Status:    domain.TaskStatusOpen,
		CreatedAt: createdAt,
	}
}

func TestCreateAndGetTask(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewTaskStore()

	task := newTask("t1", "user-1", "Write backend tests", "Inbox", time.Now())
	if err := store.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	got, err := store.GetTask(ctx, "user-1", "t1")
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.Status != domain.TaskStatusOpen {
		t.Fatalf("expected status open, got %q", got.Status)
	}
	if got.Due != nil {
		t.Fatalf("expected no due date, got %v", got.Due)
	}

	if err := store.CreateTask(ctx, task); err != domain.ErrConflict {
		t.Fatalf("expected ErrConflict on duplicate create, got %v", err)
	}
}

func TestReplaceTaskClearsDueDate(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewTaskStore()

	due := time.Date(2025, 11, 25, 12, 0, 0, 0, time.UTC)
	task := newTask("t1", "user-2", "Prepare demo", "Work", time.Now())
	task.Due = &due
	if err := store.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	task.Due = nil
	if err := store.ReplaceTask(ctx, task); err != nil {
		t.Fatalf("ReplaceTask failed: %v", err)
	}

	got, err := store.GetTask(ctx, "user-2", "t1")
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.Due != nil {
		t.Fatalf("expected cleared due date, got %v", got.Due)
	}
}

func TestListTasksIsScopedToOwnerAndSorted(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewTaskStore()

	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	for _, task := range []*domain.Task{
		newTask("t1", "user-4", "First", "Inbox", base),
		newTask("t2", "user-4", "Second", "Inbox", base.Add(24*time.Hour)),
		newTask("t3", "someone-else", "Skip me", "Inbox", base.Add(48*time.Hour)),
	} {
		if err := store.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}

	got, err := store.ListTasks(ctx, "user-4")
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(got))
	}
	if got[0].ID != "t2" || got[1].ID != "t1" {
		t.Fatalf("expected newest first [t2 t1], got [%s %s]", got[0].ID, got[1].ID)
	}
}

func TestDeleteTasksInList(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewTaskStore()

	now := time.Now()
	for _, task := range []*domain.Task{
		newTask("t1", "user-3", "Task 1", "List A", now),
		newTask("t2", "user-3", "Task 2", "List A", now.Add(time.Minute)),
		newTask("t3", "user-3", "Task 3", "List B", now.Add(2*time.Minute)),
	} {
		if err := store.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}

	deleted, err := store.DeleteTasksInList(ctx, "user-3", "List A")
	if err != nil {
		t.Fatalf("DeleteTasksInList failed: %v", err)
	}
	if len(deleted) != 2 {
		t.Fatalf("expected 2 deleted tasks, got %d", len(deleted))
	}

	if _, err := store.GetTask(ctx, "user-3", "t1"); err != domain.ErrNotFound {
		t.Fatalf("expected t1 gone, got %v", err)
	}
	if _, err := store.GetTask(ctx, "user-3", "t3"); err != nil {
		t.Fatalf("expected t3 intact, got %v", err)
	}
}

func TestFindTasksByTitleIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewTaskStore()

	if err := store.CreateTask(ctx, newTask("t1", "user-1", "Buy Milk", "Inbox", time.Now())); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	matches, err := store.FindTasksByTitle(ctx, "user-1", "buy milk")
	if err != nil {
		t.Fatalf("FindTasksByTitle failed: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != "t1" {
		t.Fatalf("expected exact match t1, got %v", matches)
	}

	matches, err = store.FindTasksByTitle(ctx, "user-1", "   ")
	if err != nil {
		t.Fatalf("FindTasksByTitle failed: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches for blank query, got %d", len(matches))
	}
}
