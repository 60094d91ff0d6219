package domain

import (
	"context"
	"time"
)

// ChatClient defines how the application talks to a language model.
type ChatClient interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// TaskStore defines task persistence. Every operation is scoped to one
// owner partition and is expected to be immediately consistent within it.
type TaskStore interface {
	// ListTasks returns all tasks of a user, newest first.
	ListTasks(ctx context.Context, userID UserID) ([]*Task, error)
	CreateTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, userID UserID, id string) (*Task, error)
	ReplaceTask(ctx context.Context, task *Task) error
	DeleteTask(ctx context.Context, userID UserID, id string) error

	// FindTasksByTitle returns tasks whose title equals the query,
	// case-insensitively. A blank query returns no matches.
	FindTasksByTitle(ctx context.Context, userID UserID, title string) ([]*Task, error)

	// DeleteTasksInList removes every task of the user in the given list
	// and returns the deleted set.
	DeleteTasksInList(ctx context.Context, userID UserID, list string) ([]*Task, error)
}

// EventStore defines event persistence, scoped to one owner partition.
type EventStore interface {
	// ListEvents returns the user's events sorted by start time ascending.
	// When from and to are both set, only events overlapping the half-open
	// range [from, to) are returned.
	ListEvents(ctx context.Context, userID UserID, from, to *time.Time) ([]*Event, error)
	CreateEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, userID UserID, id string) (*Event, error)
	ReplaceEvent(ctx context.Context, event *Event) error
	DeleteEvent(ctx context.Context, userID UserID, id string) error

	// FindEventsByTitle matches titles case-insensitively: exact matches
	// first, falling back to substring matches only when there is no exact
	// match. A blank query returns no matches.
	FindEventsByTitle(ctx context.Context, userID UserID, title string) ([]*Event, error)

	// DeleteEventsInRange removes every event overlapping [from, to) and
	// returns the deleted set.
	DeleteEventsInRange(ctx context.Context, userID UserID, from, to time.Time) ([]*Event, error)
}
