package domain

import "time"

type UserID string

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusOpen TaskStatus = "open"
	TaskStatusDone TaskStatus = "done"
)

const (
	// DefaultTaskList is the category a task lands in when none is given.
	DefaultTaskList = "Inbox"

	// DefaultEventList is the category an event lands in when none is given.
	DefaultEventList = "Default"
)

// Task is a to-do item owned by a single user. The owner is the partition
// key and never changes after creation. Due == nil means "no due date".
type Task struct {
	ID        string
	UserID    UserID
	Title     string
	List      string
	Status    TaskStatus
	CreatedAt time.Time
	Due       *time.Time
}

// Event is a calendar entry owned by a single user. End is expected to be
// >= Start but is not enforced.
type Event struct {
	ID        string
	UserID    UserID
	Title     string
	Start     time.Time
	End       time.Time
	List      string
	CreatedAt time.Time
}

// Overlaps reports whether the event intersects the half-open range
// [from, to): the event ends strictly after the range starts and starts
// strictly before the range ends.
func (e *Event) Overlaps(from, to time.Time) bool {
	return e.End.After(from) && e.Start.Before(to)
}
