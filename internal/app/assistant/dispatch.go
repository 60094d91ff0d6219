package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/timeplanner-api/internal/domain"
)

// toolHandler executes one call request against the stores and returns the
// payload reported back to the model. Soft failures (not_found,
// multiple_matches) come back as payloads; an error aborts the whole turn.
type toolHandler func(ctx context.Context, userID domain.UserID, args callArgs) (map[string]any, error)

func (s *Service) dispatchTable() map[string]toolHandler {
	return map[string]toolHandler{
		"create_task":            s.createTask,
		"list_tasks":             s.listTasks,
		"update_task":            s.updateTask,
		"delete_task":            s.deleteTask,
		"delete_tasks_in_list":   s.deleteTasksInList,
		"create_event":           s.createEvent,
		"list_events":            s.listEvents,
		"update_event":           s.updateEvent,
		"delete_event":           s.deleteEvent,
		"delete_events_in_range": s.deleteEventsInRange,
	}
}

func (s *Service) dispatch(ctx context.Context, userID domain.UserID, call domain.ToolCall) (map[string]any, error) {
	handler, ok := s.handlers[call.Name]
	if !ok {
		// A name outside the catalog is a contract violation by the model.
		return nil, fmt.Errorf("model requested unknown operation %q", call.Name)
	}
	return handler(ctx, userID, callArgs(call.Args))
}

// ─────────────────────────────────────────
// Result shaping
// ─────────────────────────────────────────

func notFoundResult() map[string]any {
	return map[string]any{"outcome": "not_found"}
}

func multipleMatchesResult(matches []map[string]any) map[string]any {
	return map[string]any{
		"outcome": "multiple_matches",
		"matches": matches,
	}
}

func taskPayload(t *domain.Task) map[string]any {
	p := map[string]any{
		"id":        t.ID,
		"title":     t.Title,
		"list":      t.List,
		"status":    string(t.Status),
		"createdAt": t.CreatedAt.Format(time.RFC3339),
	}
	if t.Due != nil {
		p["dueDate"] = t.Due.Format(time.RFC3339)
	}
	return p
}

func eventPayload(e *domain.Event) map[string]any {
	return map[string]any{
		"id":        e.ID,
		"title":     e.Title,
		"start":     e.Start.Format(time.RFC3339),
		"end":       e.End.Format(time.RFC3339),
		"list":      e.List,
		"createdAt": e.CreatedAt.Format(time.RFC3339),
	}
}

func taskPayloads(tasks []*domain.Task) []map[string]any {
	out := make([]map[string]any, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskPayload(t))
	}
	return out
}

func eventPayloads(events []*domain.Event) []map[string]any {
	out := make([]map[string]any, 0, len(events))
	for _, e := range events {
		out = append(out, eventPayload(e))
	}
	return out
}

// ─────────────────────────────────────────
// Target resolution
// ─────────────────────────────────────────

// resolveTask finds the single task a call targets. An explicit id wins and
// a failed read propagates as an error. Title resolution yields a soft
// payload on zero or multiple matches; the model is expected to ask the
// user to disambiguate. Delete and update share this policy deliberately.
func (s *Service) resolveTask(ctx context.Context, userID domain.UserID, args callArgs) (*domain.Task, map[string]any, error) {
	if id := args.stringArg("task_id"); id != "" {
		t, err := s.tasks.GetTask(ctx, userID, id)
		if err != nil {
			return nil, nil, fmt.Errorf("reading task %s: %w", id, err)
		}
		return t, nil, nil
	}

	title := args.stringArg("match_title")
	if title == "" {
		return nil, nil, fmt.Errorf("task_id or match_title is required")
	}

	matches, err := s.tasks.FindTasksByTitle(ctx, userID, title)
	if err != nil {
		return nil, nil, fmt.Errorf("finding tasks by title: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, notFoundResult(), nil
	case 1:
		return matches[0], nil, nil
	default:
		return nil, multipleMatchesResult(taskPayloads(matches)), nil
	}
}

func (s *Service) resolveEvent(ctx context.Context, userID domain.UserID, args callArgs) (*domain.Event, map[string]any, error) {
	if id := args.stringArg("event_id"); id != "" {
		e, err := s.events.GetEvent(ctx, userID, id)
		if err != nil {
			return nil, nil, fmt.Errorf("reading event %s: %w", id, err)
		}
		return e, nil, nil
	}

	title := args.stringArg("match_title")
	if title == "" {
		return nil, nil, fmt.Errorf("event_id or match_title is required")
	}

	matches, err := s.events.FindEventsByTitle(ctx, userID, title)
	if err != nil {
		return nil, nil, fmt.Errorf("finding events by title: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, notFoundResult(), nil
	case 1:
		return matches[0], nil, nil
	default:
		return nil, multipleMatchesResult(eventPayloads(matches)), nil
	}
}

// ─────────────────────────────────────────
// Task operations
// ─────────────────────────────────────────

func (s *Service) createTask(ctx context.Context, userID domain.UserID, args callArgs) (map[string]any, error) {
	title := args.stringArg("title")
	if title == "" {
		return nil, fmt.Errorf("argument title is required")
	}

	list := args.stringArg("list")
	if list == "" {
		list = domain.DefaultTaskList
	}

	due, err := args.timeArg("due_date")
	if err != nil {
		return nil, err
	}

	task := &domain.Task{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		List:      list,
		Status:    domain.TaskStatusOpen,
		CreatedAt: s.now().UTC(),
		Due:       due,
	}

	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	return map[string]any{"outcome": "ok", "task": taskPayload(task)}, nil
}

func (s *Service) listTasks(ctx context.Context, userID domain.UserID, args callArgs) (map[string]any, error) {
	status := args.stringArg("status")
	if status != "" && status != string(domain.TaskStatusOpen) && status != string(domain.TaskStatusDone) {
		return nil, fmt.Errorf("invalid status %q", status)
	}
	list := args.stringArg("list")
	limit := clampLimit(args.intArg("limit", defaultListLimit))

	all, err := s.tasks.ListTasks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	// The store returns the full partition newest first; filter and
	// truncate here.
	var filtered []*domain.Task
	for _, t := range all {
		if list != "" && t.List != list {
			continue
		}
		if status != "" && string(t.Status) != status {
			continue
		}
		filtered = append(filtered, t)
		if len(filtered) == limit {
			break
		}
	}

	return map[string]any{
		"outcome": "ok",
		"count":   len(filtered),
		"tasks":   taskPayloads(filtered),
	}, nil
}

func (s *Service) updateTask(ctx context.Context, userID domain.UserID, args callArgs) (map[string]any, error) {
	task, soft, err := s.resolveTask(ctx, userID, args)
	if err != nil {
		return nil, err
	}
	if soft != nil {
		return soft, nil
	}

	if title := args.stringArg("title"); title != "" {
		task.Title = title
	}
	if list := args.stringArg("list"); list != "" {
		task.List = list
	}
	if status := args.stringArg("status"); status != "" {
		if status != string(domain.TaskStatusOpen) && status != string(domain.TaskStatusDone) {
			return nil, fmt.Errorf("invalid status %q", status)
		}
		task.Status = domain.TaskStatus(status)
	}

	// An explicit null due date clears the field, as does clear_due_date.
	if args.boolArg("clear_due_date") || args.isNull("due_date") {
		task.Due = nil
	} else {
		due, err := args.timeArg("due_date")
		if err != nil {
			return nil, err
		}
		if due != nil {
			task.Due = due
		}
	}

	if err := s.tasks.ReplaceTask(ctx, task); err != nil {
		return nil, fmt.Errorf("replacing task %s: %w", task.ID, err)
	}

	return map[string]any{"outcome": "ok", "task": taskPayload(task)}, nil
}

func (s *Service) deleteTask(ctx context.Context, userID domain.UserID, args callArgs) (map[string]any, error) {
	task, soft, err := s.resolveTask(ctx, userID, args)
	if err != nil {
		return nil, err
	}
	if soft != nil {
		return soft, nil
	}

	if err := s.tasks.DeleteTask(ctx, userID, task.ID); err != nil {
		return nil, fmt.Errorf("deleting task %s: %w", task.ID, err)
	}

	return map[string]any{"outcome": "ok", "deleted": taskPayload(task)}, nil
}

func (s *Service) deleteTasksInList(ctx context.Context, userID domain.UserID, args callArgs) (map[string]any, error) {
	list := args.stringArg("list")
	if list == "" {
		return nil, fmt.Errorf("argument list is required")
	}

	deleted, err := s.tasks.DeleteTasksInList(ctx, userID, list)
	if err != nil {
		return nil, fmt.Errorf("deleting tasks in list %q: %w", list, err)
	}

	return map[string]any{
		"outcome":       "ok",
		"deleted_count": len(deleted),
		"deleted":       taskPayloads(deleted),
	}, nil
}

// ─────────────────────────────────────────
// Event operations
// ─────────────────────────────────────────

func (s *Service) createEvent(ctx context.Context, userID domain.UserID, args callArgs) (map[string]any, error) {
	title := args.stringArg("title")
	if title == "" {
		return nil, fmt.Errorf("argument title is required")
	}

	start, err := args.requireTimeArg("start")
	if err != nil {
		return nil, err
	}
	end, err := args.requireTimeArg("end")
	if err != nil {
		return nil, err
	}

	list := args.stringArg("list")
	if list == "" {
		list = domain.DefaultEventList
	}

	event := &domain.Event{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Start:     start,
		End:       end,
		List:      list,
		CreatedAt: s.now().UTC(),
	}

	if err := s.events.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}

	return map[string]any{"outcome": "ok", "event": eventPayload(event)}, nil
}

func (s *Service) listEvents(ctx context.Context, userID domain.UserID, args callArgs) (map[string]any, error) {
	from, err := args.timeArg("start")
	if err != nil {
		return nil, err
	}
	to, err := args.timeArg("end")
	if err != nil {
		return nil, err
	}
	if (from == nil) != (to == nil) {
		return nil, fmt.Errorf("start and end must be given together")
	}

	limit := clampLimit(args.intArg("limit", defaultListLimit))

	events, err := s.events.ListEvents(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	if args.boolArg("upcoming_only") {
		now := s.now()
		var upcoming []*domain.Event
		for _, e := range events {
			if !e.End.Before(now) {
				upcoming = append(upcoming, e)
			}
		}
		events = upcoming
	}

	if len(events) > limit {
		events = events[:limit]
	}

	return map[string]any{
		"outcome": "ok",
		"count":   len(events),
		"events":  eventPayloads(events),
	}, nil
}

func (s *Service) updateEvent(ctx context.Context, userID domain.UserID, args callArgs) (map[string]any, error) {
	event, soft, err := s.resolveEvent(ctx, userID, args)
	if err != nil {
		return nil, err
	}
	if soft != nil {
		return soft, nil
	}

	if title := args.stringArg("title"); title != "" {
		event.Title = title
	}
	if list := args.stringArg("list"); list != "" {
		event.List = list
	}
	start, err := args.timeArg("start")
	if err != nil {
		return nil, err
	}
	if start != nil {
		event.Start = *start
	}
	end, err := args.timeArg("end")
	if err != nil {
		return nil, err
	}
	if end != nil {
		event.End = *end
	}

	if err := s.events.ReplaceEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("replacing event %s: %w", event.ID, err)
	}

	return map[string]any{"outcome": "ok", "event": eventPayload(event)}, nil
}

func (s *Service) deleteEvent(ctx context.Context, userID domain.UserID, args callArgs) (map[string]any, error) {
	event, soft, err := s.resolveEvent(ctx, userID, args)
	if err != nil {
		return nil, err
	}
	if soft != nil {
		return soft, nil
	}

	if err := s.events.DeleteEvent(ctx, userID, event.ID); err != nil {
		return nil, fmt.Errorf("deleting event %s: %w", event.ID, err)
	}

	return map[string]any{"outcome": "ok", "deleted": eventPayload(event)}, nil
}

func (s *Service) deleteEventsInRange(ctx context.Context, userID domain.UserID, args callArgs) (map[string]any, error) {
	from, err := args.requireTimeArg("start")
	if err != nil {
		return nil, err
	}
	to, err := args.requireTimeArg("end")
	if err != nil {
		return nil, err
	}

	deleted, err := s.events.DeleteEventsInRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("deleting events in range: %w", err)
	}

	return map[string]any{
		"outcome":       "ok",
		"deleted_count": len(deleted),
		"deleted":       eventPayloads(deleted),
	}, nil
}
