package assistant

import "github.com/PabloGalante/timeplanner-api/internal/domain"

// Limits for listing operations. Requested limits are clamped into
// [1, maxListLimit]; absent limits default to defaultListLimit.
const (
	defaultListLimit = 20
	maxListLimit     = 50
)

func floatPtr(v float64) *float64 { return &v }

// Catalog returns the declarative list of operations offered to the model.
// Pure data: names here must stay in lock-step with the dispatch table.
func Catalog() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        "create_task",
			Description: "Create a new task for the user. Use when they ask to add or remember a to-do item.",
			Params: map[string]domain.ToolParam{
				"title": {
					Type:        domain.ParamString,
					Description: "Title of the task.",
				},
				"list": {
					Type:        domain.ParamString,
					Description: "List the task belongs to, e.g. Inbox, Work, Personal. Defaults to Inbox.",
				},
				"due_date": {
					Type:        domain.ParamString,
					Description: "Optional due date/time in RFC 3339 format.",
				},
			},
			Required: []string{"title"},
		},
		{
			Name:        "list_tasks",
			Description: "List the user's tasks, optionally filtered by list and status.",
			Params: map[string]domain.ToolParam{
				"list": {
					Type:        domain.ParamString,
					Description: "Only include tasks in this list.",
				},
				"status": {
					Type:        domain.ParamString,
					Description: "Only include tasks with this status.",
					Enum:        []string{"open", "done"},
				},
				"limit": {
					Type:        domain.ParamInteger,
					Description: "Maximum number of tasks to return. Defaults to 20.",
					Minimum:     floatPtr(1),
					Maximum:     floatPtr(maxListLimit),
				},
			},
		},
		{
			Name:        "update_task",
			Description: "Update an existing task: rename it, move it to another list, mark it done or open, or change its due date.",
			Params: map[string]domain.ToolParam{
				"task_id": {
					Type:        domain.ParamString,
					Description: "Id of the task, if known.",
				},
				"match_title": {
					Type:        domain.ParamString,
					Description: "Title of the task to update, when the id is not known.",
				},
				"title": {
					Type:        domain.ParamString,
					Description: "New title.",
				},
				"list": {
					Type:        domain.ParamString,
					Description: "New list.",
				},
				"status": {
					Type:        domain.ParamString,
					Description: "New status.",
					Enum:        []string{"open", "done"},
				},
				"due_date": {
					Type:        domain.ParamString,
					Description: "New due date/time in RFC 3339 format.",
				},
				"clear_due_date": {
					Type:        domain.ParamBoolean,
					Description: "Set to true to remove the due date entirely.",
				},
			},
		},
		{
			Name:        "delete_task",
			Description: "Delete a single task by id or by title.",
			Params: map[string]domain.ToolParam{
				"task_id": {
					Type:        domain.ParamString,
					Description: "Id of the task, if known.",
				},
				"match_title": {
					Type:        domain.ParamString,
					Description: "Title of the task to delete, when the id is not known.",
				},
			},
		},
		{
			Name:        "delete_tasks_in_list",
			Description: "Delete every task in a list. Use when the user wants to clear a whole list.",
			Params: map[string]domain.ToolParam{
				"list": {
					Type:        domain.ParamString,
					Description: "List to clear.",
				},
			},
			Required: []string{"list"},
		},
		{
			Name:        "create_event",
			Description: "Create a calendar event with a start and end time.",
			Params: map[string]domain.ToolParam{
				"title": {
					Type:        domain.ParamString,
					Description: "Title of the event.",
				},
				"start": {
					Type:        domain.ParamString,
					Description: "Start date/time in RFC 3339 format.",
				},
				"end": {
					Type:        domain.ParamString,
					Description: "End date/time in RFC 3339 format.",
				},
				"list": {
					Type:        domain.ParamString,
					Description: "Calendar the event belongs to. Defaults to Default.",
				},
			},
			Required: []string{"title", "start", "end"},
		},
		{
			Name:        "list_events",
			Description: "List the user's calendar events, optionally within a time range.",
			Params: map[string]domain.ToolParam{
				"start": {
					Type:        domain.ParamString,
					Description: "Range start in RFC 3339 format. Must be given together with end.",
				},
				"end": {
					Type:        domain.ParamString,
					Description: "Range end in RFC 3339 format (exclusive).",
				},
				"upcoming_only": {
					Type:        domain.ParamBoolean,
					Description: "Exclude events that have already ended.",
				},
				"limit": {
					Type:        domain.ParamInteger,
					Description: "Maximum number of events to return. Defaults to 20.",
					Minimum:     floatPtr(1),
					Maximum:     floatPtr(maxListLimit),
				},
			},
		},
		{
			Name:        "update_event",
			Description: "Update an existing event: rename it, move it in time, or change its calendar.",
			Params: map[string]domain.ToolParam{
				"event_id": {
					Type:        domain.ParamString,
					Description: "Id of the event, if known.",
				},
				"match_title": {
					Type:        domain.ParamString,
					Description: "Title of the event to update, when the id is not known.",
				},
				"title": {
					Type:        domain.ParamString,
					Description: "New title.",
				},
				"start": {
					Type:        domain.ParamString,
					Description: "New start date/time in RFC 3339 format.",
				},
				"end": {
					Type:        domain.ParamString,
					Description: "New end date/time in RFC 3339 format.",
				},
				"list": {
					Type:        domain.ParamString,
					Description: "New calendar.",
				},
			},
		},
		{
			Name:        "delete_event",
			Description: "Delete a single event by id or by title.",
			Params: map[string]domain.ToolParam{
				"event_id": {
					Type:        domain.ParamString,
					Description: "Id of the event, if known.",
				},
				"match_title": {
					Type:        domain.ParamString,
					Description: "Title of the event to delete, when the id is not known.",
				},
			},
		},
		{
			Name:        "delete_events_in_range",
			Description: "Delete every event overlapping a time range. Use when the user wants to clear part of their calendar.",
			Params: map[string]domain.ToolParam{
				"start": {
					Type:        domain.ParamString,
					Description: "Range start in RFC 3339 format.",
				},
				"end": {
					Type:        domain.ParamString,
					Description: "Range end in RFC 3339 format (exclusive).",
				},
			},
			Required: []string{"start", "end"},
		},
	}
}
