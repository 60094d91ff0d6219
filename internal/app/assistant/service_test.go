package assistant_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/PabloGalante/timeplanner-api/internal/adapters/llm"
	memstore "github.com/PabloGalante/timeplanner-api/internal/adapters/storage/memory"
	"github.com/PabloGalante/timeplanner-api/internal/app/assistant"
	"github.com/PabloGalante/timeplanner-api/internal/domain"
)

func newTestService(responses ...*domain.ChatResponse) (*assistant.Service, *llm.MockLLM, *memstore.TaskStore, *memstore.EventStore) {
	mock := llm.NewMockLLM(responses...)
	tasks := memstore.NewTaskStore()
	events := memstore.NewEventStore()
	return assistant.NewService(mock, tasks, events), mock, tasks, events
}

func TestChatWithoutToolCalls(t *testing.T) {
	svc, mock, tasks, _ := newTestService(
		&domain.ChatResponse{Text: "Hello! How can I help you plan your day?"},
	)

	out, err := svc.Chat(context.Background(), assistant.ChatInput{
		UserID:  "user-1",
		Message: "hi there",
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if out.Reply != "Hello! How can I help you plan your day?" {
		t.Fatalf("expected the model text verbatim, got %q", out.Reply)
	}
	if len(out.ToolsUsed) != 0 {
		t.Fatalf("expected no tools used, got %v", out.ToolsUsed)
	}
	if len(mock.Requests) != 1 {
		t.Fatalf("expected a single model round trip, got %d", len(mock.Requests))
	}

	req := mock.Requests[0]
	if !req.AllowTools {
		t.Fatal("first round trip must offer tools")
	}
	if len(req.Tools) == 0 {
		t.Fatal("first round trip must carry the tool catalog")
	}
	if !strings.Contains(req.System, "current date and time") {
		t.Fatalf("system prompt missing the timestamp line: %q", req.System)
	}
	if len(req.Messages) != 1 || req.Messages[0].Text != "hi there" {
		t.Fatalf("unexpected message list: %v", req.Messages)
	}

	got, err := tasks.ListTasks(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no store writes, found %d tasks", len(got))
	}
}

func TestChatCreateTaskRoundTrip(t *testing.T) {
	svc, mock, tasks, _ := newTestService(
		&domain.ChatResponse{
			ToolCalls: []domain.ToolCall{{
				ID:   "call-1",
				Name: "create_task",
				Args: map[string]any{"title": "Buy milk"},
			}},
		},
		&domain.ChatResponse{Text: "Done, I added \"Buy milk\" to your Inbox."},
	)

	out, err := svc.Chat(context.Background(), assistant.ChatInput{
		UserID:  "user-1",
		Message: "remind me to buy milk",
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if out.Reply != "Done, I added \"Buy milk\" to your Inbox." {
		t.Fatalf("unexpected reply: %q", out.Reply)
	}
	if len(out.ToolsUsed) != 1 || out.ToolsUsed[0] != "create_task" {
		t.Fatalf("expected tools used [create_task], got %v", out.ToolsUsed)
	}

	stored, err := tasks.ListTasks(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected exactly one created task, got %d", len(stored))
	}
	task := stored[0]
	if task.Title != "Buy milk" || task.List != domain.DefaultTaskList || task.Status != domain.TaskStatusOpen {
		t.Fatalf("unexpected task defaults: %+v", task)
	}
	if task.ID == "" {
		t.Fatal("expected a generated task id")
	}

	if len(mock.Requests) != 2 {
		t.Fatalf("expected two model round trips, got %d", len(mock.Requests))
	}

	second := mock.Requests[1]
	if second.AllowTools {
		t.Fatal("second round trip must not offer tool selection")
	}
	if len(second.Messages) != 3 {
		t.Fatalf("expected [user, assistant, tool] messages, got %d", len(second.Messages))
	}

	echo := second.Messages[1]
	if echo.Role != domain.RoleAssistant || len(echo.ToolCalls) != 1 || echo.ToolCalls[0].ID != "call-1" {
		t.Fatalf("assistant echo must replay the call verbatim: %+v", echo)
	}

	result := second.Messages[2]
	if result.Role != domain.RoleTool || result.ToolResult == nil {
		t.Fatalf("expected a tool result message, got %+v", result)
	}
	if result.ToolResult.CallID != "call-1" || result.ToolResult.Name != "create_task" {
		t.Fatalf("tool result not paired with its call: %+v", result.ToolResult)
	}
	if result.ToolResult.Payload["outcome"] != "ok" {
		t.Fatalf("expected outcome ok, got %v", result.ToolResult.Payload["outcome"])
	}
}

func TestChatUpdateTaskRefusesOnAmbiguousTitle(t *testing.T) {
	svc, mock, tasks, _ := newTestService(
		&domain.ChatResponse{
			ToolCalls: []domain.ToolCall{{
				ID:   "call-1",
				Name: "update_task",
				Args: map[string]any{"match_title": "report", "status": "done"},
			}},
		},
		&domain.ChatResponse{Text: "You have two tasks called \"report\", which one did you mean?"},
	)

	ctx := context.Background()
	for _, task := range []*domain.Task{
		{ID: "t1", UserID: "user-1", Title: "Report", List: "Work", Status: domain.TaskStatusOpen, CreatedAt: time.Now()},
		{ID: "t2", UserID: "user-1", Title: "report", List: "Home", Status: domain.TaskStatusOpen, CreatedAt: time.Now()},
	} {
		if err := tasks.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}

	out, err := svc.Chat(ctx, assistant.ChatInput{UserID: "user-1", Message: "mark the report done"})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	// The ambiguity is data for the model, not an error, and no write happens.
	if len(out.ToolsUsed) != 1 || out.ToolsUsed[0] != "update_task" {
		t.Fatalf("expected tools used [update_task], got %v", out.ToolsUsed)
	}

	result := mock.Requests[1].Messages[2].ToolResult
	if result.Payload["outcome"] != "multiple_matches" {
		t.Fatalf("expected multiple_matches, got %v", result.Payload["outcome"])
	}
	matches, ok := result.Payload["matches"].([]map[string]any)
	if !ok || len(matches) != 2 {
		t.Fatalf("expected both candidates in the payload, got %v", result.Payload["matches"])
	}

	for _, id := range []string{"t1", "t2"} {
		got, err := tasks.GetTask(ctx, "user-1", id)
		if err != nil {
			t.Fatalf("GetTask failed: %v", err)
		}
		if got.Status != domain.TaskStatusOpen {
			t.Fatalf("task %s must be untouched, got status %q", id, got.Status)
		}
	}
}

func TestChatDeleteTaskNotFoundIsSoft(t *testing.T) {
	svc, mock, _, _ := newTestService(
		&domain.ChatResponse{
			ToolCalls: []domain.ToolCall{{
				ID:   "call-1",
				Name: "delete_task",
				Args: map[string]any{"match_title": "does not exist"},
			}},
		},
		&domain.ChatResponse{Text: "I could not find that task."},
	)

	out, err := svc.Chat(context.Background(), assistant.ChatInput{UserID: "user-1", Message: "delete it"})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if len(out.ToolsUsed) != 1 || out.ToolsUsed[0] != "delete_task" {
		t.Fatalf("expected tools used [delete_task], got %v", out.ToolsUsed)
	}

	result := mock.Requests[1].Messages[2].ToolResult
	if result.Payload["outcome"] != "not_found" {
		t.Fatalf("expected not_found, got %v", result.Payload["outcome"])
	}
}

func TestChatUnknownToolNameAbortsTurn(t *testing.T) {
	svc, mock, _, _ := newTestService(
		&domain.ChatResponse{
			ToolCalls: []domain.ToolCall{{
				ID:   "call-1",
				Name: "reboot_server",
				Args: map[string]any{},
			}},
		},
	)

	_, err := svc.Chat(context.Background(), assistant.ChatInput{UserID: "user-1", Message: "do something"})
	if err == nil {
		t.Fatal("expected an error for an unknown operation name")
	}
	if !strings.Contains(err.Error(), "reboot_server") {
		t.Fatalf("error should name the bogus operation: %v", err)
	}
	if len(mock.Requests) != 1 {
		t.Fatalf("no second round trip must happen after a fatal dispatch, got %d requests", len(mock.Requests))
	}
}

func TestChatClearDueDateViaExplicitNull(t *testing.T) {
	svc, _, tasks, _ := newTestService(
		&domain.ChatResponse{
			ToolCalls: []domain.ToolCall{{
				ID:   "call-1",
				Name: "update_task",
				Args: map[string]any{"task_id": "t1", "due_date": nil},
			}},
		},
		&domain.ChatResponse{Text: "Removed the due date."},
	)

	ctx := context.Background()
	due := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)
	if err := tasks.CreateTask(ctx, &domain.Task{
		ID: "t1", UserID: "user-1", Title: "File taxes", List: "Inbox",
		Status: domain.TaskStatusOpen, CreatedAt: time.Now(), Due: &due,
	}); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if _, err := svc.Chat(ctx, assistant.ChatInput{UserID: "user-1", Message: "drop the deadline"}); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	got, err := tasks.GetTask(ctx, "user-1", "t1")
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.Due != nil {
		t.Fatalf("expected the due date cleared, got %v", got.Due)
	}
}

func TestChatSequentialCallsKeepDispatchOrder(t *testing.T) {
	svc, mock, tasks, _ := newTestService(
		&domain.ChatResponse{
			ToolCalls: []domain.ToolCall{
				{ID: "call-1", Name: "create_task", Args: map[string]any{"title": "Pack bags"}},
				{ID: "call-2", Name: "list_tasks", Args: map[string]any{}},
			},
		},
		&domain.ChatResponse{Text: "Created it; you now have one task."},
	)

	out, err := svc.Chat(context.Background(), assistant.ChatInput{UserID: "user-1", Message: "add pack bags and show my list"})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if len(out.ToolsUsed) != 2 || out.ToolsUsed[0] != "create_task" || out.ToolsUsed[1] != "list_tasks" {
		t.Fatalf("expected dispatch order preserved, got %v", out.ToolsUsed)
	}

	// The list call runs after the create, so it must see the new task.
	second := mock.Requests[1]
	listResult := second.Messages[3].ToolResult
	if listResult.CallID != "call-2" {
		t.Fatalf("results must follow call order, got %q", listResult.CallID)
	}
	if listResult.Payload["count"] != 1 {
		t.Fatalf("list_tasks must observe the earlier create, got count %v", listResult.Payload["count"])
	}

	stored, err := tasks.ListTasks(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected one stored task, got %d", len(stored))
	}
}
