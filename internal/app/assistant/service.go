package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/PabloGalante/timeplanner-api/internal/domain"
	"github.com/PabloGalante/timeplanner-api/internal/observability"
)

// Service is the orchestrator behind /chat: it drives the two-round-trip
// tool-calling protocol against the language model and dispatches the call
// requests it returns against the stores.
type Service struct {
	llm    domain.ChatClient
	tasks  domain.TaskStore
	events domain.EventStore
	now    func() time.Time

	catalog  []domain.ToolDefinition
	handlers map[string]toolHandler
}

func NewService(llm domain.ChatClient, tasks domain.TaskStore, events domain.EventStore) *Service {
	s := &Service{
		llm:     llm,
		tasks:   tasks,
		events:  events,
		now:     time.Now,
		catalog: Catalog(),
	}
	s.handlers = s.dispatchTable()
	return s
}

type ChatInput struct {
	UserID  domain.UserID
	Message string
}

type ChatOutput struct {
	Reply string

	// ToolsUsed lists the operations executed for this turn, in dispatch
	// order. Soft failures count: the store was consulted either way.
	ToolsUsed []string
}

// Chat runs one conversation turn. At most two model round trips happen:
// the first offers the tool catalog with automatic selection, the second —
// only reached when the model requested calls — replays those calls with
// their results and expects a plain-text answer.
func (s *Service) Chat(ctx context.Context, in ChatInput) (*ChatOutput, error) {
	log := observability.LoggerFromContext(ctx).With("user_id", in.UserID)
	log.Info("chat turn started")

	system := buildSystemPrompt(s.now())
	messages := []domain.ChatMessage{
		{Role: domain.RoleUser, Text: in.Message},
	}

	first, err := s.llm.Chat(ctx, domain.ChatRequest{
		System:     system,
		Messages:   messages,
		Tools:      s.catalog,
		AllowTools: true,
	})
	if err != nil {
		log.Error("first model call failed", "error", err)
		return nil, fmt.Errorf("model call: %w", err)
	}

	if len(first.ToolCalls) == 0 {
		log.Info("chat turn done", "tool_calls", 0)
		return &ChatOutput{Reply: first.Text}, nil
	}

	var (
		results []domain.ToolResult
		used    []string
	)
	for _, call := range first.ToolCalls {
		start := time.Now()
		log.Info("dispatching tool call", "tool", call.Name, "call_id", call.ID)

		payload, err := s.dispatch(ctx, in.UserID, call)
		if err != nil {
			// Fatal for the whole turn: the second round trip must echo
			// every call the model made paired with a result, and a failed
			// dispatch leaves no faithful result to report.
			log.Error("tool call failed", "tool", call.Name, "error", err)
			return nil, fmt.Errorf("tool %s: %w", call.Name, err)
		}

		results = append(results, domain.ToolResult{
			CallID:  call.ID,
			Name:    call.Name,
			Payload: payload,
		})
		used = append(used, call.Name)

		log.Info("tool call done",
			"tool", call.Name,
			"outcome", payload["outcome"],
			"elapsed_ms", time.Since(start).Milliseconds())
	}

	// Reassemble the conversation: the model's call requests are echoed
	// verbatim, ids included, followed by one result per call in dispatch
	// order.
	second := make([]domain.ChatMessage, 0, len(messages)+1+len(results))
	second = append(second, messages...)
	second = append(second, domain.ChatMessage{
		Role:      domain.RoleAssistant,
		Text:      first.Text,
		ToolCalls: first.ToolCalls,
	})
	for i := range results {
		second = append(second, domain.ChatMessage{
			Role:       domain.RoleTool,
			ToolResult: &results[i],
		})
	}

	final, err := s.llm.Chat(ctx, domain.ChatRequest{
		System:     system,
		Messages:   second,
		Tools:      s.catalog,
		AllowTools: false,
	})
	if err != nil {
		log.Error("second model call failed", "error", err)
		return nil, fmt.Errorf("model summary call: %w", err)
	}

	log.Info("chat turn done", "tool_calls", len(used))
	return &ChatOutput{
		Reply:     final.Text,
		ToolsUsed: used,
	}, nil
}
