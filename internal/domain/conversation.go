package domain

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ChatMessage is one entry in the conversation sent to the model. A turn is
// built fresh for every request and discarded afterwards; nothing here is
// persisted.
type ChatMessage struct {
	Role Role
	Text string

	// ToolCalls carries the call requests the model made, echoed back
	// verbatim on an assistant message during the second round trip.
	ToolCalls []ToolCall

	// ToolResult is set on RoleTool messages only.
	ToolResult *ToolResult
}

// ToolCall is a structured call request parsed from the model's response.
// Args is untrusted model output and must be defensively normalized.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// ToolResult is the structured outcome reported back to the model for one
// call request. One result is produced for every call received, including
// soft failures.
type ToolResult struct {
	CallID  string
	Name    string
	Payload map[string]any
}

// ParamType is the JSON-schema type of a tool parameter.
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamInteger ParamType = "integer"
	ParamBoolean ParamType = "boolean"
)

// ToolParam describes one parameter of a tool, the way the model sees it.
type ToolParam struct {
	Type        ParamType
	Description string
	Enum        []string
	Minimum     *float64
	Maximum     *float64
}

// ToolDefinition is a declarative description of one callable operation.
// Pure data; the gateway adapter translates it into its own schema format.
type ToolDefinition struct {
	Name        string
	Description string
	Params      map[string]ToolParam
	Required    []string
}

// ChatRequest is one round trip to the language model.
type ChatRequest struct {
	System   string
	Messages []ChatMessage
	Tools    []ToolDefinition

	// AllowTools enables automatic tool selection. When false the model
	// must answer with plain text.
	AllowTools bool
}

// ChatResponse is what the model returned: free text, call requests, or both.
type ChatResponse struct {
	Text      string
	ToolCalls []ToolCall
}
