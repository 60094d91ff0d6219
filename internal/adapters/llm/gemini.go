package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/PabloGalante/timeplanner-api/internal/domain"
)

type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient creates a domain.ChatClient based on Vertex AI (Gemini).
func NewGeminiClient(ctx context.Context, projectID, location, modelName string) (*GeminiClient, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("projectID and location are required for the Gemini client")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// Chat implements domain.ChatClient using Vertex AI.
func (g *GeminiClient) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	contents := toContents(req.Messages)

	temp := float32(0.2)
	topP := float32(0.9)
	outputTokens := int32(8192)

	cfg := &genai.GenerateContentConfig{
		// Per the official examples, the role here is RoleUser, not "system".
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   outputTokens,
	}

	if len(req.Tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(req.Tools))
		for _, def := range req.Tools {
			decls = append(decls, &genai.FunctionDeclaration{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  toSchema(def),
			})
		}
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: decls}}

		mode := genai.FunctionCallingConfigModeNone
		if req.AllowTools {
			mode = genai.FunctionCallingConfigModeAuto
		}
		cfg.ToolConfig = &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{Mode: mode},
		}
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	out := &domain.ChatResponse{Text: res.Text()}
	for _, fc := range res.FunctionCalls() {
		out.ToolCalls = append(out.ToolCalls, domain.ToolCall{
			ID:   fc.ID,
			Name: fc.Name,
			Args: fc.Args,
		})
	}

	if out.Text == "" && len(out.ToolCalls) == 0 {
		return nil, fmt.Errorf("gemini returned neither text nor tool calls")
	}
	return out, nil
}

// toContents maps conversation messages to genai contents. Assistant
// messages carrying call requests are replayed as FunctionCall parts and
// tool results as FunctionResponse parts, so the model sees exactly the
// calls it made paired with their outcomes.
func toContents(msgs []domain.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case domain.RoleAssistant:
			parts := make([]*genai.Part, 0, 1+len(m.ToolCalls))
			if m.Text != "" {
				parts = append(parts, genai.NewPartFromText(m.Text))
			}
			for _, call := range m.ToolCalls {
				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{
						ID:   call.ID,
						Name: call.Name,
						Args: call.Args,
					},
				})
			}
			contents = append(contents, &genai.Content{Role: genai.RoleModel, Parts: parts})

		case domain.RoleTool:
			if m.ToolResult == nil {
				continue
			}
			contents = append(contents, &genai.Content{
				Role: genai.RoleUser,
				Parts: []*genai.Part{{
					FunctionResponse: &genai.FunctionResponse{
						ID:       m.ToolResult.CallID,
						Name:     m.ToolResult.Name,
						Response: m.ToolResult.Payload,
					},
				}},
			})

		default:
			contents = append(contents, genai.NewContentFromText(m.Text, genai.RoleUser))
		}
	}
	return contents
}

func toSchema(def domain.ToolDefinition) *genai.Schema {
	props := make(map[string]*genai.Schema, len(def.Params))
	for name, p := range def.Params {
		ps := &genai.Schema{
			Description: p.Description,
			Enum:        p.Enum,
			Minimum:     p.Minimum,
			Maximum:     p.Maximum,
		}
		switch p.Type {
		case domain.ParamInteger:
			ps.Type = genai.TypeInteger
		case domain.ParamBoolean:
			ps.Type = genai.TypeBoolean
		default:
			ps.Type = genai.TypeString
		}
		props[name] = ps
	}

	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   def.Required,
	}
}
