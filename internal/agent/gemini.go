package agent

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"fitcoach-backend/internal/models"
	"fitcoach-backend/internal/tools"
)

const (
	roleUser  = "user"
	roleModel = "model"
)

// generator is the slice of the Gemini chat API the loop needs.
type generator interface {
	Generate(ctx context.Context, system *genai.Content, history []*genai.Content, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type geminiGenerator struct {
	model *genai.GenerativeModel
}

func (g geminiGenerator) Generate(ctx context.Context, system *genai.Content, history []*genai.Content, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	// SystemInstruction is per call; the shared model is never mutated.
	m := *g.model
	m.SystemInstruction = system
	cs := m.StartChat()
	cs.History = history
	return cs.SendMessage(ctx, parts...)
}

// toContents maps the conversation to Gemini contents (user→user,
// assistant→model). Consecutive messages with the same role are merged
// and system messages are returned separately.
func toContents(msgs []models.ChatMessage) (contents []*genai.Content, system []string) {
	for _, m := range msgs {
		var role string
		switch m.Role {
		case models.RoleSystem:
			system = append(system, m.Content)
			continue
		case models.RoleUser:
			role = roleUser
		default:
			role = roleModel
		}

		if n := len(contents); n > 0 && contents[n-1].Role == role {
			contents[n-1].Parts = append(contents[n-1].Parts, genai.Text(m.Content))
			continue
		}
		contents = append(contents, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}
	return contents, system
}

func systemInstruction(extra []string) *genai.Content {
	text := systemPrompt
	if len(extra) > 0 {
		text += "\n\n" + strings.Join(extra, "\n")
	}
	return genai.NewUserContent(genai.Text(text))
}

// declarations converts tool specs into Gemini function declarations.
func declarations(specs []tools.Spec) []*genai.Tool {
	decls := make([]*genai.FunctionDeclaration, 0, len(specs))
	for _, s := range specs {
		params := &genai.Schema{
			Type:       genai.TypeObject,
			Properties: make(map[string]*genai.Schema, len(s.Params)),
		}
		for _, p := range s.Params {
			params.Properties[p.Name] = &genai.Schema{
				Type:        schemaType(p.Type),
				Description: p.Description,
				Enum:        p.Enum,
			}
			if p.Required {
				params.Required = append(params.Required, p.Name)
			}
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        s.Name,
			Description: s.Description,
			Parameters:  params,
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

func schemaType(t tools.ParamType) genai.Type {
	switch t {
	case tools.TypeInteger:
		return genai.TypeInteger
	case tools.TypeNumber:
		return genai.TypeNumber
	default:
		return genai.TypeString
	}
}

func functionCalls(c *genai.Content) []genai.FunctionCall {
	var calls []genai.FunctionCall
	for _, part := range c.Parts {
		if fc, ok := part.(genai.FunctionCall); ok {
			calls = append(calls, fc)
		}
	}
	return calls
}

func extractText(c *genai.Content) string {
	var text strings.Builder
	for _, part := range c.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return text.String()
}
