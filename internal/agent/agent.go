// Package agent builds a stateless tool-using Gemini agent. An Agent takes
// the full conversation on every call and returns a tagged Result.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"fitcoach-backend/internal/models"
	"fitcoach-backend/internal/tools"
)

const DefaultMaxToolIterations = 5

const systemPrompt = `You are a friendly gym & fitness coach and nutrition assistant.
Answer questions about training, recovery and nutrition concisely.
When the user asks for a training program, call recommend_workout.
When the user asks for a meal plan or calorie/macro targets, call recommend_meal_plan.
Extract tool arguments from the conversation and present tool output clearly, adding short practical tips.
Reply in the user's language.`

var (
	// ErrUnavailable means the LLM/tool runtime could not be constructed.
	ErrUnavailable = errors.New("agent unavailable")
	ErrNoUserTurn  = errors.New("conversation must end with a user message")
)

// Config is the immutable model configuration for one agent instance.
type Config struct {
	APIKey            string
	Model             string
	Temperature       float64
	MaxToolIterations int
	// Limiter is shared between agents; nil means unlimited.
	Limiter *Limiter
}

// Agent binds one model configuration to a fixed tool set.
type Agent struct {
	client  *genai.Client
	gen     generator
	tools   *tools.Registry
	maxIter int
	limiter *Limiter
}

// Build creates an agent. The API key goes straight into the client; it is
// not validated here, so an empty key fails on the first call instead.
func Build(ctx context.Context, cfg Config, registry *tools.Registry) (*Agent, error) {
	if registry == nil || registry.Len() == 0 {
		return nil, fmt.Errorf("%w: no tools registered", ErrUnavailable)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", ErrUnavailable, err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(float32(cfg.Temperature))
	model.Tools = declarations(registry.Specs())

	a := newAgent(geminiGenerator{model: model}, registry, cfg.MaxToolIterations)
	a.client = client
	a.limiter = cfg.Limiter
	return a, nil
}

func newAgent(gen generator, registry *tools.Registry, maxIter int) *Agent {
	if maxIter <= 0 {
		maxIter = DefaultMaxToolIterations
	}
	return &Agent{gen: gen, tools: registry, maxIter: maxIter}
}

func (a *Agent) Close() error {
	if a.client == nil {
		return nil
	}
	return a.client.Close()
}

// Invoke runs one ReAct-style turn over the whole conversation: the model
// may call tools up to maxIter times before its final answer.
func (a *Agent) Invoke(ctx context.Context, conversation []models.ChatMessage) (Result, error) {
	contents, sys := toContents(conversation)
	if len(contents) == 0 || contents[len(contents)-1].Role != roleUser {
		return Result{}, ErrNoUserTurn
	}

	system := systemInstruction(sys)
	history := contents[:len(contents)-1]
	parts := contents[len(contents)-1].Parts

	steps := []Step{{Role: roleUser, Text: extractText(contents[len(contents)-1])}}

	var resp *genai.GenerateContentResponse
	for i := 0; ; i++ {
		var err error
		resp, err = a.generate(ctx, system, history, parts)
		if err != nil {
			return Result{}, fmt.Errorf("Gemini API error: %w", err)
		}
		history = append(history, &genai.Content{Role: roleUser, Parts: parts})

		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			break
		}
		content := resp.Candidates[0].Content
		content.Role = roleModel
		history = append(history, content)

		calls := functionCalls(content)
		if text := extractText(content); text != "" || len(calls) == 0 {
			steps = append(steps, Step{Role: roleModel, Text: text})
		}
		if len(calls) == 0 {
			break
		}
		if i >= a.maxIter {
			log.Printf("agent: tool iteration limit (%d) reached", a.maxIter)
			break
		}

		parts = make([]genai.Part, 0, len(calls))
		for _, fc := range calls {
			steps = append(steps, Step{Role: roleModel, ToolName: fc.Name, ToolArgs: fc.Args})
			response, output := a.callTool(fc)
			steps = append(steps, Step{Role: "tool", ToolName: fc.Name, Text: output})
			parts = append(parts, genai.FunctionResponse{Name: fc.Name, Response: response})
		}
	}

	return adapt(resp, steps), nil
}

func (a *Agent) generate(ctx context.Context, system *genai.Content, history []*genai.Content, parts []genai.Part) (*genai.GenerateContentResponse, error) {
	if err := a.limiter.acquire(ctx); err != nil {
		return nil, err
	}
	defer a.limiter.release()
	return a.gen.Generate(ctx, system, history, parts...)
}

// callTool never fails the turn: tool errors go back to the model as an
// "error" response so it can recover.
func (a *Agent) callTool(fc genai.FunctionCall) (map[string]any, string) {
	log.Printf("agent: calling tool %s", fc.Name)
	out, err := a.tools.Execute(fc.Name, fc.Args)
	if err != nil {
		log.Printf("agent: tool %s failed: %v", fc.Name, err)
		return map[string]any{"error": err.Error()}, "error: " + err.Error()
	}
	return map[string]any{"result": out}, out
}
