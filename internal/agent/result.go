package agent

import (
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
)

// Kind tags how a Result's text was obtained.
type Kind int

const (
	// KindReply means the final model message carried text content.
	KindReply Kind = iota
	// KindRaw means no text was produced and Text is a rendering of the
	// raw model response.
	KindRaw
)

func (k Kind) String() string {
	if k == KindRaw {
		return "raw"
	}
	return "reply"
}

// Step is one entry of the message list produced during an invocation.
type Step struct {
	Role     string         `json:"role"` // "user", "model" or "tool"
	Text     string         `json:"text,omitempty"`
	ToolName string         `json:"tool_name,omitempty"`
	ToolArgs map[string]any `json:"tool_args,omitempty"`
}

// Result is what an invocation hands back to the orchestrator.
type Result struct {
	Kind     Kind
	Text     string
	Messages []Step
}

// Reply wraps final text content.
func Reply(text string, steps []Step) Result {
	return Result{Kind: KindReply, Text: text, Messages: steps}
}

// RawFallback wraps a rendering of a response that had no text.
func RawFallback(text string, steps []Step) Result {
	return Result{Kind: KindRaw, Text: text, Messages: steps}
}

// adapt turns the last model response into a tagged Result. It is the only
// place that looks at response shape.
func adapt(resp *genai.GenerateContentResponse, steps []Step) Result {
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		if text := extractText(resp.Candidates[0].Content); text != "" {
			return Reply(text, steps)
		}
	}
	return RawFallback(renderRaw(resp), steps)
}

func renderRaw(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return "<nil>"
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf("%+v", *resp)
	}
	return string(data)
}
