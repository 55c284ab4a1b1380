// Package orchestrator drives one conversation through its turns: it
// appends user input, calls the agent with the full history and appends
// exactly one assistant reply per answered turn.
package orchestrator

import (
	"context"
	"fmt"
	"log"

	"fitcoach-backend/internal/agent"
	"fitcoach-backend/internal/conversation"
	"fitcoach-backend/internal/models"
)

// ErrorReplyPrefix starts the assistant message written when the agent call fails.
const ErrorReplyPrefix = "Terjadi kesalahan saat memanggil agent: "

// Invoker is the agent boundary.
type Invoker interface {
	Invoke(ctx context.Context, conversation []models.ChatMessage) (agent.Result, error)
}

type State int

const (
	Idle State = iota
	Pending
)

func (s State) String() string {
	if s == Pending {
		return "pending"
	}
	return "idle"
}

// Outcome describes what one input event did to the conversation.
type Outcome struct {
	Appended       []models.ChatMessage
	Reply          string
	ReplyKind      agent.Kind
	Answered       bool
	AgentAvailable bool
	Err            error // agent failure folded into Reply
}

// Orchestrator is not safe for concurrent use; one event is handled to
// completion before the next.
type Orchestrator struct {
	store *conversation.Store
	agent Invoker
	state State
}

// New creates an orchestrator. A nil invoker disables orchestration: user
// messages are still recorded but never answered.
func New(store *conversation.Store, invoker Invoker) *Orchestrator {
	return &Orchestrator{store: store, agent: invoker}
}

// SetAgent swaps the agent, e.g. after a settings change. nil disables it.
func (o *Orchestrator) SetAgent(invoker Invoker) {
	o.agent = invoker
}

func (o *Orchestrator) AgentAvailable() bool { return o.agent != nil }

func (o *Orchestrator) State() State { return o.state }

func (o *Orchestrator) Store() *conversation.Store { return o.store }

// Submit records free-text input and runs a turn.
func (o *Orchestrator) Submit(ctx context.Context, input string) (Outcome, error) {
	start := o.store.Len()
	if err := o.store.Append(ctx, models.ChatMessage{Role: models.RoleUser, Content: input}); err != nil {
		return Outcome{AgentAvailable: o.AgentAvailable()}, err
	}
	out, err := o.run(ctx)
	out.Appended = o.store.Since(start)
	return out, err
}

// QuickWorkout submits the templated workout prompt for params.
func (o *Orchestrator) QuickWorkout(ctx context.Context, p WorkoutParams) (Outcome, error) {
	return o.Submit(ctx, WorkoutPrompt(p))
}

// QuickMeal submits the templated meal-plan prompt for params.
func (o *Orchestrator) QuickMeal(ctx context.Context, p MealParams) (Outcome, error) {
	return o.Submit(ctx, MealPrompt(p))
}

// Pending reports whether the last message is an unanswered user message.
func (o *Orchestrator) Pending() bool {
	last, ok := o.store.Last()
	return ok && last.Role == models.RoleUser
}

// Resume answers a trailing user message left unanswered, for instance
// because no agent was configured when it arrived.
func (o *Orchestrator) Resume(ctx context.Context) (Outcome, error) {
	start := o.store.Len()
	out, err := o.run(ctx)
	out.Appended = o.store.Since(start)
	return out, err
}

// run performs IDLE → PENDING → IDLE when an agent exists and the last
// message is from the user. Agent errors become the reply text; only a
// failure to persist the reply is returned.
func (o *Orchestrator) run(ctx context.Context) (Outcome, error) {
	out := Outcome{AgentAvailable: o.AgentAvailable()}
	if o.agent == nil || !o.Pending() {
		return out, nil
	}

	o.state = Pending
	defer func() { o.state = Idle }()

	res, err := o.agent.Invoke(ctx, o.store.Messages())
	if err != nil {
		log.Printf("orchestrator: agent invocation failed: %v", err)
		out.Err = err
		out.Reply = ErrorReplyPrefix + err.Error()
	} else {
		out.Reply = res.Text
		out.ReplyKind = res.Kind
	}

	if err := o.store.Append(ctx, models.ChatMessage{Role: models.RoleAssistant, Content: out.Reply}); err != nil {
		return out, fmt.Errorf("failed to record reply: %w", err)
	}
	out.Answered = true
	return out, nil
}
