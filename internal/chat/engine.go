package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ollamate/ollamate/internal/ollama"
	"github.com/ollamate/ollamate/internal/tools"
)

// TurnResult reports what one turn produced.
type TurnResult struct {
	// Text is the full assistant reply as appended to history.
	Text string
	// ToolInvoked reports that the reply was a tool call and a tool
	// message was appended (the result, or a validation error text).
	ToolInvoked bool
	// ToolName is the dispatched tool's name when ToolInvoked is set.
	ToolName string
}

// Engine runs chat turns against one Ollama server. It mutates only the
// Session handed to it; turns are strictly sequential.
type Engine struct {
	client *ollama.Client
	log    *slog.Logger

	// OnDelta receives each streamed content fragment as it arrives,
	// for live display. Optional.
	OnDelta func(string)

	// FollowUp makes Converse issue one extra prompt-less turn after a
	// tool dispatch so the model can react to the tool result.
	FollowUp bool
}

// NewEngine creates an engine with follow-up turns enabled.
func NewEngine(client *ollama.Client, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{client: client, log: log, FollowUp: true}
}

// RunTurn executes exactly one request/response exchange: append the
// prompt (when non-empty), stream the reply, append exactly one
// assistant message, and dispatch at most one tool call. On a stream
// failure the turn aborts with history holding at most the appended
// user message; the session stays usable. RunTurn never issues
// follow-up turns.
func (e *Engine) RunTurn(ctx context.Context, s *Session, prompt string) (TurnResult, error) {
	if prompt != "" {
		s.AppendUser(prompt)
	}

	req := ollama.ChatRequest{
		Model:    s.Model(),
		Messages: s.Messages(),
		Tools:    s.Tools().Specs(),
		Stream:   true,
	}

	var text strings.Builder
	err := e.client.ChatStream(ctx, req, func(chunk ollama.ChatChunk) error {
		if chunk.Message.Content != "" {
			text.WriteString(chunk.Message.Content)
			if e.OnDelta != nil {
				e.OnDelta(chunk.Message.Content)
			}
		}
		if chunk.Done {
			e.log.Debug("turn complete",
				"session", s.ID(),
				"model", chunk.Model,
				"eval_count", chunk.EvalCount,
				"total_duration", time.Duration(chunk.TotalDuration),
			)
		}
		return nil
	})
	if err != nil {
		return TurnResult{}, fmt.Errorf("streaming turn: %w", err)
	}

	reply := text.String()
	s.AppendAssistant(reply)

	call, ok := tools.ParseCall(reply)
	if !ok {
		return TurnResult{Text: reply}, nil
	}
	tool, ok := s.Tools().Lookup(call.Name)
	if !ok {
		// JSON that merely names an unknown tool is ordinary content.
		return TurnResult{Text: reply}, nil
	}

	result, err := s.Tools().Invoke(tool, call)
	if err != nil {
		result = fmt.Sprintf("Error calling %s: %v", call.Name, err)
	}
	s.AppendTool(result)
	e.log.Info("tool dispatched", "session", s.ID(), "tool", call.Name)

	return TurnResult{Text: reply, ToolInvoked: true, ToolName: call.Name}, nil
}

// Converse runs one turn and, when that turn dispatched a tool and
// FollowUp is set, exactly one extra prompt-less turn so the model can
// use the tool result. The last executed turn's result is returned.
func (e *Engine) Converse(ctx context.Context, s *Session, prompt string) (TurnResult, error) {
	res, err := e.RunTurn(ctx, s, prompt)
	if err != nil || !res.ToolInvoked || !e.FollowUp {
		return res, err
	}
	return e.RunTurn(ctx, s, "")
}
