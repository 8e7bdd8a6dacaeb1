package chat

import (
	"github.com/google/uuid"

	"github.com/ollamate/ollamate/internal/ollama"
	"github.com/ollamate/ollamate/internal/tools"
)

// Session owns one conversation: the ordered message history, the model
// it is bound to, and the tool set offered to that model. History is
// append-only and the single source of conversational truth. Turns are
// serialized by the caller; a Session is not safe for concurrent use.
type Session struct {
	id       string
	model    string
	messages []ollama.Message
	registry *tools.Registry
}

// NewSession binds a fresh conversation to a model and tool set.
func NewSession(model string, registry *tools.Registry) *Session {
	return &Session{
		id:       uuid.NewString(),
		model:    model,
		registry: registry,
	}
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// Model returns the model the session is bound to.
func (s *Session) Model() string { return s.model }

// Tools returns the session's tool registry.
func (s *Session) Tools() *tools.Registry { return s.registry }

// Messages returns the history in order. The slice is shared; callers
// must not modify it.
func (s *Session) Messages() []ollama.Message { return s.messages }

// AppendUser adds a user message.
func (s *Session) AppendUser(text string) {
	s.messages = append(s.messages, ollama.Message{Role: ollama.RoleUser, Content: text})
}

// AppendAssistant adds an assistant message.
func (s *Session) AppendAssistant(text string) {
	s.messages = append(s.messages, ollama.Message{Role: ollama.RoleAssistant, Content: text})
}

// AppendTool adds a tool-result message.
func (s *Session) AppendTool(text string) {
	s.messages = append(s.messages, ollama.Message{Role: ollama.RoleTool, Content: text})
}

// Response returns the content of the most recent assistant message. It
// reports false before the first completed turn.
func (s *Session) Response() (string, bool) {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == ollama.RoleAssistant {
			return s.messages[i].Content, true
		}
	}
	return "", false
}
