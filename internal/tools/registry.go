package tools

import (
	"encoding/json"
	"strings"

	"github.com/ollamate/ollamate/internal/ollama"
)

// Registry holds a session's callable tools in registration order. It is
// populated once at startup and read-only afterwards.
type Registry struct {
	tools []*Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a tool. Registering a name twice is a programmer error
// and fails with DuplicateToolError.
func (r *Registry) Register(t *Tool) error {
	if _, ok := r.Lookup(t.name); ok {
		return &DuplicateToolError{Name: t.name}
	}
	r.tools = append(r.tools, t)
	return nil
}

// Lookup returns the named tool.
func (r *Registry) Lookup(name string) (*Tool, bool) {
	for _, t := range r.tools {
		if t.name == name {
			return t, true
		}
	}
	return nil, false
}

// Specs returns the wire schemas of all tools in registration order.
func (r *Registry) Specs() []ollama.Tool {
	specs := make([]ollama.Tool, len(r.tools))
	for i, t := range r.tools {
		specs[i] = t.Spec()
	}
	return specs
}

// Invoke validates the call against the tool's declared parameters and
// runs the body synchronously with the values in declaration order.
// Validation failures come back as errors; body failures come back as
// the returned text.
func (r *Registry) Invoke(t *Tool, call Call) (string, error) {
	args, err := t.extractArgs(call)
	if err != nil {
		return "", err
	}
	return t.fn(args), nil
}

// Call is a tool invocation request recovered from assistant text.
type Call struct {
	Name       string
	Parameters map[string]string
}

// ParseCall tentatively reads text as a single tool-call JSON object.
// The text must be exactly one object carrying both a name and
// string-valued parameters; anything else is ordinary prose and reports
// false. Extra object fields are tolerated.
func ParseCall(text string) (Call, bool) {
	var raw struct {
		Name       *string            `json:"name"`
		Parameters *map[string]string `json:"parameters"`
	}
	dec := json.NewDecoder(strings.NewReader(text))
	if err := dec.Decode(&raw); err != nil {
		return Call{}, false
	}
	// Anything after the object means the text merely began with JSON.
	if dec.More() {
		return Call{}, false
	}
	if raw.Name == nil || raw.Parameters == nil {
		return Call{}, false
	}
	return Call{Name: *raw.Name, Parameters: *raw.Parameters}, true
}
