package tools

import (
	"maps"
	"slices"

	"github.com/ollamate/ollamate/internal/ollama"
)

// Func is a tool body: it receives the validated argument values in
// parameter declaration order and returns the tool-message text. Bodies
// report their own failures as text; they never return an error.
type Func func(args []string) string

// Param describes one tool parameter. Required only affects the schema
// advertised to the model; validation demands every declared parameter.
type Param struct {
	Name        string
	Type        string
	Description string
	Enum        []string
	Required    bool
}

// Tool couples a callable body with the schema advertised to the model.
// Parameters keep declaration order: it is the validation order and the
// positional order of the body's arguments.
type Tool struct {
	name        string
	description string
	params      []Param
	fn          Func
}

// New creates a tool with the given name and body. Names must be unique
// within a Registry; that is enforced at registration.
func New(name, description string, fn Func) *Tool {
	return &Tool{name: name, description: description, fn: fn}
}

// AddParam declares the next parameter.
func (t *Tool) AddParam(p Param) *Tool {
	t.params = append(t.params, p)
	return t
}

// Name returns the tool's unique name.
func (t *Tool) Name() string { return t.name }

// Spec renders the wire schema sent with chat requests.
func (t *Tool) Spec() ollama.Tool {
	props := make(map[string]ollama.ToolProperty, len(t.params))
	var required []string
	for _, p := range t.params {
		props[p.Name] = ollama.ToolProperty{
			Type:        p.Type,
			Description: p.Description,
			Enum:        p.Enum,
		}
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return ollama.Tool{
		Type: "function",
		Function: ollama.ToolFunction{
			Name:        t.name,
			Description: t.description,
			Parameters: ollama.ToolParams{
				Type:       "object",
				Properties: props,
				Required:   required,
			},
		},
	}
}

// extractArgs validates call arguments and returns the values in
// parameter declaration order. Every declared parameter must be
// supplied, and every supplied key must be declared.
func (t *Tool) extractArgs(call Call) ([]string, error) {
	args := make([]string, 0, len(t.params))
	for _, p := range t.params {
		v, ok := call.Parameters[p.Name]
		if !ok {
			return nil, &MissingArgError{Tool: t.name, Param: p.Name}
		}
		args = append(args, v)
	}
	for _, key := range slices.Sorted(maps.Keys(call.Parameters)) {
		if !t.declares(key) {
			return nil, &UnexpectedArgError{Tool: t.name, Key: key}
		}
	}
	return args, nil
}

func (t *Tool) declares(name string) bool {
	for _, p := range t.params {
		if p.Name == name {
			return true
		}
	}
	return false
}
