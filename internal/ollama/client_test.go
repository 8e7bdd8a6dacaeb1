package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// modelsJSON builds a /api/tags or /api/ps response with the given model names.
func modelsJSON(names ...string) []byte {
	resp := listResponse{}
	for _, n := range names {
		resp.Models = append(resp.Models, Model{Name: n})
	}
	b, _ := json.Marshal(resp)
	return b
}

// chunkLine encodes one NDJSON line of a streamed chat reply.
func chunkLine(content string, done bool) string {
	b, _ := json.Marshal(ChatChunk{
		Model:   "llama3.1:latest",
		Message: Message{Role: RoleAssistant, Content: content},
		Done:    done,
	})
	return string(b) + "\n"
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		resp := listResponse{Models: []Model{
			{Name: "llama3.1:latest", Details: ModelDetails{Family: "llama", ParameterSize: "8.0B"}},
			{Name: "mistral-nemo:latest"},
			{Name: "qwen2.5:14b"},
		}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := New(srv.URL)
	models, err := c.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}

	if len(models) != 3 {
		t.Fatalf("got %d models, want 3", len(models))
	}

	want := []string{"llama3.1:latest", "mistral-nemo:latest", "qwen2.5:14b"}
	for i, w := range want {
		if models[i].Name != w {
			t.Errorf("models[%d].Name = %q, want %q", i, models[i].Name, w)
		}
	}
	if models[0].Details.Family != "llama" {
		t.Errorf("Details.Family = %q, want %q", models[0].Details.Family, "llama")
	}
	if models[0].Details.ParameterSize != "8.0B" {
		t.Errorf("Details.ParameterSize = %q, want %q", models[0].Details.ParameterSize, "8.0B")
	}
}

func TestListModels_Unavailable(t *testing.T) {
	// Point at a closed server to simulate connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL)
	_, err := c.ListModels(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}

func TestListModels_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListModels(context.Background())
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("error = %v, want ErrProtocol", err)
	}
}

func TestListModels_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListModels(context.Background())
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("error = %v, want ErrProtocol", err)
	}
}

func TestListRunning(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write(modelsJSON("llama3.1:latest"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	models, err := c.ListRunning(context.Background())
	if err != nil {
		t.Fatalf("ListRunning: %v", err)
	}

	if gotPath != "/api/ps" {
		t.Errorf("path = %q, want %q", gotPath, "/api/ps")
	}
	if len(models) != 1 || models[0].Name != "llama3.1:latest" {
		t.Errorf("models = %v, want one entry llama3.1:latest", models)
	}
}

func TestVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/version" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"version":"0.5.4"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	v, err := c.Version(context.Background())
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v != "0.5.4" {
		t.Errorf("version = %q, want %q", v, "0.5.4")
	}
}

func TestChatStream_Fragments(t *testing.T) {
	var gotReq ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		json.NewDecoder(r.Body).Decode(&gotReq)

		f := w.(http.Flusher)
		for _, part := range []string{"Hel", "lo", "!"} {
			io.WriteString(w, chunkLine(part, false))
			f.Flush()
		}
		io.WriteString(w, chunkLine("", true))
	}))
	defer srv.Close()

	c := New(srv.URL)
	req := ChatRequest{
		Model:    "llama3.1:latest",
		Messages: []Message{{Role: RoleUser, Content: "greet me"}},
		Tools:    []Tool{{Type: "function", Function: ToolFunction{Name: "noop"}}},
	}

	var parts []string
	var sawDone bool
	err := c.ChatStream(context.Background(), req, func(chunk ChatChunk) error {
		if chunk.Done {
			sawDone = true
		}
		if chunk.Message.Content != "" {
			parts = append(parts, chunk.Message.Content)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ChatStream: %v", err)
	}

	if got := strings.Join(parts, ""); got != "Hello!" {
		t.Errorf("assembled = %q, want %q", got, "Hello!")
	}
	if !sawDone {
		t.Error("done chunk not observed")
	}

	if gotReq.Model != "llama3.1:latest" {
		t.Errorf("request model = %q, want %q", gotReq.Model, "llama3.1:latest")
	}
	if !gotReq.Stream {
		t.Error("request stream = false, want true")
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Content != "greet me" {
		t.Errorf("request messages = %v, want the user prompt", gotReq.Messages)
	}
	if len(gotReq.Tools) != 1 || gotReq.Tools[0].Function.Name != "noop" {
		t.Errorf("request tools = %v, want the noop schema", gotReq.Tools)
	}
}

func TestChatStream_SplitAcrossChunks(t *testing.T) {
	// Lines arrive split mid-object across HTTP chunks; assembly must
	// not depend on chunk alignment.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f := w.(http.Flusher)
		io.WriteString(w, `{"message":{"role":"assistant","con`)
		f.Flush()
		io.WriteString(w, `tent":"Hel"},"done":false}`+"\n"+`{"message":{"role":"assist`)
		f.Flush()
		io.WriteString(w, `ant","content":"lo"},"done":true}`+"\n")
	}))
	defer srv.Close()

	c := New(srv.URL)
	var parts []string
	err := c.ChatStream(context.Background(), ChatRequest{Model: "m"}, func(chunk ChatChunk) error {
		parts = append(parts, chunk.Message.Content)
		return nil
	})
	if err != nil {
		t.Fatalf("ChatStream: %v", err)
	}

	if got := strings.Join(parts, ""); got != "Hello" {
		t.Errorf("assembled = %q, want %q", got, "Hello")
	}
}

func TestChatStream_MalformedLineSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, chunkLine("Hel", false))
		io.WriteString(w, "{garbage not json}\n")
		io.WriteString(w, chunkLine("lo", true))
	}))
	defer srv.Close()

	c := NewWithLogger(srv.URL, discardLogger())
	var parts []string
	err := c.ChatStream(context.Background(), ChatRequest{Model: "m"}, func(chunk ChatChunk) error {
		parts = append(parts, chunk.Message.Content)
		return nil
	})
	if err != nil {
		t.Fatalf("ChatStream: %v", err)
	}

	if got := strings.Join(parts, ""); got != "Hello" {
		t.Errorf("assembled = %q, want %q", got, "Hello")
	}
}

func TestChatStream_ErrorChunk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, chunkLine("partial", false))
		io.WriteString(w, `{"error":"model runner has unexpectedly stopped"}`+"\n")
		io.WriteString(w, chunkLine("never seen", false))
	}))
	defer srv.Close()

	c := New(srv.URL)
	var calls int
	err := c.ChatStream(context.Background(), ChatRequest{Model: "m"}, func(chunk ChatChunk) error {
		calls++
		return nil
	})
	if !errors.Is(err, ErrProtocol) {
		t.Fatalf("error = %v, want ErrProtocol", err)
	}
	if !strings.Contains(err.Error(), "model runner has unexpectedly stopped") {
		t.Errorf("error = %q, want it to carry the server message", err.Error())
	}
	if calls != 1 {
		t.Errorf("callback ran %d times, want 1 (nothing after the error chunk)", calls)
	}
}

func TestChatStream_CallbackError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, chunkLine("Hel", false))
		io.WriteString(w, chunkLine("lo", true))
	}))
	defer srv.Close()

	stop := errors.New("stop")
	c := New(srv.URL)
	err := c.ChatStream(context.Background(), ChatRequest{Model: "m"}, func(chunk ChatChunk) error {
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("error = %v, want the callback error", err)
	}
}

func TestChatStream_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model 'nope' not found"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.ChatStream(context.Background(), ChatRequest{Model: "nope"}, func(ChatChunk) error { return nil })
	if !errors.Is(err, ErrProtocol) {
		t.Fatalf("error = %v, want ErrProtocol", err)
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error = %q, want it to mention the status", err.Error())
	}
}

func TestChatStream_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL)
	err := c.ChatStream(context.Background(), ChatRequest{Model: "m"}, func(ChatChunk) error { return nil })
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}
