package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	listTimeout = 10 * time.Second

	// Streamed lines are usually small, but a reply delivered as a
	// single fragment can be arbitrarily long.
	maxLineSize = 1 << 20
)

// Client communicates with an Ollama server over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Client targeting the given Ollama base URL.
func New(baseURL string) *Client {
	return NewWithLogger(baseURL, slog.Default())
}

// NewWithLogger creates a Client that reports recoverable stream
// problems to the given logger.
func NewWithLogger(baseURL string, log *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// No overall timeout: chat streams stay open for as long as
		// generation takes. Cancellation comes from the request context.
		httpClient: &http.Client{Timeout: 0},
		log:        log,
	}
}

// listResponse mirrors the JSON returned by GET /api/tags and GET /api/ps.
type listResponse struct {
	Models []Model `json:"models"`
}

// ListModels returns the models installed on the server.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	return c.list(ctx, "/api/tags")
}

// ListRunning returns the models currently resident in server memory.
func (c *Client) ListRunning(ctx context.Context) ([]Model, error) {
	return c.list(ctx, "/api/ps")
}

func (c *Client) list(ctx context.Context, path string) ([]Model, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w: %w", path, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %w: unexpected status %d", path, ErrProtocol, resp.StatusCode)
	}

	var list listResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w: %w", path, ErrProtocol, err)
	}
	return list.Models, nil
}

// versionResponse mirrors the JSON returned by GET /api/version.
type versionResponse struct {
	Version string `json:"version"`
}

// Version returns the server's reported version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/version", nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("requesting version: %w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("version: %w: unexpected status %d", ErrProtocol, resp.StatusCode)
	}

	var v versionResponse
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return "", fmt.Errorf("decoding version response: %w: %w", ErrProtocol, err)
	}
	return v.Version, nil
}

// ChatStream sends a chat request and consumes the streamed NDJSON
// reply. Each decoded chunk is handed to fn in arrival order; a non-nil
// error from fn aborts the stream. Reading is line-oriented, so chunk
// boundaries in the HTTP body carry no meaning. A line that fails to
// decode is logged and skipped; a chunk carrying a server error aborts
// the stream.
func (c *Client) ChatStream(ctx context.Context, req ChatRequest, fn func(ChatChunk) error) error {
	req.Stream = true
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshaling chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("chat request: %w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("chat: %w: status %d: %s", ErrProtocol, resp.StatusCode, bytes.TrimSpace(msg))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var chunk ChatChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			c.log.Warn("skipping malformed stream line", "error", err, "line", truncate(string(line), 200))
			continue
		}
		if chunk.Error != "" {
			return fmt.Errorf("chat: %w: server reported: %s", ErrProtocol, chunk.Error)
		}
		if err := fn(chunk); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading chat stream: %w: %w", ErrUnavailable, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
