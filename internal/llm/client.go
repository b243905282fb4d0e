package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/VarunSharma3520/AskForm/internal/logger"
)

// AskPath is the endpoint path appended to the base URL.
const AskPath = "/api/ask"

// Request is the JSON body sent to the ask endpoint.
// TaskID and SubtaskID associate the prompt with existing tasks and are omitted when unset.
type Request struct {
	Prompt    string `json:"prompt"`
	TaskID    *int64 `json:"taskId,omitempty"`
	SubtaskID *int64 `json:"subtaskId,omitempty"`

	// ID is sent as the X-Request-ID header, not in the body.
	ID string `json:"-"`
}

type askResponse struct {
	Prompt   string `json:"prompt"`
	Response string `json:"response"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// RequestError is returned when the service answers with a non-2xx status.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string { return e.Message }

// Client posts prompts to <base>/api/ask.
// It makes exactly one attempt per call; there is no retry and no client-side timeout.
type Client struct {
	mu      sync.RWMutex
	baseURL string

	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a client for the service at baseURL.
// A nil httpClient uses a plain http.Client without a timeout.
func NewClient(baseURL string, httpClient *http.Client, log *logger.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    normalizeBaseURL(baseURL),
		httpClient: httpClient,
		logger:     log,
	}
}

func normalizeBaseURL(u string) string {
	return strings.TrimSuffix(strings.TrimSpace(u), "/")
}

// BaseURL returns the current base URL.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL retargets subsequent calls. Calls already in flight are unaffected.
func (c *Client) SetBaseURL(u string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = normalizeBaseURL(u)
}

// Ask sends one prompt and returns the reply text.
//
// Failures come back as one of:
//   - *RequestError for a non-2xx answer, carrying the body's message or a status fallback
//   - the transport's own error, with the *url.Error wrapper removed
//   - a decode error when a 2xx body is a malformed JSON object
func (c *Client) Ask(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	endpoint := c.BaseURL() + AskPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if req.ID != "" {
		httpReq.Header.Set("X-Request-ID", req.ID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		err = unwrapTransport(err)
		c.logger.Error("ask request failed", err, map[string]interface{}{
			"request_id": req.ID,
			"endpoint":   endpoint,
		})
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Info("ask request settled", map[string]interface{}{
		"request_id": req.ID,
		"status":     resp.StatusCode,
		"elapsed_ms": time.Since(start).Milliseconds(),
		"body_bytes": len(data),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &RequestError{
			Status:  resp.StatusCode,
			Message: failureMessage(resp.StatusCode, data),
		}
	}

	return parseReply(data)
}

// unwrapTransport strips the *url.Error wrapper so the message is the transport's own.
func unwrapTransport(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		return uerr.Err
	}
	return err
}

// parseReply extracts the reply text from a success body.
// A JSON object yields its "response" field (empty if absent); a JSON string
// or plain text body is the reply itself.
func parseReply(body []byte) (string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "", nil
	}

	switch trimmed[0] {
	case '{':
		var out askResponse
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return "", fmt.Errorf("failed to decode response: %w", err)
		}
		return out.Response, nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s, nil
		}
	}

	return string(trimmed), nil
}

// failureMessage picks the human-readable message for a non-2xx answer.
func failureMessage(status int, body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 {
		switch trimmed[0] {
		case '{':
			var out errorResponse
			if err := json.Unmarshal(trimmed, &out); err == nil && strings.TrimSpace(out.Message) != "" {
				return out.Message
			}
		case '"':
			var s string
			if err := json.Unmarshal(trimmed, &s); err == nil && strings.TrimSpace(s) != "" {
				return s
			}
		case '[', '<':
			// arrays and HTML error pages carry nothing worth showing
		default:
			return string(trimmed)
		}
	}
	return fmt.Sprintf("HTTP error! Status: %d", status)
}
