package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"repograph/internal/infographic"
)

// DefaultTimeout bounds a single generation call. Generation walks a whole
// repository through an LLM, so the budget is generous.
const DefaultTimeout = 5 * time.Minute

// maxResponseBytes caps how much of a generator response is read.
const maxResponseBytes = 32 << 20

// HTTPClient calls a remote generation backend over HTTP and classifies every
// failure into the fixed taxonomy before it reaches the caller.
type HTTPClient struct {
	http    *http.Client
	baseURL string
	model   string
}

// NewHTTPClient creates a client for the generator at baseURL (the full
// endpoint URL, e.g. "https://gen.example.com/api/generate"). An empty model
// leaves model selection to the backend.
func NewHTTPClient(baseURL, model string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimSpace(baseURL),
		model:   strings.TrimSpace(model),
	}
}

type generateRequest struct {
	RepoURL string `json:"repo_url"`
	Model   string `json:"model,omitempty"`
}

// Generate validates the locator, posts the request, and decodes the body.
// A 2xx response with an undecodable body is still a failure.
func (c *HTTPClient) Generate(ctx context.Context, repoLocator string) (*infographic.Document, error) {
	if err := ValidateLocator(repoLocator); err != nil {
		return nil, err
	}
	if c == nil || c.baseURL == "" {
		return nil, transportFailure(fmt.Errorf("generator URL is not configured"))
	}

	body, err := json.Marshal(generateRequest{RepoURL: strings.TrimSpace(repoLocator), Model: c.model})
	if err != nil {
		return nil, transportFailure(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, transportFailure(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportFailure(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, transportFailure(err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return DecodeResponse(raw)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, rateLimited()
	case resp.StatusCode == http.StatusBadGateway, resp.StatusCode == http.StatusServiceUnavailable:
		return nil, serviceUnavailable()
	default:
		return nil, serverError(errorMessageFromBody(raw, resp.StatusCode))
	}
}

// DecodeResponse accepts either a direct document object or the
// {"success","data","error"} wrapper, in that order of preference.
func DecodeResponse(raw []byte) (*infographic.Document, error) {
	var probe struct {
		Root    json.RawMessage `json:"root"`
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, invalidResponse()
	}

	if len(probe.Root) > 0 && string(probe.Root) != "null" {
		doc, err := infographic.Decode(raw)
		if err != nil {
			return nil, decodeFailure(err)
		}
		return doc, nil
	}

	failed := probe.Success != nil && !*probe.Success
	if !failed && len(probe.Data) > 0 && string(probe.Data) != "null" {
		doc, err := infographic.Decode(probe.Data)
		if err != nil {
			return nil, decodeFailure(err)
		}
		return doc, nil
	}
	if failed || probe.Error != "" || probe.Success != nil {
		msg := strings.TrimSpace(probe.Error)
		if msg == "" {
			msg = "generation failed"
		}
		return nil, serverError(msg)
	}
	return nil, invalidResponse()
}

// errorMessageFromBody extracts {"error":{"message":...}} from a non-2xx body,
// falling back to "HTTP <code>" when the body is unusable.
func errorMessageFromBody(raw []byte, status int) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if msg := strings.TrimSpace(envelope.Error.Message); msg != "" {
			return msg
		}
	}
	// Some backends use the flat {"error": "..."} shape.
	var flat struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &flat); err == nil {
		if msg := strings.TrimSpace(flat.Error); msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("HTTP %d", status)
}
