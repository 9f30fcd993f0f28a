package oracle

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
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// maxResponseBytes caps how much of an oracle response body is read
const maxResponseBytes = 4 << 20

// Transport sends one prompt to the oracle and returns the first text candidate
type Transport interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// RESTTransport talks to the generateContent endpoint with one HTTP POST per prompt
type RESTTransport struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewRESTTransport creates a REST transport. The timeout applies to the whole request.
func NewRESTTransport(endpoint, apiKey string, timeout time.Duration) *RESTTransport {
	return &RESTTransport{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type restPart struct {
	Text string `json:"text"`
}

type restContent struct {
	Parts []restPart `json:"parts"`
}

type restRequest struct {
	Contents []restContent `json:"contents"`
}

type restResponse struct {
	Candidates []struct {
		Content struct {
			Parts []restPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate posts prompt and extracts candidates[0].content.parts[0].text
func (t *RESTTransport) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(restRequest{Contents: []restContent{{Parts: []restPart{{Text: prompt}}}}})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	target, err := url.Parse(t.endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	q := target.Query()
	q.Set("key", t.apiKey)
	target.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("api call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api error %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var parsed restResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no candidates in response")
	}

	text := parsed.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty candidate text")
	}
	return text, nil
}

// GenAITransport sends prompts through the Gemini Go SDK
type GenAITransport struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGenAITransport creates an SDK-backed transport
func NewGenAITransport(ctx context.Context, apiKey, model string, timeout time.Duration) (*GenAITransport, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GenAITransport{client: client, model: model, timeout: timeout}, nil
}

// Generate returns the first text part of the first candidate
func (t *GenAITransport) Generate(ctx context.Context, prompt string) (string, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	resp, err := t.client.GenerativeModel(t.model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", errors.New("empty candidate content")
	}
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok && strings.TrimSpace(string(text)) != "" {
			return string(text), nil
		}
	}
	return "", errors.New("no text part in candidate")
}

// Close releases the SDK client
func (t *GenAITransport) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
