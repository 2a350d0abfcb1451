// ABOUTME: Meal analysis client for OpenAI-compatible chat completion endpoints.
// ABOUTME: Resolves the API key per call and never retries.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	DefaultBaseURL   = "https://api.openai.com"
	DefaultModel     = "gpt-4o"
	DefaultMaxTokens = 1000
)

// KeySource returns the API key to use, or "" when none is configured.
type KeySource func(ctx context.Context) (string, error)

// StaticKey returns a KeySource that always yields key.
func StaticKey(key string) KeySource {
	return func(context.Context) (string, error) { return key, nil }
}

// FirstKey returns a KeySource that tries each source in order and yields the
// first non-empty key.
func FirstKey(sources ...KeySource) KeySource {
	return func(ctx context.Context) (string, error) {
		for _, src := range sources {
			if src == nil {
				continue
			}
			key, err := src(ctx)
			if err != nil {
				return "", err
			}
			if key != "" {
				return key, nil
			}
		}
		return "", nil
	}
}

// Options configures an Analyzer. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	Model      string
	MaxTokens  int
	HTTPClient *http.Client
	APIKey     KeySource
}

// Analyzer sends meal photos and descriptions to a vision model.
type Analyzer struct {
	baseURL   string
	model     string
	maxTokens int
	client    *http.Client
	apiKey    KeySource
}

// New creates an Analyzer.
func New(opts Options) *Analyzer {
	a := &Analyzer{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		client:    opts.HTTPClient,
		apiKey:    opts.APIKey,
	}
	if a.baseURL == "" {
		a.baseURL = DefaultBaseURL
	}
	if a.model == "" {
		a.model = DefaultModel
	}
	if a.maxTokens <= 0 {
		a.maxTokens = DefaultMaxTokens
	}
	if a.client == nil {
		a.client = &http.Client{Timeout: 60 * time.Second}
	}
	return a
}

// Request is a first analysis of a meal.
type Request struct {
	ImagePath   string
	Description string
}

// FeedbackRequest asks the model to revise a previous analysis.
type FeedbackRequest struct {
	Feedback    string
	ImagePath   string
	Description string
	Previous    *Analysis
}

// Analyze estimates the meal in req.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Analysis, error) {
	if req.ImagePath == "" && strings.TrimSpace(req.Description) == "" {
		return nil, ErrNoInput
	}
	key, err := a.resolveKey(ctx)
	if err != nil {
		return nil, err
	}

	parts, err := userParts(req.ImagePath, req.Description)
	if err != nil {
		return nil, err
	}
	return a.run(ctx, key, buildMessages(parts))
}

// AnalyzeWithFeedback re-sends the previous analysis with the user's feedback.
func (a *Analyzer) AnalyzeWithFeedback(ctx context.Context, req FeedbackRequest) (*Analysis, error) {
	if strings.TrimSpace(req.Feedback) == "" {
		return nil, ErrNoFeedback
	}
	key, err := a.resolveKey(ctx)
	if err != nil {
		return nil, err
	}

	parts, err := userParts(req.ImagePath, req.Description)
	if err != nil {
		return nil, err
	}
	msgs, err := buildFeedbackMessages(parts, req.Previous, strings.TrimSpace(req.Feedback))
	if err != nil {
		return nil, err
	}
	return a.run(ctx, key, msgs)
}

func (a *Analyzer) resolveKey(ctx context.Context) (string, error) {
	if a.apiKey == nil {
		return "", ErrMissingAPIKey
	}
	key, err := a.apiKey(ctx)
	if err != nil {
		return "", fmt.Errorf("load api key: %w", err)
	}
	if strings.TrimSpace(key) == "" {
		return "", ErrMissingAPIKey
	}
	return strings.TrimSpace(key), nil
}

func (a *Analyzer) run(ctx context.Context, key string, msgs []chatMessage) (*Analysis, error) {
	content, err := a.complete(ctx, key, msgs)
	if err != nil {
		return nil, err
	}
	result, err := ParseAnalysis(content)
	if err != nil {
		log.Warn("analysis response rejected", "err", err)
		return nil, err
	}
	return result, nil
}

// complete sends one chat completion request and returns the first choice's
// content.
func (a *Analyzer) complete(ctx context.Context, key string, msgs []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:     a.model,
		Messages:  msgs,
		MaxTokens: a.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+key)

	log.Debug("sending analysis request", "model", a.model, "messages", len(msgs))
	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBytes))}
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return result.Choices[0].Message.Content, nil
}
