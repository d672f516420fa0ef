package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Message is one turn in the provider request format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type CompletionRequest struct {
	Messages []Message `json:"messages"`
	Provider string    `json:"provider,omitempty"`
	Model    string    `json:"model,omitempty"`
}

type CompletionResponse struct {
	Response  string `json:"response"`
	Sentiment string `json:"sentiment"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
}

// Client talks to the hosted language-model endpoint. The endpoint accepts a
// message list and returns generated text plus a coarse sentiment label.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Complete(ctx context.Context, completionReq CompletionRequest) (CompletionResponse, error) {
	var empty CompletionResponse

	jsonBody, err := json.Marshal(completionReq)
	if err != nil {
		return empty, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return empty, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return empty, err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return empty, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return empty, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var completion CompletionResponse
	if err := json.Unmarshal(responseBody, &completion); err != nil {
		return empty, err
	}

	if completion.Sentiment == "" {
		completion.Sentiment = DeriveSentiment(completion.Response)
	}

	return completion, nil
}

// DefaultModelFor picks the provider's default model when none is requested.
func DefaultModelFor(provider string) string {
	if provider == "xai" {
		return "grok-4"
	}
	return "gpt-4o-mini"
}
