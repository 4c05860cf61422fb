// Package openrouter is a chat-completions client for the OpenRouter API.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"
)

const (
	// DefaultBaseURL is the OpenRouter chat completions endpoint root.
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	// DefaultModel is used when OPENROUTER_MODEL is not set.
	DefaultModel = "openai/gpt-4o-mini"
	// DefaultTimeout bounds a single completion call.
	DefaultTimeout = 60 * time.Second

	defaultSystemPrompt = "You are a helpful assistant."

	// Sentinels returned in place of an answer when configuration is missing.
	missingKeySentinel   = "ΛΕΙΠΕΙ OPENROUTER_API_KEY στο .env"
	missingModelSentinel = "ΛΕΙΠΕΙ OPENROUTER_MODEL στο .env"
)

// Config configures the OpenRouter client. The API key and model are read
// from the environment on every call, so a key added to .env mid-session
// takes effect without a restart.
type Config struct {
	BaseURL      string
	APIKeyEnv    string
	ModelEnv     string
	DefaultModel string
	SystemPrompt string
	Timeout      time.Duration
}

// Client calls the OpenRouter chat completions API.
type Client struct {
	cfg    Config
	client *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENROUTER_API_KEY"
	}
	if cfg.ModelEnv == "" {
		cfg.ModelEnv = "OPENROUTER_MODEL"
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = DefaultModel
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = defaultSystemPrompt
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one chat completion request. Absent credentials yield a
// sentinel string, not an error; a failed or non-success upstream call is
// returned as an error and aborts the turn.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	apiKey := os.Getenv(c.cfg.APIKeyEnv)
	if apiKey == "" {
		return missingKeySentinel, nil
	}
	model := os.Getenv(c.cfg.ModelEnv)
	if model == "" {
		model = c.cfg.DefaultModel
	}
	if model == "" {
		return missingModelSentinel, nil
	}

	body := chatRequest{
		Model: model,
		Messages: []message{
			{Role: "system", Content: c.cfg.SystemPrompt},
			{Role: "user", Content: prompt},
		},
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openrouter request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("openrouter returned %s", resp.Status)
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode openrouter response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("openrouter returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}
