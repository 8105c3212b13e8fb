package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// sentinel errors callers can match with errors.Is
var (
	ErrInvalidKey = errors.New("ai: provider rejected the API key")
	ErrBilling    = errors.New("ai: provider account has a billing problem")
	ErrQuota      = errors.New("ai: provider rate limit or quota exceeded")
	ErrNoChoices  = errors.New("ai: provider returned no choices")
)

const defaultRequestTimeout = 30 * time.Second

// ProviderConfig identifies one OpenAI-compatible chat completion
// endpoint
type ProviderConfig struct {
	Name     string `json:"name" yaml:"name"`
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	Model    string `json:"model" yaml:"model"`
	APIKey   string `json:"-" yaml:"apiKey"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// chat posts a completion request to the provider and returns the first
// choice's content
func chat(ctx context.Context, client *http.Client, provider ProviderConfig, temperature float64, messages []chatMessage) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       provider.Model,
		Messages:    messages,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, provider.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	if provider.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+provider.APIKey)
	}

	res, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: request to %s failed: %w", provider.Name, err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", err
	}

	if err := statusError(res.StatusCode); err != nil {
		return "", fmt.Errorf("%w (provider %s, status %d)", err, provider.Name, res.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("ai: provider %s returned invalid JSON: %w", provider.Name, err)
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("ai: provider %s error: %s", provider.Name, parsed.Error.Message)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w (provider %s)", ErrNoChoices, provider.Name)
	}

	return parsed.Choices[0].Message.Content, nil
}

// statusError maps an HTTP status to a sentinel error, nil for success
func statusError(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized:
		return ErrInvalidKey
	case code == http.StatusPaymentRequired, code == http.StatusForbidden:
		return ErrBilling
	case code == http.StatusTooManyRequests:
		return ErrQuota
	}

	return fmt.Errorf("ai: unexpected status %d", code)
}
