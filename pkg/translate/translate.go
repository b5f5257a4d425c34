// Package translate fills regions' translated text through an external
// translation service. The engine only depends on the Translator
// interface; delivery is idempotent — re-translating a region with an
// unchanged result causes no ledger churn.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/width"
)

// Translator turns source-language text into target-language text.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Identity returns its input unchanged. Useful for offline runs and tests
// where the layout, not the translation, is under inspection.
type Identity struct{}

// Translate implements Translator.
func (Identity) Translate(ctx context.Context, text string) (string, error) {
	return text, nil
}

var (
	spacedDots = regexp.MustCompile(`\.\s+\.`)
	manyDots   = regexp.MustCompile(`\.{3,}`)
)

// Normalize folds full-width punctuation to ASCII and collapses ellipsis
// runs, so the typesetter measures the glyphs that will actually render.
// Translation services are fed CJK source text and routinely echo
// full-width periods and long "......" runs back into the output.
func Normalize(s string) string {
	s = width.Narrow.String(s)
	s = strings.ReplaceAll(s, "…", "...")
	for {
		collapsed := spacedDots.ReplaceAllString(s, "..")
		if collapsed == s {
			break
		}
		s = collapsed
	}
	return manyDots.ReplaceAllString(s, "...")
}

// Client translates through an OpenAI-style chat-completions endpoint.
type Client struct {
	Endpoint   string
	APIKey     string
	Model      string
	SourceLang string
	TargetLang string
	HTTPClient *http.Client
}

// NewClient creates a translation client with sane defaults: Japanese to
// English, 60s request timeout.
func NewClient(endpoint, apiKey, model string) *Client {
	return &Client{
		Endpoint:   endpoint,
		APIKey:     apiKey,
		Model:      model,
		SourceLang: "Japanese",
		TargetLang: "English",
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Translate implements Translator. Empty input returns empty output
// without a network round trip.
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	prompt := fmt.Sprintf(
		"Translate the following %s comic dialogue to natural %s. Reply with the translation only.",
		c.SourceLang, c.TargetLang)

	body, err := json.Marshal(chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt},
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode translation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build translation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read translation response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translation service returned %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode translation response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("translation service error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("translation response has no choices")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
