// Package llm suggests synonym lists for vote options using the Anthropic API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/f3rmion/livevote/internal/classify"
)

const (
	anthropicAPIURL = "https://api.anthropic.com/v1/messages"
	defaultModel    = "claude-sonnet-4-20250514"
)

// Client is an Anthropic API client.
type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
	model      string
}

// SynonymRequest describes the option to find chat synonyms for.
type SynonymRequest struct {
	Label    string   // Option label (e.g., "Sim")
	Language string   // Chat language hint (e.g., "Portuguese")
	Avoid    []string // Keys owned by other options
	Max      int      // Upper bound on suggestions
}

// message represents an Anthropic API message.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// request represents an Anthropic API request.
type request struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

// response represents an Anthropic API response.
type response struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient creates a new Anthropic client.
// It reads the API key from the ANTHROPIC_API_KEY environment variable.
func NewClient() (*Client, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}

	// Trim any whitespace/newlines that might have snuck in
	apiKey = strings.TrimSpace(apiKey)

	return &Client{
		apiKey: apiKey,
		apiURL: anthropicAPIURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		model: defaultModel,
	}, nil
}

// SuggestSynonyms asks the model for chat spellings of an option label and
// returns them normalized, without keys listed in Avoid.
func (c *Client) SuggestSynonyms(ctx context.Context, sr SynonymRequest) ([]string, error) {
	if sr.Max <= 0 {
		sr.Max = 20
	}

	req := request{
		Model:     c.model,
		MaxTokens: 300,
		Messages: []message{
			{Role: "user", Content: buildPrompt(sr)},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var apiResp response
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if apiResp.Error != nil {
		return nil, fmt.Errorf("API error: %s", apiResp.Error.Message)
	}

	if len(apiResp.Content) == 0 {
		return nil, fmt.Errorf("empty response from API")
	}

	return filterSuggestions(apiResp.Content[0].Text, sr), nil
}

// filterSuggestions parses the model's delimited answer.
func filterSuggestions(text string, sr SynonymRequest) []string {
	avoid := make(map[string]bool, len(sr.Avoid))
	for _, a := range classify.ParseSynonyms(strings.Join(sr.Avoid, ",")) {
		avoid[a] = true
	}

	var out []string
	for _, s := range classify.ParseSynonyms(strings.ReplaceAll(text, "\n", ",")) {
		if avoid[s] {
			continue
		}
		out = append(out, s)
		if len(out) == sr.Max {
			break
		}
	}
	return out
}

// buildPrompt creates the prompt for the LLM.
func buildPrompt(sr SynonymRequest) string {
	var sb strings.Builder

	sb.WriteString("You are helping configure a live chat vote. Viewers type short messages in a stream chat, ")
	sb.WriteString("and each message is matched against a list of synonyms for each vote option.\n\n")

	sb.WriteString(fmt.Sprintf("Option label: %s\n", sr.Label))
	if sr.Language != "" {
		sb.WriteString(fmt.Sprintf("Chat language: %s\n", sr.Language))
	}
	if len(sr.Avoid) > 0 {
		sb.WriteString(fmt.Sprintf("Do NOT include these (they belong to other options): %s\n", strings.Join(sr.Avoid, ", ")))
	}

	sb.WriteString("\nList the ways viewers commonly type this answer: abbreviations, slang, repeated letters, ")
	sb.WriteString("common misspellings and short multi-word phrases.\n")
	sb.WriteString(fmt.Sprintf("Return at most %d entries, lowercase, separated by commas. ", sr.Max))
	sb.WriteString("Output ONLY the list, nothing else.")

	return sb.String()
}
