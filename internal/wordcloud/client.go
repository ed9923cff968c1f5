// Package wordcloud talks to the chat aggregation service that publishes
// wordcloud snapshots of recent chat.
package wordcloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/f3rmion/livevote/internal/classify"
)

const (
	// DefaultBaseURL is used when no domain is configured.
	DefaultBaseURL = "http://localhost:3900"

	defaultTimeout = 5 * time.Second
	maxBodyBytes   = 8 << 20
)

// ErrMalformed is returned when the service answers with a body that is not
// a wordcloud snapshot.
var ErrMalformed = errors.New("malformed wordcloud response")

// Client fetches snapshots from the aggregation service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// snapshot is the body of GET /wordcloud.
type snapshot struct {
	Wordcloud *string `json:"wordcloud"`
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchRaw returns the raw comma-separated wordcloud string.
func (c *Client) FetchRaw(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/wordcloud", nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching wordcloud: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return "", fmt.Errorf("fetching wordcloud: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if snap.Wordcloud == nil {
		return "", fmt.Errorf("%w: missing wordcloud field", ErrMalformed)
	}

	return *snap.Wordcloud, nil
}

// Fetch returns the current snapshot split into trimmed, non-empty units.
func (c *Client) Fetch(ctx context.Context) ([]string, error) {
	raw, err := c.FetchRaw(ctx)
	if err != nil {
		return nil, err
	}
	return classify.SplitCorpus(raw), nil
}

// Clear asks the service to purge history matching words. Callers treat
// failures as non-fatal.
func (c *Client) Clear(ctx context.Context, words []string) error {
	u := c.baseURL + "/clear-chat?words=" + url.QueryEscape(strings.Join(words, ","))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("clearing chat: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode >= 300 {
		return fmt.Errorf("clearing chat: unexpected status %s", resp.Status)
	}
	return nil
}
