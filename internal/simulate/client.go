package simulate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/kaspa-ecosystem/discovery/internal/domain/model"
)

// Outcome of a single submission.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeRecorded
	OutcomeDuplicate
)

// Client talks to a discovery service over HTTP.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a client with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Health returns nil when GET /healthz answers 200.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: healthz returned %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

// Trending fetches GET /trending?limit=n.
func (c *Client) Trending(ctx context.Context, n int) (model.Ranking, error) {
	return c.ranking(ctx, "/trending", n)
}

// Recommendations fetches GET /recommendations?limit=n.
func (c *Client) Recommendations(ctx context.Context, n int) (model.Ranking, error) {
	return c.ranking(ctx, "/recommendations", n)
}

func (c *Client) ranking(ctx context.Context, path string, n int) (model.Ranking, error) {
	var out model.Ranking
	resp, err := c.do(ctx, http.MethodGet, path+"?limit="+strconv.Itoa(n), nil)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, path, resp.StatusCode)
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}

// Submit posts one interaction. 202 means recorded, 200 means the event id
// was already seen.
func (c *Client) Submit(ctx context.Context, in Interaction) Outcome {
	body, err := json.Marshal(in)
	if err != nil {
		return OutcomeFailed
	}
	resp, err := c.do(ctx, http.MethodPost, "/interactions", body)
	if err != nil {
		return OutcomeFailed
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	switch resp.StatusCode {
	case http.StatusAccepted:
		return OutcomeRecorded
	case http.StatusOK:
		return OutcomeDuplicate
	default:
		return OutcomeFailed
	}
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}
