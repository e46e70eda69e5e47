// Package tracker provides a minimal client for a shuttle tracker capture
// server: list recorded rallies, download their trajectories.
package tracker

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pable/go-shuttle-metrics/internal/model"
	"github.com/pable/go-shuttle-metrics/internal/parser"
)

// Client talks to one tracker instance.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient returns a tracker client for the given base URL. apiKey may be
// empty for unauthenticated instances.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// RallyItem is one entry from /rallies.
type RallyItem struct {
	ID         string `json:"id"`
	RecordedAt int64  `json:"recorded_at"`
	Label      string `json:"label"`
	Samples    int    `json:"samples"`
}

// get performs a GET request against the tracker and JSON-decodes the
// response body into out.
func (c *Client) get(path string, out interface{}) error {
	body, err := c.fetch(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("GET %s: decode response: %w", path, err)
	}
	return nil
}

func (c *Client) fetch(path string) ([]byte, error) {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, fmt.Errorf("GET %s: HTTP %d: %s", path, resp.StatusCode, snippet)
	}
	return body, nil
}

// ListRallies returns up to limit recent rallies, newest first.
func (c *Client) ListRallies(limit int) ([]RallyItem, error) {
	var resp struct {
		Items []RallyItem `json:"items"`
	}
	if err := c.get(fmt.Sprintf("/rallies?limit=%d", limit), &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// DownloadRally fetches one rally's trajectory and parses it. The rally hash
// is derived from the payload bytes, so downloading the same rally twice
// yields the same hash.
func (c *Client) DownloadRally(item RallyItem) (*model.RawRally, error) {
	body, err := c.fetch("/rallies/" + item.ID + "/trajectory")
	if err != nil {
		return nil, err
	}
	rally, err := parser.Parse(body, item.ID+".json")
	if err != nil {
		return nil, err
	}
	if rally.Label == "" {
		rally.Label = item.Label
	}
	return rally, nil
}
