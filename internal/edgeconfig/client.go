// Package edgeconfig is a read client for the remote configuration store.
package edgeconfig

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client fetches configuration values over HTTP. Keys are looked up in a
// single batched call.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Items fetches the named keys in one request. Keys absent from the store
// are absent from the returned map.
func (c *Client) Items(keys ...string) (map[string]any, error) {
	q := url.Values{}
	for _, k := range keys {
		q.Add("key", k)
	}

	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/items?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build items request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch config items: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read config response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch config items: status %d: %s", resp.StatusCode, string(body))
	}

	var items map[string]any
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode config response: %w", err)
	}
	return items, nil
}
