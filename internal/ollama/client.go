// Package ollama is a client for the local Ollama daemon's REST API.
package ollama

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/quillhq/studio-gateway/internal/models"
)

// Client talks to an Ollama daemon. A reachability probe or listing uses
// the short timeout; pulls use a separate long-timeout client since model
// downloads can take minutes.
type Client struct {
	baseURL    string
	httpClient *http.Client
	pullClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, timeout, pullTimeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		pullClient: &http.Client{Timeout: pullTimeout},
		logger:     logger,
	}
}

// BaseURL returns the configured daemon address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type tagsResponse struct {
	Models []tagEntry `json:"models"`
}

type tagEntry struct {
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	ModifiedAt string `json:"modified_at"`
	Digest     string `json:"digest"`
}

type nameRequest struct {
	Name   string `json:"name"`
	Stream bool   `json:"stream"`
}

// CheckStatus probes the daemon's tag listing endpoint. Any transport
// failure or non-200 response means unreachable; it never returns an error.
func (c *Client) CheckStatus() bool {
	resp, err := c.httpClient.Get(c.baseURL + "/api/tags")
	if err != nil {
		c.logger.Warn("ollama server not accessible", "error", err)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

// ListModels fetches the daemon's installed models and maps them to
// descriptors with namespaced IDs and formatted display names.
func (c *Client) ListModels() ([]models.ModelInfo, error) {
	resp, err := c.httpClient.Get(c.baseURL + "/api/tags")
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read models response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list models: status %d: %s", resp.StatusCode, string(body))
	}

	var tags tagsResponse
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, fmt.Errorf("decode models response: %w", err)
	}

	infos := make([]models.ModelInfo, 0, len(tags.Models))
	for _, m := range tags.Models {
		infos = append(infos, models.ModelInfo{
			ID:          "ollama/" + m.Name,
			Name:        m.Name,
			DisplayName: FormatModelName(m.Name),
			Size:        m.Size,
			ModifiedAt:  m.ModifiedAt,
			Digest:      m.Digest,
		})
	}
	return infos, nil
}

// ShowModel fetches detailed information about a single model. A nil map
// with nil error means the daemon does not know the model.
func (c *Client) ShowModel(name string) (map[string]any, error) {
	data, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return nil, fmt.Errorf("marshal show request: %w", err)
	}

	resp, err := c.httpClient.Post(c.baseURL+"/api/show", "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("show model %s: %w", name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read show response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("model info not available", "model", name, "status", resp.StatusCode)
		return nil, nil
	}

	var info map[string]any
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("decode show response: %w", err)
	}
	return info, nil
}

// Pull downloads a model from the Ollama registry. The daemon's response
// body is included in the error so callers can log the server-provided
// failure payload.
func (c *Client) Pull(name string) error {
	data, err := json.Marshal(nameRequest{Name: name})
	if err != nil {
		return fmt.Errorf("marshal pull request: %w", err)
	}

	resp, err := c.pullClient.Post(c.baseURL+"/api/pull", "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("pull model %s: %w", name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read pull response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pull model %s: status %d: %s", name, resp.StatusCode, string(body))
	}
	return nil
}

// Delete removes a model from the daemon's local storage.
func (c *Client) Delete(name string) error {
	data, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return fmt.Errorf("marshal delete request: %w", err)
	}

	req, err := http.NewRequest(http.MethodDelete, c.baseURL+"/api/delete", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete model %s: %w", name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read delete response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("delete model %s: status %d: %s", name, resp.StatusCode, string(body))
	}
	return nil
}
