// Package store provides access to the external Qdrant vector store over
// its HTTP API.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrNotFound is returned when a point does not exist or a search matches
// nothing.
var ErrNotFound = errors.New("not found")

// Client is a thin adapter over the Qdrant HTTP API. All persistence is
// owned by Qdrant; the client holds no state beyond the connection pool.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a new Qdrant client for the given base URL,
// e.g. "http://qdrant:6333".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// do issues a JSON request and decodes the response body into out (when out
// is non-nil and the response has a body). The HTTP status code is returned
// alongside any transport error.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("calling qdrant: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	if out != nil && len(respBody) > 0 && resp.StatusCode/100 == 2 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return resp.StatusCode, fmt.Errorf("parsing response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

type collectionInfo struct {
	Result struct {
		PointsCount int `json:"points_count"`
	} `json:"result"`
}

// EnsureCollection checks that the named collection exists and creates it
// with the given vector size and cosine distance if it does not. Safe to run
// from multiple instances at once: a concurrent create losing the race is
// treated as success.
func (c *Client) EnsureCollection(ctx context.Context, name string, size int) error {
	status, err := c.do(ctx, http.MethodGet, "/collections/"+name, nil, nil)
	if err != nil {
		return fmt.Errorf("checking collection %q: %w", name, err)
	}
	if status == http.StatusOK {
		return nil
	}
	if status != http.StatusNotFound {
		return fmt.Errorf("checking collection %q: qdrant returned %d", name, status)
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     size,
			"distance": "Cosine",
		},
	}
	status, err = c.do(ctx, http.MethodPut, "/collections/"+name, body, nil)
	if err != nil {
		return fmt.Errorf("creating collection %q: %w", name, err)
	}
	// 409: another instance created it first
	if status != http.StatusOK && status != http.StatusConflict {
		return fmt.Errorf("creating collection %q: qdrant returned %d", name, status)
	}
	return nil
}

// CollectionCount returns the number of points in the named collection.
func (c *Client) CollectionCount(ctx context.Context, name string) (int, error) {
	var info collectionInfo
	status, err := c.do(ctx, http.MethodGet, "/collections/"+name, nil, &info)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("qdrant returned %d", status)
	}
	return info.Result.PointsCount, nil
}

// HealthCheck verifies the Qdrant instance is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	status, err := c.do(ctx, http.MethodGet, "/readyz", nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("qdrant returned %d", status)
	}
	return nil
}
