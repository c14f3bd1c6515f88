// Package sdk is a thin JSON client for the hyserve daemon API.
package sdk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// do issues one JSON round trip. Any 2xx answer is a success; target is
// decoded from the response body when non-nil and a body exists.
func (c *Client) do(method, path string, body, target interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp)
	}
	if target == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(target)
}

// apiError prefers the daemon's plain-text error body over the bare status.
func apiError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)
	if msg := strings.TrimSpace(string(data)); msg != "" {
		return fmt.Errorf("error: %s", msg)
	}
	return fmt.Errorf("API error (%d)", resp.StatusCode)
}

func (c *Client) get(path string, target interface{}) error {
	return c.do(http.MethodGet, path, nil, target)
}

func (c *Client) post(path string, body, target interface{}) error {
	return c.do(http.MethodPost, path, body, target)
}

func (c *Client) put(path string, body interface{}) error {
	return c.do(http.MethodPut, path, body, nil)
}

func (c *Client) delete(path string) error {
	return c.do(http.MethodDelete, path, nil, nil)
}

// GetWebSocketURL rewrites the base URL for a websocket endpoint.
func (c *Client) GetWebSocketURL(path string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = path
	return u.String(), nil
}
