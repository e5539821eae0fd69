package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPClient speaks the versioned-document protocol over HTTP: ETags are the
// version tokens, conditional PUTs carry If-Match, and a 412 is a version
// conflict. Reads may be pointed at a replica/CDN base URL; writes always hit
// the authoritative base.
type HTTPClient struct {
	base     string // authoritative endpoint
	readBase string // optional read-optimized endpoint; falls back to base
	token    string
	client   *http.Client
}

// NewHTTPClient builds a client for the document endpoint at base. readBase
// and token may be empty.
func NewHTTPClient(base, readBase, token string) *HTTPClient {
	if readBase == "" {
		readBase = base
	}
	return &HTTPClient{
		base:     strings.TrimRight(base, "/"),
		readBase: strings.TrimRight(readBase, "/"),
		token:    token,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) Get(ctx context.Context, key string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.readBase+"/"+key+".json", nil)
	if err != nil {
		return nil, "", err
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("store: get %s: %w", key, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, "", ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, "", fmt.Errorf("store: get %s: HTTP %d", key, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("store: get %s: read body: %w", key, err)
	}
	return data, resp.Header.Get("ETag"), nil
}

func (c *HTTPClient) Put(ctx context.Context, key string, data []byte, version string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.base+"/"+key+".json", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if version == "" {
		req.Header.Set("If-None-Match", "*")
	} else {
		req.Header.Set("If-Match", version)
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("store: put %s: %w", key, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return resp.Header.Get("ETag"), nil
	case http.StatusPreconditionFailed:
		return "", ErrVersionConflict
	default:
		return "", fmt.Errorf("store: put %s: HTTP %d", key, resp.StatusCode)
	}
}

func (c *HTTPClient) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
