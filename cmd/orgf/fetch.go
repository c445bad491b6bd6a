package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxFetchBytes bounds the body read from an http(s) input.
const maxFetchBytes = 32 << 20

// fetchURL reads the body of a successful GET on rawURL. A nil client uses
// http.DefaultClient.
func fetchURL(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("fetch: URL is required")
	}
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: build request: %w", err)
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return nil, fmt.Errorf("fetch: unsupported scheme %q", req.URL.Scheme)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: status %s", rawURL, resp.Status)
	}
	src, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes+1))
	if err != nil {
		return nil, fmt.Errorf("fetch: read body: %w", err)
	}
	if len(src) > maxFetchBytes {
		return nil, fmt.Errorf("fetch %s: body exceeds %d bytes", rawURL, maxFetchBytes)
	}
	return src, nil
}
