// Package httpfetch retrieves remote video assets over plain HTTP(S) GET.
package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/stillhour/videocache/internal/domain"
	"github.com/stillhour/videocache/internal/port"
)

const userAgent = "stillhour-videocache/1.0"

// Client fetches remote assets with a bounded overall transfer time so a
// stalled download cannot run forever.
type Client struct {
	http *http.Client
}

// Ensure Client implements port.Fetcher
var _ port.Fetcher = (*Client)(nil)

// NewClient creates a fetcher with the given transfer timeout.
// A zero timeout disables the bound.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		http: &http.Client{Timeout: timeout},
	}
}

// Fetch performs a GET for url and returns the response body. Any
// non-success status is folded into domain.ErrTransferFailed.
func (c *Client) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransferFailed, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransferFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: unexpected status %s", domain.ErrTransferFailed, resp.Status)
	}

	return resp.Body, nil
}
