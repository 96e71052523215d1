package port

import (
	"context"
	"io"
)

// Fetcher retrieves a remote video asset as a byte stream.
type Fetcher interface {
	// Fetch performs an HTTP(S) GET for url and returns the response body.
	// A non-success status is returned as an error, never as a body.
	// The caller must close the returned reader.
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}
