package httpfetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stillhour/videocache/internal/domain"
)

func TestFetch_success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		w.Write([]byte("video payload"))
	}))
	defer srv.Close()

	c := NewClient(5 * time.Second)
	body, err := c.Fetch(context.Background(), srv.URL+"/clip.mp4")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "video payload" {
		t.Errorf("body = %q", data)
	}
}

func TestFetch_httpError(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"forbidden", http.StatusForbidden},
		{"server error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewClient(5 * time.Second)
			_, err := c.Fetch(context.Background(), srv.URL)
			if err == nil {
				t.Fatal("expected error for non-2xx status")
			}
			if !errors.Is(err, domain.ErrTransferFailed) {
				t.Errorf("error %v should wrap ErrTransferFailed", err)
			}
		})
	}
}

func TestFetch_unreachable(t *testing.T) {
	c := NewClient(500 * time.Millisecond)
	_, err := c.Fetch(context.Background(), "http://127.0.0.1:1/clip.mp4")
	if err == nil {
		t.Fatal("expected error for unreachable host")
	}
	if !errors.Is(err, domain.ErrTransferFailed) {
		t.Errorf("error %v should wrap ErrTransferFailed", err)
	}
}

func TestFetch_contextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(5 * time.Second)
	if _, err := c.Fetch(ctx, srv.URL); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
