package cachekey

import (
	"strings"
	"testing"
)

func TestDerive_deterministic(t *testing.T) {
	uri := "https://cdn.example/clips/morning-prayer.mp4"
	first := Derive(uri)
	for i := 0; i < 10; i++ {
		if got := Derive(uri); got != first {
			t.Fatalf("Derive not deterministic: %q vs %q", got, first)
		}
	}
}

func TestDerive_queryInsensitive(t *testing.T) {
	base := "https://cdn.example/clip.mp4"
	tests := []struct {
		name string
		uri  string
	}{
		{"no query", base},
		{"signed token a", base + "?token=abc"},
		{"signed token b", base + "?token=xyz"},
		{"multiple params", base + "?token=abc&expires=12345"},
		{"empty query", base + "?"},
	}

	want := Derive(base)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Derive(tt.uri); got != want {
				t.Errorf("Derive(%q) = %q, want %q", tt.uri, got, want)
			}
		})
	}
}

func TestDerive_distinctPaths(t *testing.T) {
	a := Derive("https://cdn.example/a/clip.mp4")
	b := Derive("https://cdn.example/b/clip.mp4")
	if a == b {
		t.Errorf("different paths should derive different keys, both %q", a)
	}
}

func TestDerive_filesystemSafe(t *testing.T) {
	tests := []struct {
		name string
		uri  string
	}{
		{"plain", "https://cdn.example/clip.mp4"},
		{"spaces and unicode", "https://cdn.example/mörning präyer clip.mp4"},
		{"percent encoding", "https://cdn.example/clip%20final.mp4"},
		{"trailing slash", "https://cdn.example/videos/"},
		{"host only", "https://cdn.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := Derive(tt.uri)
			if key == "" {
				t.Fatal("empty key")
			}
			for _, r := range key {
				safe := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
					(r >= '0' && r <= '9') || r == '.' || r == '_' || r == '-'
				if !safe {
					t.Errorf("key %q contains unsafe character %q", key, r)
				}
			}
			if strings.ContainsAny(key, "/\\") {
				t.Errorf("key %q contains path separator", key)
			}
		})
	}
}

func TestDerive_suffix(t *testing.T) {
	key := Derive("https://cdn.example/evening-scripture.mp4?sig=deadbeef")
	if !strings.HasSuffix(key, "_evening-scripture.mp4") {
		t.Errorf("key %q should keep the sanitized filename suffix", key)
	}
}

func TestDerive_defaultSuffix(t *testing.T) {
	key := Derive("https://cdn.example/videos/?list=1")
	if !strings.HasSuffix(key, "_video") {
		t.Errorf("key %q should fall back to the default suffix", key)
	}
}

func TestDerive_suffixTruncated(t *testing.T) {
	long := strings.Repeat("a", 200) + ".mp4"
	key := Derive("https://cdn.example/" + long)

	i := strings.IndexByte(key, '_')
	if i < 0 {
		t.Fatalf("key %q has no separator", key)
	}
	if got := len(key) - i - 1; got > 50 {
		t.Errorf("suffix length = %d, want <= 50", got)
	}
}
