package filesystem

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteEntry(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "video_cache"))

	path, written, err := m.WriteEntry("abc_clip.mp4", strings.NewReader("fake video bytes"))
	if err != nil {
		t.Fatalf("WriteEntry failed: %v", err)
	}
	if written != int64(len("fake video bytes")) {
		t.Errorf("written = %d, want %d", written, len("fake video bytes"))
	}
	if path != m.EntryPath("abc_clip.mp4") {
		t.Errorf("path = %q, want %q", path, m.EntryPath("abc_clip.mp4"))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading entry back: %v", err)
	}
	if string(data) != "fake video bytes" {
		t.Errorf("content = %q", data)
	}

	// No temp file may survive a completed write.
	if _, err := os.Stat(path + tempSuffix); !os.IsNotExist(err) {
		t.Error("temp file left behind after successful write")
	}
}

func TestEntrySize(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "video_cache"))

	if _, err := m.EntrySize("missing"); err == nil {
		t.Error("EntrySize should fail for a missing entry")
	}

	if _, _, err := m.WriteEntry("k", strings.NewReader("12345")); err != nil {
		t.Fatal(err)
	}
	size, err := m.EntrySize("k")
	if err != nil {
		t.Fatalf("EntrySize failed: %v", err)
	}
	if size != 5 {
		t.Errorf("size = %d, want 5", size)
	}
}

func TestDeleteEntry_idempotent(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "video_cache"))

	if _, _, err := m.WriteEntry("k", strings.NewReader("x")); err != nil {
		t.Fatal(err)
	}
	if err := m.DeleteEntry("k"); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	if err := m.DeleteEntry("k"); err != nil {
		t.Fatalf("second delete on absent entry failed: %v", err)
	}
}

func TestListEntries_skipsTempFiles(t *testing.T) {
	root := filepath.Join(t.TempDir(), "video_cache")
	m := NewManager(root)
	if err := m.EnsureRoot(); err != nil {
		t.Fatal(err)
	}

	if _, _, err := m.WriteEntry("done", strings.NewReader("data")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "partial"+tempSuffix), []byte("half"), 0644); err != nil {
		t.Fatal(err)
	}

	entries, err := m.ListEntries()
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Key != "done" {
		t.Errorf("key = %q, want %q", entries[0].Key, "done")
	}
	if entries[0].Size != 4 {
		t.Errorf("size = %d, want 4", entries[0].Size)
	}
}

func TestTotalSize(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "video_cache"))

	// Missing root counts as empty, not an error.
	size, err := m.TotalSize()
	if err != nil {
		t.Fatalf("TotalSize on missing root: %v", err)
	}
	if size != 0 {
		t.Errorf("size = %d, want 0", size)
	}

	if _, _, err := m.WriteEntry("a", strings.NewReader("123")); err != nil {
		t.Fatal(err)
	}
	if _, _, err := m.WriteEntry("b", strings.NewReader("4567")); err != nil {
		t.Fatal(err)
	}

	size, err = m.TotalSize()
	if err != nil {
		t.Fatalf("TotalSize failed: %v", err)
	}
	if size != 7 {
		t.Errorf("size = %d, want 7", size)
	}
}

func TestReset(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "video_cache"))

	if _, _, err := m.WriteEntry("k", strings.NewReader("x")); err != nil {
		t.Fatal(err)
	}
	if err := m.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	if _, err := os.Stat(m.RootDir()); err != nil {
		t.Errorf("root should exist after reset: %v", err)
	}
	entries, err := m.ListEntries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries after reset, want 0", len(entries))
	}
}

func TestCleanOldTempFiles(t *testing.T) {
	root := filepath.Join(t.TempDir(), "video_cache")
	m := NewManager(root)
	if err := m.EnsureRoot(); err != nil {
		t.Fatal(err)
	}

	oldTemp := filepath.Join(root, "old"+tempSuffix)
	freshTemp := filepath.Join(root, "fresh"+tempSuffix)
	for _, p := range []string{oldTemp, freshTemp} {
		if err := os.WriteFile(p, []byte("half"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	stale := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(oldTemp, stale, stale); err != nil {
		t.Fatal(err)
	}

	count, err := m.CleanOldTempFiles(24 * time.Hour)
	if err != nil {
		t.Fatalf("CleanOldTempFiles failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if _, err := os.Stat(oldTemp); !os.IsNotExist(err) {
		t.Error("stale temp file should be gone")
	}
	if _, err := os.Stat(freshTemp); err != nil {
		t.Error("fresh temp file should survive")
	}
}
