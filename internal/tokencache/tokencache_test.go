package tokencache_test

import (
	"path/filepath"
	"testing"

	"github.com/sat-ai-platform/client/internal/tokencache"
)

func TestSaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "access_token")
	c := tokencache.New(path)

	// Nothing cached yet.
	token, err := c.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if token != "" {
		t.Errorf("expected empty token, got %q", token)
	}

	if err := c.Save("tok-123"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	token, err = c.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if token != "tok-123" {
		t.Errorf("token = %q", token)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	token, _ = c.Load()
	if token != "" {
		t.Errorf("expected cleared token, got %q", token)
	}

	// Clearing twice is fine.
	if err := c.Clear(); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}
