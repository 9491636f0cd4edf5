// Package tokencache persists the one piece of state that survives a
// restart: the opaque bearer token.
package tokencache

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Cache stores the bearer token at a well-known path.
type Cache struct {
	path string
}

func New(path string) *Cache {
	return &Cache{path: path}
}

// Save writes the token, creating parent directories as needed.
// The file is user-readable only.
func (c *Cache) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.path, []byte(token), 0o600)
}

// Load returns the cached token, or "" when none is cached.
func (c *Cache) Load() (string, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Clear removes the cached token (logout). Clearing an absent token
// is not an error.
func (c *Cache) Clear() error {
	err := os.Remove(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
