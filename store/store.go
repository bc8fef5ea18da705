// Package store persists template overrides as JSON files in a directory on
// the local device, and optionally uploads them to a remote endpoint.
//
// Storage is non-critical to document correctness: read failures and corrupt
// entries are logged at warning level and treated as "no stored
// configuration", never surfaced to the caller as errors.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/billcraft/billcraft/template"
)

// Store reads and writes template overrides under a base directory. Writes
// are last-write-wins; concurrent writers are not coordinated.
type Store struct {
	dir string
	log *logrus.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger replaces the default logger.
func WithLogger(log *logrus.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// New creates a store rooted at dir. The directory is created on first save.
func New(dir string, opts ...Option) *Store {
	s := &Store{dir: dir, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save serializes the override under key. The key is reduced to a safe file
// name; an existing entry is replaced.
func (s *Store) Save(key string, ov *template.Override) error {
	if ov == nil {
		return fmt.Errorf("store: nil override for key %q", key)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("store: creating %s: %w", s.dir, err)
	}
	data, err := json.MarshalIndent(ov, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encoding %q: %w", key, err)
	}
	if err := os.WriteFile(s.path(key), data, 0o644); err != nil {
		return fmt.Errorf("store: writing %q: %w", key, err)
	}
	return nil
}

// Load returns the override stored under key, or nil when the entry is
// absent or unreadable. Corrupt entries are logged and treated as absent.
func (s *Store) Load(key string) *template.Override {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.WithError(err).Warnf("store: reading config %q", key)
		}
		return nil
	}
	var ov template.Override
	if err := json.Unmarshal(data, &ov); err != nil {
		s.log.WithError(err).Warnf("store: corrupt config %q, ignoring", key)
		return nil
	}
	return &ov
}

// Delete removes the entry for key if present.
func (s *Store) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("store: deleting %q: %w", key, err)
	}
	return nil
}

// Keys lists the stored configuration keys.
func (s *Store) Keys() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(e.Name(), ".json"))
	}
	return keys
}

func (s *Store) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
	if safe == "" {
		safe = "default"
	}
	return filepath.Join(s.dir, safe+".json")
}
