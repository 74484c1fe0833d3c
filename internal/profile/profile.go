// Package profile persists deck page layouts as JSON documents under the
// user config directory.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/deckhandapp/deckhand/internal/files"
)

// KeyConfig describes one key of a profile page.
type KeyConfig struct {
	Col    uint8  `json:"col"`
	Row    uint8  `json:"row"`
	Label  string `json:"label,omitempty"`
	Color  string `json:"color,omitempty"`
	Action string `json:"action,omitempty"`
}

// Profile is one named page layout for a deck.
type Profile struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Keys []KeyConfig `json:"keys"`
}

// Store reads and writes profiles in a single directory, one JSON file
// per profile, written atomically so a crash never leaves a truncated
// layout behind.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("profile: empty store directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("profile: create store directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// DefaultDir returns the per-user profile directory.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("profile: resolve config dir: %w", err)
	}
	return filepath.Join(base, "deckhand", "profiles"), nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// List returns the profile names present in the store, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("profile: read store directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Load reads the named profile.
func (s *Store) Load(name string) (*Profile, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return nil, fmt.Errorf("profile: read %q: %w", name, err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("profile: parse %q: %w", name, err)
	}
	if p.Name == "" {
		p.Name = name
	}
	return &p, nil
}

// Save writes p under its name, assigning an id on first save.
func (s *Store) Save(p *Profile) error {
	if err := validName(p.Name); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("profile: encode %q: %w", p.Name, err)
	}
	if err := files.AtomicWrite(s.path(p.Name), data, 0o600); err != nil {
		return fmt.Errorf("profile: write %q: %w", p.Name, err)
	}
	return nil
}

// Export writes the named profile to dest for sharing. When dest
// already exists a collision-free variant is chosen instead of
// overwriting. It returns the path actually written.
func (s *Store) Export(name, dest string) (string, error) {
	p, err := s.Load(name)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("profile: encode %q: %w", name, err)
	}
	path, _, err := files.SafePath(dest)
	if err != nil {
		return "", fmt.Errorf("profile: resolve export path: %w", err)
	}
	if err := files.AtomicWrite(path, data, 0o644); err != nil {
		return "", fmt.Errorf("profile: export %q: %w", name, err)
	}
	return path, nil
}

// Delete removes the named profile. Deleting a missing profile is not an
// error.
func (s *Store) Delete(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := os.Remove(s.path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("profile: delete %q: %w", name, err)
	}
	return nil
}

func validName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("profile: empty name")
	}
	if strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return fmt.Errorf("profile: invalid name %q", name)
	}
	return nil
}
