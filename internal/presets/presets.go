// Package presets stores the named window sizes offered by the picker and the
// cycle hotkey.
package presets

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/1broseidon/winsnap/internal/platform"
)

var (
	ErrInvalid   = errors.New("preset needs a name and a positive width and height")
	ErrDuplicate = errors.New("a preset with that name already exists")
	ErrNotFound  = errors.New("preset not found")
)

// Preset is a named window size.
type Preset struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (p Preset) Valid() bool {
	return strings.TrimSpace(p.Name) != "" && p.Width > 0 && p.Height > 0
}

func (p Preset) Size() platform.Size {
	return platform.Size{Width: p.Width, Height: p.Height}
}

// Label renders the preset as "Name (WxH)".
func (p Preset) Label() string {
	return fmt.Sprintf("%s (%dx%d)", p.Name, p.Width, p.Height)
}

// Defaults returns the seeded preset list.
func Defaults() []Preset {
	return []Preset{
		{Name: "HD", Width: 1280, Height: 720},
		{Name: "Full HD", Width: 1920, Height: 1080},
		{Name: "Laptop", Width: 1366, Height: 768},
		{Name: "Classic", Width: 1024, Height: 768},
	}
}

// Store is a JSON-file backed preset list. It is safe for concurrent use.
type Store struct {
	path   string
	logger *slog.Logger

	mu      sync.Mutex
	presets []Preset
}

// Open loads the store at path. A missing file is seeded with Defaults and
// written back; an unreadable or corrupt file falls back to Defaults in
// memory and is left untouched until the next change.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("presets path is empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{path: path, logger: logger}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Path() string { return s.path }

// Reload re-reads the file. Only a failure to write the seeded defaults for
// a missing file is returned.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.presets = Defaults()
		return s.saveLocked()
	}
	if err != nil {
		s.logger.Warn("failed to read presets, using defaults", "path", s.path, "err", err)
		s.presets = Defaults()
		return nil
	}

	var stored []Preset
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logger.Warn("failed to parse presets, using defaults", "path", s.path, "err", err)
		s.presets = Defaults()
		return nil
	}

	kept := make([]Preset, 0, len(stored))
	for _, p := range stored {
		if !p.Valid() {
			s.logger.Debug("dropping invalid preset", "name", p.Name, "width", p.Width, "height", p.Height)
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		kept = Defaults()
	}
	s.presets = kept
	return nil
}

// List returns a copy of the presets in order.
func (s *Store) List() []Preset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Preset(nil), s.presets...)
}

// Find looks a preset up by name, ignoring case.
func (s *Store) Find(name string) (Preset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(name); i >= 0 {
		return s.presets[i], true
	}
	return Preset{}, false
}

func (s *Store) Add(p Preset) error {
	p.Name = strings.TrimSpace(p.Name)
	if !p.Valid() {
		return ErrInvalid
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(p.Name) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicate, p.Name)
	}
	s.presets = append(s.presets, p)
	return s.saveLocked()
}

// Remove deletes the named preset. It returns ErrNotFound when nothing
// matched.
func (s *Store) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	s.presets = append(s.presets[:i], s.presets[i+1:]...)
	return s.saveLocked()
}

// Reset replaces the list with Defaults.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presets = Defaults()
	return s.saveLocked()
}

func (s *Store) indexLocked(name string) int {
	name = strings.TrimSpace(name)
	if name == "" {
		return -1
	}
	for i, p := range s.presets {
		if strings.EqualFold(p.Name, name) {
			return i
		}
	}
	return -1
}

// saveLocked writes the list through a temp file in the same directory so a
// reader never sees a partial file.
func (s *Store) saveLocked() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create presets directory: %w", err)
	}

	data, err := json.MarshalIndent(s.presets, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode presets: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".presets-*.json")
	if err != nil {
		return fmt.Errorf("failed to write presets: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write presets: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write presets: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace presets file: %w", err)
	}
	return nil
}
