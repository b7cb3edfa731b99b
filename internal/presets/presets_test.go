package presets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "winsnap", "presets.json")
	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return s, path
}

func names(ps []Preset) string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return strings.Join(out, ",")
}

func TestOpen_MissingFileSeedsAndWritesDefaults(t *testing.T) {
	s, path := openTemp(t)
	if got := names(s.List()); got != "HD,Full HD,Laptop,Classic" {
		t.Fatalf("unexpected defaults %q", got)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected defaults written to disk: %v", err)
	}
}

func TestOpen_DropsInvalidEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	data := `[
  {"name": "Wide", "width": 2560, "height": 1080},
  {"name": "  ", "width": 800, "height": 600},
  {"name": "Zero", "width": 0, "height": 600}
]`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := names(s.List()); got != "Wide" {
		t.Fatalf("expected only Wide, got %q", got)
	}
}

func TestOpen_AcceptsCapitalizedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	if err := os.WriteFile(path, []byte(`[{"Name":"Tall","Width":900,"Height":1400}]`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	p, ok := s.Find("tall")
	if !ok || p.Width != 900 || p.Height != 1400 {
		t.Fatalf("expected Tall 900x1400, got %+v ok=%v", p, ok)
	}
}

func TestOpen_AllInvalidOrCorruptReseeds(t *testing.T) {
	for name, data := range map[string]string{
		"empty list":  `[]`,
		"all invalid": `[{"name":"", "width":1, "height":1}]`,
		"corrupt":     `{not json`,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "presets.json")
			if err := os.WriteFile(path, []byte(data), 0644); err != nil {
				t.Fatalf("write: %v", err)
			}
			s, err := Open(path, nil)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			if len(s.List()) != 4 {
				t.Fatalf("expected 4 defaults, got %v", s.List())
			}
		})
	}
}

func TestAdd_RejectsInvalidAndDuplicates(t *testing.T) {
	s, path := openTemp(t)

	if err := s.Add(Preset{Name: "Bad", Width: 0, Height: 10}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if err := s.Add(Preset{Name: "full hd", Width: 1, Height: 1}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := s.Add(Preset{Name: " Square ", Width: 1000, Height: 1000}); err != nil {
		t.Fatalf("add: %v", err)
	}

	reopened, err := Open(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	p, ok := reopened.Find("SQUARE")
	if !ok || p.Name != "Square" {
		t.Fatalf("expected trimmed Square persisted, got %+v ok=%v", p, ok)
	}
}

func TestRemoveAndReset(t *testing.T) {
	s, _ := openTemp(t)

	if err := s.Remove("laptop"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := names(s.List()); got != "HD,Full HD,Classic" {
		t.Fatalf("unexpected list after remove %q", got)
	}
	if err := s.Remove("laptop"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(s.List()) != 4 {
		t.Fatalf("expected defaults after reset, got %v", s.List())
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	s, _ := openTemp(t)
	list := s.List()
	list[0].Name = "mutated"
	if p, _ := s.Find("HD"); p.Name != "HD" {
		t.Fatalf("store was mutated through List")
	}
}

func TestLabel(t *testing.T) {
	p := Preset{Name: "Full HD", Width: 1920, Height: 1080}
	if p.Label() != "Full HD (1920x1080)" {
		t.Fatalf("unexpected label %q", p.Label())
	}
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	s, path := openTemp(t)
	if err := s.Add(Preset{Name: "Extra", Width: 640, Height: 480}); err != nil {
		t.Fatalf("add: %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only presets.json, got %d entries", len(entries))
	}
}
