package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	p := &Profile{
		Name: "streaming",
		Keys: []KeyConfig{
			{Col: 0, Row: 0, Label: "Scene 1", Color: "#336699", Action: "show-window"},
			{Col: 1, Row: 0, Label: "Mic"},
		},
	}
	if err := s.Save(p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if p.ID == "" {
		t.Error("Save did not assign an id")
	}

	got, err := s.Load("streaming")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.ID != p.ID || got.Name != "streaming" {
		t.Errorf("loaded %+v, want id %q name streaming", got, p.ID)
	}
	if len(got.Keys) != 2 || got.Keys[0].Label != "Scene 1" || got.Keys[0].Action != "show-window" {
		t.Errorf("loaded keys %+v", got.Keys)
	}
}

func TestSaveKeepsID(t *testing.T) {
	s, _ := NewStore(t.TempDir())
	p := &Profile{Name: "main"}
	s.Save(p)
	first := p.ID

	if err := s.Save(p); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if p.ID != first {
		t.Errorf("id changed across saves: %q -> %q", first, p.ID)
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewStore(dir)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := s.Save(&Profile{Name: name}); err != nil {
			t.Fatal(err)
		}
	}
	// Non-profile files are ignored.
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600)
	os.Mkdir(filepath.Join(dir, "backup.json"), 0o700)

	names, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("List = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("List[%d] = %q, want %q (sorted)", i, names[i], want[i])
		}
	}
}

func TestDelete(t *testing.T) {
	s, _ := NewStore(t.TempDir())
	s.Save(&Profile{Name: "gone"})

	if err := s.Delete("gone"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Load("gone"); err == nil {
		t.Error("Load succeeded after Delete")
	}
	if err := s.Delete("gone"); err != nil {
		t.Errorf("Delete of a missing profile failed: %v", err)
	}
}

func TestExport(t *testing.T) {
	s, _ := NewStore(t.TempDir())
	s.Save(&Profile{Name: "streaming", Keys: []KeyConfig{{Col: 0, Row: 0, Label: "Go Live"}}})

	dest := filepath.Join(t.TempDir(), "streaming.json")
	path, err := s.Export("streaming", dest)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if path != dest {
		t.Errorf("export path = %q, want %q for a fresh destination", path, dest)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Go Live") {
		t.Errorf("exported file is missing the key layout: %s", data)
	}
}

func TestExportAvoidsOverwrite(t *testing.T) {
	s, _ := NewStore(t.TempDir())
	s.Save(&Profile{Name: "streaming"})

	outDir := t.TempDir()
	dest := filepath.Join(outDir, "streaming.json")
	os.WriteFile(dest, []byte("precious"), 0o644)

	path, err := s.Export("streaming", dest)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if path == dest {
		t.Fatal("export overwrote an existing file")
	}
	if want := filepath.Join(outDir, "streaming_1.json"); path != want {
		t.Errorf("export path = %q, want %q", path, want)
	}
	if data, _ := os.ReadFile(dest); string(data) != "precious" {
		t.Errorf("original file was modified: %q", data)
	}
}

func TestExportMissingProfile(t *testing.T) {
	s, _ := NewStore(t.TempDir())
	if _, err := s.Export("nope", filepath.Join(t.TempDir(), "x.json")); err == nil {
		t.Error("Export succeeded for a missing profile")
	}
}

func TestInvalidNames(t *testing.T) {
	s, _ := NewStore(t.TempDir())
	for _, name := range []string{"", "  ", "a/b", `a\b`, "../escape"} {
		if err := s.Save(&Profile{Name: name}); err == nil {
			t.Errorf("Save accepted invalid name %q", name)
		}
		if _, err := s.Load(name); err == nil {
			t.Errorf("Load accepted invalid name %q", name)
		}
	}
}

func TestLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewStore(dir)
	os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o600)

	if _, err := s.Load("bad"); err == nil {
		t.Error("Load succeeded on corrupt JSON")
	}
}

func TestNewStoreEmptyDir(t *testing.T) {
	if _, err := NewStore("  "); err == nil {
		t.Error("NewStore accepted a blank directory")
	}
}
