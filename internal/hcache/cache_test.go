package hcache

import (
	"os"
	"path/filepath"
	"testing"

	hastemap "github.com/haste-build/hastemap"
	"github.com/haste-build/hastemap/pkg/logging"
)

func TestLoadMissingFileReturnsEmptyMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist")

	h, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error for missing file: %v", err)
	}
	if len(h.Files) != 0 || len(h.Map) != 0 || len(h.Mocks) != 0 || len(h.Clocks) != 0 {
		t.Errorf("expected empty map for missing cache file, got %+v", h)
	}
}

func TestLoadCorruptFileReturnsEmptyMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	h, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error for corrupt file: %v", err)
	}
	if len(h.Files) != 0 {
		t.Errorf("expected empty map for corrupt cache file, got %+v", h)
	}
}

func TestPersistAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache")

	original := hastemap.NewHasteMap()
	original.Clocks["/src"] = "clock-1"
	original.Files["/src/a.js"] = &hastemap.FileRecord{
		ID:           "A",
		ModTime:      1234,
		Visited:      true,
		Dependencies: []string{"B", "C"},
	}
	original.Map["A"] = hastemap.PlatformTable{
		hastemap.GenericPlatform: {Path: "/src/a.js", Kind: hastemap.ModuleKindModule},
	}
	original.Mocks["a"] = "/src/__mocks__/a.js"

	if err := Persist(path, original, logging.RootLogger); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Clocks["/src"] != "clock-1" {
		t.Errorf("clocks not round-tripped: %+v", loaded.Clocks)
	}
	record, ok := loaded.Files["/src/a.js"]
	if !ok {
		t.Fatal("expected file record to round-trip")
	}
	if record.ID != "A" || record.ModTime != 1234 || !record.Visited || len(record.Dependencies) != 2 {
		t.Errorf("file record not round-tripped correctly: %+v", record)
	}
	ref, ok := loaded.Map["A"][hastemap.GenericPlatform]
	if !ok || ref.Path != "/src/a.js" || ref.Kind != hastemap.ModuleKindModule {
		t.Errorf("module ref not round-tripped correctly: %+v", loaded.Map["A"])
	}
	if loaded.Mocks["a"] != "/src/__mocks__/a.js" {
		t.Errorf("mocks not round-tripped: %+v", loaded.Mocks)
	}
}

func TestPersistTwiceIsStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache")

	h := hastemap.NewHasteMap()
	h.Files["/src/a.js"] = &hastemap.FileRecord{ID: "A", ModTime: 1, Visited: true}

	if err := Persist(path, h, logging.RootLogger); err != nil {
		t.Fatalf("first Persist failed: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := Persist(path, loaded, logging.RootLogger); err != nil {
		t.Fatalf("second Persist failed: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(first) != string(second) {
		t.Errorf("expected load-then-persist to be a byte-level no-op\nfirst:  %s\nsecond: %s", first, second)
	}
}
