package hastemap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// stubExtractor returns a deterministic InlineExtractor: the declared
// module id for a path is its base name without extension, upper-cased,
// unless overridden in ids.
func stubExtractor(ids map[string]string) func(string) (string, *ModuleRef, []string, error) {
	return func(path string) (string, *ModuleRef, []string, error) {
		id, ok := ids[path]
		if !ok {
			return "", nil, nil, nil
		}
		return id, &ModuleRef{Path: path, Kind: ModuleKindModule}, nil, nil
	}
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestBuildEmptyProject(t *testing.T) {
	root := t.TempDir()
	cacheDir := t.TempDir()

	b, err := NewBuilder(Options{
		Name:            "empty",
		Roots:           []string{root},
		Extensions:      []string{"js"},
		CacheDirectory:  cacheDir,
		MaxWorkers:      1,
		InlineExtractor: stubExtractor(nil),
	}, nil)
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}

	files, modules, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(files.files) != 0 {
		t.Errorf("expected empty files table, got %d entries", len(files.files))
	}
	if len(modules.modules) != 0 {
		t.Errorf("expected empty module table, got %d entries", len(modules.modules))
	}
	if _, err := os.Stat(b.CachePath()); err != nil {
		t.Errorf("expected cache file to be created: %v", err)
	}
}

func TestBuildSingleModule(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.js")
	writeFile(t, path, "")

	b, err := NewBuilder(Options{
		Name:            "single",
		Roots:           []string{root},
		Extensions:      []string{"js"},
		CacheDirectory:  t.TempDir(),
		MaxWorkers:      1,
		InlineExtractor: stubExtractor(map[string]string{path: "A"}),
	}, nil)
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}

	files, modules, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	resolved, ok := modules.GetModule("A", GenericPlatform, "", false)
	if !ok || resolved != path {
		t.Errorf("expected module A to resolve to %q, got %q (ok=%v)", path, resolved, ok)
	}
	if !files.Exists(path) {
		t.Error("expected file store to contain the source file")
	}
}

func TestBuildPlatformExtensions(t *testing.T) {
	root := t.TempDir()
	iosPath := filepath.Join(root, "P.ios.js")
	androidPath := filepath.Join(root, "P.android.js")
	writeFile(t, iosPath, "")
	writeFile(t, androidPath, "")

	b, err := NewBuilder(Options{
		Name:           "platforms",
		Roots:          []string{root},
		Extensions:     []string{"js"},
		Platforms:      []string{"ios", "android"},
		CacheDirectory: t.TempDir(),
		MaxWorkers:     1,
		InlineExtractor: stubExtractor(map[string]string{
			iosPath:     "P",
			androidPath: "P",
		}),
	}, nil)
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}

	_, modules, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	iosResolved, ok := modules.GetModule("P", "ios", "", false)
	if !ok || iosResolved != iosPath {
		t.Errorf("expected ios platform to resolve to %q, got %q", iosPath, iosResolved)
	}
	androidResolved, ok := modules.GetModule("P", "android", "", false)
	if !ok || androidResolved != androidPath {
		t.Errorf("expected android platform to resolve to %q, got %q", androidPath, androidResolved)
	}
}

func TestBuildCollisionWarnKeepsFirstByPathOrder(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.js")
	b := filepath.Join(root, "b.js")
	writeFile(t, a, "")
	writeFile(t, b, "")

	builder, err := NewBuilder(Options{
		Name:           "collide",
		Roots:          []string{root},
		Extensions:     []string{"js"},
		CacheDirectory: t.TempDir(),
		MaxWorkers:     1,
		InlineExtractor: stubExtractor(map[string]string{
			a: "X",
			b: "X",
		}),
	}, nil)
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}

	_, modules, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	resolved, ok := modules.GetModule("X", GenericPlatform, "", false)
	if !ok {
		t.Fatal("expected X to resolve despite the collision")
	}
	// a.js sorts before b.js, so it should win under the stable
	// iteration order (spec.md P5).
	if resolved != a {
		t.Errorf("expected first-by-sorted-order path %q to win, got %q", a, resolved)
	}
}

func TestBuildCollisionThrowFails(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.js")
	b := filepath.Join(root, "b.js")
	writeFile(t, a, "")
	writeFile(t, b, "")

	builder, err := NewBuilder(Options{
		Name:                   "collide-throw",
		Roots:                  []string{root},
		Extensions:             []string{"js"},
		CacheDirectory:         t.TempDir(),
		MaxWorkers:             1,
		ThrowOnModuleCollision: true,
		InlineExtractor: stubExtractor(map[string]string{
			a: "X",
			b: "X",
		}),
	}, nil)
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}

	_, _, err = builder.Build()
	if err == nil {
		t.Fatal("expected build to fail on throw collision policy")
	}
	if !strings.Contains(err.Error(), a) || !strings.Contains(err.Error(), b) {
		t.Errorf("expected error to mention both paths, got: %v", err)
	}
}

func TestBuildIncrementalOnlyReExtractsChangedFile(t *testing.T) {
	root := t.TempDir()
	cacheDir := t.TempDir()
	a := filepath.Join(root, "a.js")
	b := filepath.Join(root, "b.js")
	writeFile(t, a, "")
	writeFile(t, b, "")

	var extractionCount int
	extractor := func(path string) (string, *ModuleRef, []string, error) {
		extractionCount++
		switch path {
		case a:
			return "A", &ModuleRef{Path: a, Kind: ModuleKindModule}, nil, nil
		case b:
			return "B", &ModuleRef{Path: b, Kind: ModuleKindModule}, nil, nil
		}
		return "", nil, nil, nil
	}

	newBuilder := func() *Builder {
		builder, err := NewBuilder(Options{
			Name:            "incremental",
			Roots:           []string{root},
			Extensions:      []string{"js"},
			CacheDirectory:  cacheDir,
			MaxWorkers:      1,
			InlineExtractor: extractor,
		}, nil)
		if err != nil {
			t.Fatalf("NewBuilder failed: %v", err)
		}
		return builder
	}

	if _, _, err := newBuilder().Build(); err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	if extractionCount != 2 {
		t.Fatalf("expected 2 extractions on first build, got %d", extractionCount)
	}

	extractionCount = 0

	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(b, future, future); err != nil {
		t.Fatal(err)
	}

	files, modules, err := newBuilder().Build()
	if err != nil {
		t.Fatalf("second Build failed: %v", err)
	}
	if extractionCount != 1 {
		t.Errorf("expected exactly 1 extraction on second build (only b.js changed), got %d", extractionCount)
	}

	if !files.Exists(a) || !files.Exists(b) {
		t.Error("expected both files to remain present")
	}
	if resolved, ok := modules.GetModule("A", GenericPlatform, "", false); !ok || resolved != a {
		t.Errorf("expected cached module A to still resolve, got %q (ok=%v)", resolved, ok)
	}
}

func TestBuildIsSingleFlight(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.js"), "")

	builder, err := NewBuilder(Options{
		Name:            "single-flight",
		Roots:           []string{root},
		Extensions:      []string{"js"},
		CacheDirectory:  t.TempDir(),
		MaxWorkers:      1,
		InlineExtractor: stubExtractor(nil),
	}, nil)
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}

	files1, _, err1 := builder.Build()
	files2, _, err2 := builder.Build()
	if err1 != err2 {
		t.Errorf("expected identical errors from repeated Build calls, got %v and %v", err1, err2)
	}
	if files1 != files2 {
		t.Error("expected repeated Build calls to return the same published FileStore")
	}
}

func TestBuildLatchesFailure(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.js")
	b := filepath.Join(root, "b.js")
	writeFile(t, a, "")
	writeFile(t, b, "")

	builder, err := NewBuilder(Options{
		Name:                   "latched-failure",
		Roots:                  []string{root},
		Extensions:             []string{"js"},
		CacheDirectory:         t.TempDir(),
		MaxWorkers:             1,
		ThrowOnModuleCollision: true,
		InlineExtractor: stubExtractor(map[string]string{
			a: "X",
			b: "X",
		}),
	}, nil)
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}

	_, _, err1 := builder.Build()
	_, _, err2 := builder.Build()
	if err1 == nil {
		t.Fatal("expected build with a thrown collision to fail")
	}
	if err1.Error() != err2.Error() {
		t.Errorf("expected latched failure to be returned identically on retry, got %v and %v", err1, err2)
	}
}

func TestCollisionErrorMentionsBothPaths(t *testing.T) {
	err := &CollisionError{ID: "X", Platform: GenericPlatform, Existing: "/a.js", New: "/b.js"}
	msg := err.Error()
	if !strings.Contains(msg, "/a.js") || !strings.Contains(msg, "/b.js") || !strings.Contains(msg, "X") {
		t.Errorf("unexpected collision message: %s", msg)
	}
}
