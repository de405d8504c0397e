package ignore

import "testing"

func TestMatchIgnorePattern(t *testing.T) {
	m, err := New(`\.test\.js$`, nil, nil, false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !m.Match("/repo/src/foo.test.js") {
		t.Error("expected path matching ignore pattern to be ignored")
	}
	if m.Match("/repo/src/foo.js") {
		t.Error("expected non-matching path to be included")
	}
}

func TestMatchExtraGlob(t *testing.T) {
	m, err := New("", []string{"**/*.snap"}, nil, false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !m.Match("/repo/src/__snapshots__/foo.snap") {
		t.Error("expected snapshot file to be ignored by extra glob")
	}
}

func TestNodeModulesExcludedByDefault(t *testing.T) {
	m, err := New("", nil, nil, false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !m.Match("/repo/node_modules/left-pad/index.js") {
		t.Error("expected unwhitelisted node_modules path to be ignored")
	}
}

func TestNodeModulesWhitelist(t *testing.T) {
	m, err := New("", nil, []string{"left-pad"}, false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if m.Match("/repo/node_modules/left-pad/index.js") {
		t.Error("expected whitelisted package to be included")
	}
	if !m.Match("/repo/node_modules/right-pad/index.js") {
		t.Error("expected non-whitelisted package to remain ignored")
	}
}

func TestNodeModulesScopedPackageWhitelist(t *testing.T) {
	m, err := New("", nil, []string{"@scope/pkg"}, false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if m.Match("/repo/node_modules/@scope/pkg/index.js") {
		t.Error("expected whitelisted scoped package to be included")
	}
}

func TestRetainAllFilesOverridesNodeModulesExclusion(t *testing.T) {
	m, err := New("", nil, nil, true)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if m.Match("/repo/node_modules/left-pad/index.js") {
		t.Error("expected retainAllFiles to override node_modules exclusion in Match")
	}
	if !m.UnderNodeModules("/repo/node_modules/left-pad/index.js") {
		t.Error("expected UnderNodeModules to still report true so the builder can skip extraction")
	}
}

func TestInvalidIgnorePattern(t *testing.T) {
	if _, err := New("(", nil, nil, false); err == nil {
		t.Error("expected invalid regexp to be rejected")
	}
}

func TestInvalidExtraGlob(t *testing.T) {
	if _, err := New("", []string{"["}, nil, false); err == nil {
		t.Error("expected invalid glob to be rejected")
	}
}
