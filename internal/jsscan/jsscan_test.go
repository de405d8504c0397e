package jsscan

import (
	"testing"

	hastemap "github.com/haste-build/hastemap"
	"github.com/haste-build/hastemap/pkg/comparison"
)

func TestScanPackageManifest(t *testing.T) {
	id, kind, deps, err := Scan("/src/pkg/package.json", []byte(`{"name": "left-pad"}`))
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if id != "left-pad" || kind != hastemap.ModuleKindPackage {
		t.Errorf("got id=%q kind=%v", id, kind)
	}
	if len(deps) != 0 {
		t.Errorf("expected no dependencies from a manifest, got %v", deps)
	}
}

func TestScanProvidesModule(t *testing.T) {
	source := []byte(`/**
 * @providesModule Foo
 */
const bar = require('./bar');
import baz from '../baz';
`)
	id, kind, deps, err := Scan("/src/Foo.js", source)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if id != "Foo" || kind != hastemap.ModuleKindModule {
		t.Errorf("got id=%q kind=%v", id, kind)
	}
	if !comparison.StringSlicesEqual(deps, []string{"./bar", "../baz"}) {
		t.Errorf("got dependencies %v", deps)
	}
}

func TestScanFileWithoutDeclaration(t *testing.T) {
	id, _, deps, err := Scan("/src/util.js", []byte(`export default function(){}`))
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if id != "" {
		t.Errorf("expected no declared id, got %q", id)
	}
	if len(deps) != 0 {
		t.Errorf("expected no dependencies, got %v", deps)
	}
}

func TestScanDedupesDependencies(t *testing.T) {
	source := []byte(`
require('./a');
require('./a');
import './a';
`)
	_, _, deps, err := Scan("/src/x.js", source)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if !comparison.StringSlicesEqual(deps, []string{"./a"}) {
		t.Errorf("expected deduped single dependency, got %v", deps)
	}
}
