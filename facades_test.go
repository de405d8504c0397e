package hastemap

import "testing"

func TestFacadesFromConstructsWorkingFacades(t *testing.T) {
	h := NewHasteMap()
	h.Files["/src/a.js"] = &FileRecord{ID: "A", Visited: true}
	h.Map["A"] = PlatformTable{GenericPlatform: &ModuleRef{Path: "/src/a.js", Kind: ModuleKindModule}}

	files, modules, err := FacadesFrom(h)
	if err != nil {
		t.Fatalf("FacadesFrom failed: %v", err)
	}
	if !files.Exists("/src/a.js") {
		t.Error("expected facade file store to see a.js")
	}
	if path, ok := modules.GetModule("A", GenericPlatform, "", false); !ok || path != "/src/a.js" {
		t.Errorf("got %q (ok=%v)", path, ok)
	}
}

func TestFacadesFromRejectsNil(t *testing.T) {
	if _, _, err := FacadesFrom(nil); err == nil {
		t.Error("expected a nil map to be rejected")
	}
}
