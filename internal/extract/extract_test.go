package extract

import (
	"errors"
	"testing"

	hastemap "github.com/haste-build/hastemap"
)

func TestInlineExtractSuccess(t *testing.T) {
	fn := func(path string) (string, *hastemap.ModuleRef, []string, error) {
		return "A", &hastemap.ModuleRef{Path: path, Kind: hastemap.ModuleKindModule}, []string{"B"}, nil
	}

	e := NewInline(fn)
	defer e.Close()

	result, err := e.Extract("/src/a.js").Wait()
	if err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if result.ID != "A" || result.Module.Path != "/src/a.js" || len(result.Dependencies) != 1 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestInlineExtractFailure(t *testing.T) {
	fn := func(path string) (string, *hastemap.ModuleRef, []string, error) {
		return "", nil, nil, errors.New("boom")
	}

	e := NewInline(fn)
	defer e.Close()

	_, err := e.Extract("/src/a.js").Wait()
	if err == nil {
		t.Error("expected extraction error to propagate")
	}
}
