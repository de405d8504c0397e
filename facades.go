package hastemap

// FacadesFrom constructs the FileStore and ModuleMap read-only facades
// directly from a HasteMap, without running the build pipeline. It is
// meant for inspecting a cache loaded independently of a Builder (for
// example, cmd/hastemap's query command reading a cache file written by
// an earlier "build" run).
func FacadesFrom(h *HasteMap) (*FileStore, *ModuleMap, error) {
	if h == nil {
		return nil, nil, errNilHasteMap
	}
	return newFileStore(h.Files), newModuleMap(h.Map, h.Mocks), nil
}
