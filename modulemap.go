package hastemap

// ModuleMap is the read-only facade over the map and mocks tables,
// published once a build completes (spec.md §4.6).
type ModuleMap struct {
	modules map[string]PlatformTable
	mocks   map[string]string
}

// newModuleMap wraps modules and mocks in a ModuleMap. The caller must
// not mutate either map afterward.
func newModuleMap(modules map[string]PlatformTable, mocks map[string]string) *ModuleMap {
	return &ModuleMap{modules: modules, mocks: mocks}
}

// GetModule resolves id for platform, per spec.md §4.6's resolution
// order: exact platform match, then nativePlatform fallback if
// nativePlatform is non-empty and supportsNativePlatform is true, then
// the generic platform. It returns the path and true on a match.
func (m *ModuleMap) GetModule(id, platform string, nativePlatform string, supportsNativePlatform bool) (string, bool) {
	platforms, ok := m.modules[id]
	if !ok {
		return "", false
	}

	if ref, ok := platforms[platform]; ok {
		return ref.Path, true
	}
	if supportsNativePlatform && nativePlatform != "" && nativePlatform != platform {
		if ref, ok := platforms[nativePlatform]; ok {
			return ref.Path, true
		}
	}
	if ref, ok := platforms[GenericPlatform]; ok {
		return ref.Path, true
	}
	return "", false
}

// GetPackage is GetModule restricted to entries whose kind is
// ModuleKindPackage.
func (m *ModuleMap) GetPackage(id, platform string, nativePlatform string, supportsNativePlatform bool) (string, bool) {
	platforms, ok := m.modules[id]
	if !ok {
		return "", false
	}

	resolve := func(p string) (string, bool) {
		ref, ok := platforms[p]
		if !ok || ref.Kind != ModuleKindPackage {
			return "", false
		}
		return ref.Path, true
	}

	if path, ok := resolve(platform); ok {
		return path, true
	}
	if supportsNativePlatform && nativePlatform != "" && nativePlatform != platform {
		if path, ok := resolve(nativePlatform); ok {
			return path, true
		}
	}
	return resolve(GenericPlatform)
}

// GetMockModule resolves a mocks-table stem to its file path.
func (m *ModuleMap) GetMockModule(stem string) (string, bool) {
	path, ok := m.mocks[stem]
	return path, ok
}

// Len returns the number of distinct module ids in the map.
func (m *ModuleMap) Len() int {
	return len(m.modules)
}
