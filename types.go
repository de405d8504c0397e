package hastemap

// ModuleKind identifies what kind of thing a ModuleRef points at.
type ModuleKind uint8

const (
	// ModuleKindModule indicates a single-file module.
	ModuleKindModule ModuleKind = iota
	// ModuleKindPackage indicates a directory whose manifest declares the
	// module id (e.g. a package.json "name" field).
	ModuleKindPackage
)

// String renders the module kind for diagnostics.
func (k ModuleKind) String() string {
	switch k {
	case ModuleKindModule:
		return "module"
	case ModuleKindPackage:
		return "package"
	default:
		return "unknown"
	}
}

// GenericPlatform is the sentinel platform used when a file carries no
// platform token in its name (see ExtractPlatform). It applies to every
// platform unless a more specific entry is present in the module map.
const GenericPlatform = "g"

// FileRecord is the per-file entry in the files table. It mirrors the
// teacher's cache entry shape (cache.go's Cache.Entries) but carries the
// fields spec.md's FileRecord tuple names: a declared module id, the last
// observed modification time, whether extraction has run for that mtime,
// and the dependencies the extractor reported.
//
// FileRecord is positional on the wire (internal/hcache) and named here;
// see DESIGN.md for why.
type FileRecord struct {
	// ID is the module id this file declares, or "" if it declares none.
	ID string
	// ModTime is the Unix nanosecond modification time this record was
	// extracted against.
	ModTime int64
	// Visited indicates that the extractor has processed the file at
	// ModTime and that ID/Dependencies are authoritative.
	Visited bool
	// Dependencies are the module ids this file requires.
	Dependencies []string
}

// HasDeclaration reports whether this record declares a module id.
func (r *FileRecord) HasDeclaration() bool {
	return r != nil && r.ID != ""
}

// ModuleRef cross-references an entry in the files table: a path and the
// kind of thing found there.
type ModuleRef struct {
	// Path is the absolute path of the file providing the module.
	Path string
	// Kind distinguishes a single-file module from a package directory.
	Kind ModuleKind
}

// PlatformTable maps a platform token (or GenericPlatform) to the module
// reference installed for that platform.
type PlatformTable map[string]*ModuleRef

// HasteMap is the compound, persisted index: the four sub-tables described
// in spec.md §3. It is mutated only by the builder's pipeline stages and is
// frozen before being handed to the FileStore/ModuleMap facades.
type HasteMap struct {
	// Clocks maps a root path to the opaque watcher clock last observed
	// for it.
	Clocks map[string]string
	// Files maps absolute file path to its FileRecord.
	Files map[string]*FileRecord
	// Map maps module id to a per-platform table of module references.
	Map map[string]PlatformTable
	// Mocks maps a file's base name stem to its absolute path.
	Mocks map[string]string
}

// NewHasteMap allocates an empty HasteMap with all four sub-tables
// present, per spec.md §4.1 ("the four sub-tables must be plain key-value
// mappings... only the keys explicitly inserted are observable"). Each
// table is a freshly allocated map literal, never a shared or
// default-valued container.
func NewHasteMap() *HasteMap {
	return &HasteMap{
		Clocks: make(map[string]string),
		Files:  make(map[string]*FileRecord),
		Map:    make(map[string]PlatformTable),
		Mocks:  make(map[string]string),
	}
}

// clone produces a deep-enough copy of h suitable for mutation during a
// build: sub-tables are new maps, but unchanged FileRecord/ModuleRef
// values are shared by pointer (the crawler clears derived fields on its
// own copies when a file's mtime changes; see internal/crawl).
func (h *HasteMap) clone() *HasteMap {
	if h == nil {
		return NewHasteMap()
	}
	out := &HasteMap{
		Clocks: make(map[string]string, len(h.Clocks)),
		Files:  make(map[string]*FileRecord, len(h.Files)),
		Map:    make(map[string]PlatformTable, len(h.Map)),
		Mocks:  make(map[string]string, len(h.Mocks)),
	}
	for k, v := range h.Clocks {
		out.Clocks[k] = v
	}
	for k, v := range h.Files {
		out.Files[k] = v
	}
	for k, v := range h.Map {
		platforms := make(PlatformTable, len(v))
		for p, ref := range v {
			platforms[p] = ref
		}
		out.Map[k] = platforms
	}
	for k, v := range h.Mocks {
		out.Mocks[k] = v
	}
	return out
}

// EnsureValid checks invariants I1, I2, and I4 from spec.md §3. It does not
// (and cannot, on its own) check I3, which is a property of how the map
// was built rather than of its final shape.
func (h *HasteMap) EnsureValid() error {
	if h == nil {
		return errNilHasteMap
	}
	for id, platforms := range h.Map {
		for platform, ref := range platforms {
			if ref == nil {
				return newInvariantError("I1", "module %q platform %q has nil reference", id, platform)
			}
			if _, ok := h.Files[ref.Path]; !ok {
				return newInvariantError("I1", "module %q platform %q references unknown file %q", id, platform, ref.Path)
			}
		}
	}
	for path, record := range h.Files {
		if record == nil {
			return newInvariantError("I2", "file %q has nil record", path)
		}
		if !record.Visited || record.ID == "" {
			continue
		}
		found := false
		for _, ref := range h.Map[record.ID] {
			if ref.Path == path {
				found = true
				break
			}
		}
		if !found {
			return newInvariantError("I2", "file %q declares module %q but no platform maps back to it", path, record.ID)
		}
	}
	for stem, path := range h.Mocks {
		if _, ok := h.Files[path]; !ok {
			return newInvariantError("I4", "mock stem %q resolves to unknown file %q", stem, path)
		}
	}
	return nil
}
