package hastemap

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes a FileRecord as a positional JSON array
// [id, mtime, visited, dependencies], matching the fixed-arity tuple
// spec.md §3 describes ("to minimize persisted size"). The named struct
// above is what every in-memory consumer sees; this method (and its
// UnmarshalJSON counterpart) is the only place that knows about the wire
// shape.
func (r FileRecord) MarshalJSON() ([]byte, error) {
	deps := r.Dependencies
	if deps == nil {
		deps = []string{}
	}
	visited := 0
	if r.Visited {
		visited = 1
	}
	return json.Marshal([4]interface{}{r.ID, r.ModTime, visited, deps})
}

// UnmarshalJSON decodes a FileRecord from its positional wire form.
func (r *FileRecord) UnmarshalJSON(data []byte) error {
	var tuple [4]json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("unable to decode file record tuple: %w", err)
	}

	if err := json.Unmarshal(tuple[0], &r.ID); err != nil {
		return fmt.Errorf("unable to decode file record id: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &r.ModTime); err != nil {
		return fmt.Errorf("unable to decode file record mtime: %w", err)
	}
	var visited int
	if err := json.Unmarshal(tuple[2], &visited); err != nil {
		return fmt.Errorf("unable to decode file record visited flag: %w", err)
	}
	r.Visited = visited != 0
	if err := json.Unmarshal(tuple[3], &r.Dependencies); err != nil {
		return fmt.Errorf("unable to decode file record dependencies: %w", err)
	}

	return nil
}

// MarshalJSON encodes a ModuleRef as a positional JSON array [path, kind].
func (m ModuleRef) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{m.Path, uint8(m.Kind)})
}

// UnmarshalJSON decodes a ModuleRef from its positional wire form.
func (m *ModuleRef) UnmarshalJSON(data []byte) error {
	var tuple [2]json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("unable to decode module reference tuple: %w", err)
	}

	if err := json.Unmarshal(tuple[0], &m.Path); err != nil {
		return fmt.Errorf("unable to decode module reference path: %w", err)
	}
	var kind uint8
	if err := json.Unmarshal(tuple[1], &kind); err != nil {
		return fmt.Errorf("unable to decode module reference kind: %w", err)
	}
	m.Kind = ModuleKind(kind)

	return nil
}

// wireHasteMap is the top-level persisted shape: exactly the four keys
// spec.md §6 requires ("the top level has exactly the four keys clocks,
// files, map, mocks").
type wireHasteMap struct {
	Clocks map[string]string        `json:"clocks"`
	Files  map[string]*FileRecord   `json:"files"`
	Map    map[string]PlatformTable `json:"map"`
	Mocks  map[string]string        `json:"mocks"`
}

// MarshalHasteMapJSON encodes the HasteMap in its wire shape. It is exported so
// that internal/hcache can serialize a *HasteMap without needing access to
// unexported fields (there are none; this exists for symmetry with
// UnmarshalHasteMapJSON and to keep the wire shape construction in one
// place).
func MarshalHasteMapJSON(h *HasteMap) ([]byte, error) {
	if h == nil {
		h = NewHasteMap()
	}
	return json.Marshal(wireHasteMap{
		Clocks: h.Clocks,
		Files:  h.Files,
		Map:    h.Map,
		Mocks:  h.Mocks,
	})
}

// UnmarshalHasteMapJSON decodes a HasteMap from its wire shape, filling in
// empty tables for any of the four keys the caller's data omits so that
// every table is non-nil (spec.md §4.1).
func UnmarshalHasteMapJSON(data []byte) (*HasteMap, error) {
	var wire wireHasteMap
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("unable to decode haste map: %w", err)
	}

	h := NewHasteMap()
	if wire.Clocks != nil {
		h.Clocks = wire.Clocks
	}
	if wire.Files != nil {
		h.Files = wire.Files
	}
	if wire.Map != nil {
		h.Map = wire.Map
	}
	if wire.Mocks != nil {
		h.Mocks = wire.Mocks
	}

	return h, nil
}
