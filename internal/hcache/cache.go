package hcache

import (
	"os"

	hastemap "github.com/haste-build/hastemap"
	"github.com/haste-build/hastemap/pkg/encoding"
	"github.com/haste-build/hastemap/pkg/logging"
)

// Load reads and decodes the haste map persisted at path. Per spec.md
// §4.1, any failure to load or decode (missing file, corrupt content, or
// an incompatible version baked into the path by Path) is not an error
// condition for the caller: it simply means there's no usable cache, so
// an empty map with all four sub-tables present is returned instead. Only
// I/O errors unrelated to the file not existing or being malformed are
// worth distinguishing, and even those collapse to "start fresh" here,
// since the crawl stage will repopulate everything regardless.
func Load(path string) (*hastemap.HasteMap, error) {
	var h *hastemap.HasteMap
	err := encoding.LoadAndUnmarshal(path, func(data []byte) error {
		decoded, decodeErr := hastemap.UnmarshalHasteMapJSON(data)
		if decodeErr != nil {
			return decodeErr
		}
		h = decoded
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return hastemap.NewHasteMap(), nil
		}
		// Any other failure (permission error, truncated write, version
		// mismatch baked into the digest producing garbage, corrupt JSON)
		// is treated identically: the cache is unusable, not fatal.
		return hastemap.NewHasteMap(), nil
	}
	return h, nil
}

// Persist encodes h and writes it atomically to path.
func Persist(path string, h *hastemap.HasteMap, logger *logging.Logger) error {
	return encoding.MarshalAndSave(path, logger, func() ([]byte, error) {
		return hastemap.MarshalHasteMapJSON(h)
	})
}
