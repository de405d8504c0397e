package hastemap

import (
	"github.com/haste-build/hastemap/pkg/logging"
)

// installer implements the module installer described in spec.md §4.3
// ("setModule(id, module)"). It owns the target map table.
//
// installer holds no lock and is not safe for concurrent use. Installs
// are serialized by the caller: buildMetadata awaits extraction futures
// one at a time in a stable path order and calls install from that single
// goroutine, so there is exactly one observer of map even though several
// extraction results may be in flight.
type installer struct {
	table     map[string]PlatformTable
	platforms []string
	policy    CollisionPolicy
	logger    *logging.Logger
}

func newInstaller(table map[string]PlatformTable, platforms []string, policy CollisionPolicy, logger *logging.Logger) *installer {
	return &installer{table: table, platforms: platforms, policy: policy, logger: logger}
}

// install records module under id, per spec.md §4.3's platform
// resolution, same-path no-op, and collision rules.
func (n *installer) install(id string, module *ModuleRef) error {
	platform := ExtractPlatform(module.Path, n.platforms)

	platforms, ok := n.table[id]
	if !ok {
		platforms = make(PlatformTable)
		n.table[id] = platforms
	}

	existing, ok := platforms[platform]
	if !ok {
		platforms[platform] = module
		return nil
	}

	if existing.Path == module.Path {
		return nil
	}

	collision := &CollisionError{ID: id, Platform: platform, Existing: existing.Path, New: module.Path}
	if n.policy == CollisionThrow {
		return collision
	}

	n.logger.Warnf("%s", collision.Error())
	return nil
}
