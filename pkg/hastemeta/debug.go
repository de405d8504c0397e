package hastemeta

import "os"

// DebugEnabled controls whether debug-level logging is active. It is set
// automatically from the HASTEMAP_DEBUG environment variable.
var DebugEnabled bool

func init() {
	DebugEnabled = os.Getenv("HASTEMAP_DEBUG") == "1"
}
