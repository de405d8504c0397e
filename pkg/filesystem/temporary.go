package filesystem

const (
	// TemporaryNamePrefix is the file name prefix used for all temporary files
	// created by this module. No ignore rule (internal/ignore) refers to
	// it; a crawler skips such a file only because its name does not end
	// in a configured extension. It may be suffixed with additional
	// elements if desired.
	TemporaryNamePrefix = ".hastemap-temporary-"
)
