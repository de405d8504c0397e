package must

import (
	"io"
	"os"

	"github.com/haste-build/hastemap/pkg/logging"
)

// Close closes c, logging a warning rather than returning an error. It's
// used for cleanup paths where a close failure shouldn't mask the error
// that triggered the cleanup in the first place.
func Close(c io.Closer, logger *logging.Logger) {
	if err := c.Close(); err != nil {
		logger.Warnf("unable to close: %s", err.Error())
	}
}

// OSRemove removes the named file, logging a warning on failure.
func OSRemove(name string, logger *logging.Logger) {
	if err := os.Remove(name); err != nil {
		logger.Warnf("unable to remove %q: %s", name, err.Error())
	}
}

// Kill terminates s, logging a warning on failure.
func Kill(s interface{ Kill() error }, logger *logging.Logger) {
	if err := s.Kill(); err != nil {
		logger.Warnf("unable to kill: %s", err.Error())
	}
}

// IOCopy copies from src to dst, logging a warning on failure.
func IOCopy(dst io.Writer, src io.Reader, logger *logging.Logger) {
	if _, err := io.Copy(dst, src); err != nil {
		logger.Warnf("unable to copy from source to destination: %s", err.Error())
	}
}
