package filesystem

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/haste-build/hastemap/pkg/logging"
	"github.com/haste-build/hastemap/pkg/must"
)

const (
	// atomicWriteTemporaryNamePrefix is the file name prefix to use for
	// intermediate temporary files used in atomic writes.
	atomicWriteTemporaryNamePrefix = TemporaryNamePrefix + "atomic-write"
)

// WriteFileAtomic writes a file to disk in an atomic fashion by using an
// intermediate temporary file that is swapped in place using a rename
// operation.
//
// Unlike the teacher's directory-handle-relative rename (built to keep
// concurrent synchronization endpoints safe while racing each other), this
// persister only ever has one writer at a time per cache path (see §5,
// "the cache file is written by one process at a time"), so a plain
// os.Rename suffices. The temporary file is created in the destination's
// own directory; the cross-device fallback below copies the data instead
// if the rename is still reported as crossing devices.
func WriteFileAtomic(path string, data []byte, permissions os.FileMode, logger *logging.Logger) error {
	temporary, err := os.CreateTemp(filepath.Dir(path), atomicWriteTemporaryNamePrefix)
	if err != nil {
		return fmt.Errorf("unable to create temporary file: %w", err)
	}

	if _, err = temporary.Write(data); err != nil {
		must.Close(temporary, logger)
		must.OSRemove(temporary.Name(), logger)
		return fmt.Errorf("unable to write data to temporary file: %w", err)
	}

	if err = temporary.Close(); err != nil {
		must.OSRemove(temporary.Name(), logger)
		return fmt.Errorf("unable to close temporary file: %w", err)
	}

	if err = os.Chmod(temporary.Name(), permissions); err != nil {
		must.OSRemove(temporary.Name(), logger)
		return fmt.Errorf("unable to change file permissions: %w", err)
	}

	if err = os.Rename(temporary.Name(), path); err != nil {
		if !isCrossDeviceError(err) {
			must.OSRemove(temporary.Name(), logger)
			return fmt.Errorf("unable to rename file: %w", err)
		}
		if err = copyAcrossDevices(temporary.Name(), path, permissions); err != nil {
			must.OSRemove(temporary.Name(), logger)
			return fmt.Errorf("unable to copy file across devices: %w", err)
		}
		must.OSRemove(temporary.Name(), logger)
	}

	return nil
}

// copyAcrossDevices handles the case where the temporary file and the
// destination path live on different devices, so os.Rename can't be used
// directly. It is not atomic with respect to readers of the destination
// path, but it's the best available fallback for a cross-device move.
func copyAcrossDevices(source, destination string, permissions os.FileMode) error {
	input, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("unable to open source file: %w", err)
	}
	defer input.Close()

	output, err := os.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, permissions)
	if err != nil {
		return fmt.Errorf("unable to create destination file: %w", err)
	}
	defer output.Close()

	if _, err := io.Copy(output, input); err != nil {
		return fmt.Errorf("unable to copy file contents: %w", err)
	}

	return nil
}
