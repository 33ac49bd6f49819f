package filesystem

import (
	"fmt"
	"os"
	"path/filepath"

	errUtils "github.com/cloudposse/capnp-import/errors"
	"github.com/cloudposse/capnp-import/pkg/perf"
)

// WriteFileAtomic writes data to filename so that readers see either the previous
// contents or the new contents, never a truncated file. Parent directories are created.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	defer perf.Track(nil, "filesystem.WriteFileAtomic")()

	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("%w: %s: %w", errUtils.ErrWriteOutput, filename, err)
	}
	if err := writeFileAtomicImpl(filename, data, perm); err != nil {
		return fmt.Errorf("%w: %s: %w", errUtils.ErrWriteOutput, filename, err)
	}
	return nil
}
