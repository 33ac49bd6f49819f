package filesystem

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"

	errUtils "github.com/cloudposse/capnp-import/errors"
	log "github.com/cloudposse/capnp-import/pkg/logger"
	"github.com/cloudposse/capnp-import/pkg/perf"
)

const (
	maxLockRetries = 50
	lockRetryDelay = 10 * time.Millisecond
)

// WithFileLock runs fn while holding an exclusive lock on path + ".lock".
// The lock lives beside the target so it survives the atomic rename of the target.
func WithFileLock(path string, fn func() error) error {
	defer perf.Track(nil, "filesystem.WithFileLock")()

	lockPath := path + ".lock"
	lock := flock.New(lockPath)

	var locked bool
	var err error
	for i := 0; i < maxLockRetries; i++ {
		locked, err = lock.TryLock()
		if err != nil {
			return errors.Join(errUtils.ErrOutputLocked, err)
		}
		if locked {
			break
		}
		time.Sleep(lockRetryDelay)
	}
	if !locked {
		return fmt.Errorf("%w: %s is locked by another process", errUtils.ErrOutputLocked, path)
	}

	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Trace("Failed to unlock output file", "error", err, "path", lockPath)
		}
	}()

	return fn()
}
