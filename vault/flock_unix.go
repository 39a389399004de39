//go:build unix

package vault

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const lockPollInterval = 20 * time.Millisecond

// lockFile takes an advisory lock on path+".lock", shared for readers and
// exclusive for writers, and returns the function that releases it. It
// retries for up to LockWait and then gives up with ErrVaultBusy.
func lockFile(path string, exclusive bool) (func(), error) {
	f, err := os.OpenFile(path+".lock", os.O_RDWR|os.O_CREATE, FilePerm)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open vault lock file")
	}

	how := unix.LOCK_SH
	if exclusive {
		how = unix.LOCK_EX
	}

	deadline := time.Now().Add(LockWait)
	for {
		err = unix.Flock(int(f.Fd()), how|unix.LOCK_NB)
		if err == nil {
			break
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			f.Close()
			return nil, errors.Wrap(err, "cannot lock vault file")
		}
		if !time.Now().Before(deadline) {
			f.Close()
			return nil, ErrVaultBusy
		}
		time.Sleep(lockPollInterval)
	}

	return func() {
		_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
		f.Close()
	}, nil
}
