//go:build unix

package cli

import (
	"os"
	"testing"
	"time"

	"github.com/fahmaliyi/hiho/session"
	"github.com/fahmaliyi/hiho/vault"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// holdVaultLock takes the writer's lock on the vault the way another hiho
// process would.
func holdVaultLock(t *testing.T, vaultPath string) func() {
	t.Helper()
	f, err := os.OpenFile(vaultPath+".lock", os.O_RDWR|os.O_CREATE, vault.FilePerm)
	require.NoError(t, err)
	require.NoError(t, unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB))
	return func() {
		_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
		f.Close()
	}
}

func TestUnlock_BusyVaultIsNotAWrongPassword(t *testing.T) {
	old := vault.LockWait
	vault.LockWait = 100 * time.Millisecond
	t.Cleanup(func() { vault.LockWait = old })

	ta := newInitializedApp(t)
	ta.mustRun(t, nil, "lock")

	release := holdVaultLock(t, ta.cfg.VaultPath())
	err := ta.run(t, pw(1), "unlock")
	require.Error(t, err)
	assert.True(t, errors.Is(err, vault.ErrVaultBusy))
	assert.Contains(t, ta.errOut.String(), "in use by another process")
	assert.NotContains(t, ta.errOut.String(), "Wrong master password")
	assert.Equal(t, session.Locked, ta.session.State())

	release()
	ta.mustRun(t, pw(1), "unlock")
	assert.Equal(t, session.Unlocked, ta.session.State())
}

func TestList_ConcurrentReader(t *testing.T) {
	ta := newInitializedApp(t)
	ta.mustRun(t, pw(1), "add", "-n", "a", "-u", "x", "-p", "y")

	f, err := os.OpenFile(ta.cfg.VaultPath()+".lock", os.O_RDWR, 0)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, unix.Flock(int(f.Fd()), unix.LOCK_SH|unix.LOCK_NB))
	defer unix.Flock(int(f.Fd()), unix.LOCK_UN)

	out := ta.mustRun(t, pw(1), "list")
	assert.Equal(t, "1. a: x\n", out)
}
