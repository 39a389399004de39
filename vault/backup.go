package vault

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Syncer moves the encrypted vault file between its local path and some
// other location. Implementations only ever see ciphertext.
type Syncer interface {
	Pull(vaultPath string) error
	Push(vaultPath string) error
}

// DirSyncer mirrors the encrypted vault file into a backup directory, for
// example a mounted removable drive. Only ciphertext is ever copied.
type DirSyncer struct {
	Dir string
}

func (d *DirSyncer) remotePath(vaultPath string) string {
	return filepath.Join(d.Dir, filepath.Base(vaultPath))
}

// Push copies the vault file at vaultPath into the backup directory.
func (d *DirSyncer) Push(vaultPath string) error {
	data, err := os.ReadFile(vaultPath)
	if err != nil {
		return errors.Wrap(err, "failed to read local vault")
	}
	if _, err := decodeEnvelope(data); err != nil {
		return errors.Wrap(err, "refusing to push")
	}

	if err := os.MkdirAll(d.Dir, DirPerm); err != nil {
		return errors.Wrap(err, "failed to create backup directory")
	}
	if err := atomicWriteFile(d.remotePath(vaultPath), data, FilePerm); err != nil {
		return errors.Wrap(err, "failed to write backup")
	}
	return nil
}

// Pull replaces the vault file at vaultPath with the backup copy. The backup
// must parse as a vault envelope.
func (d *DirSyncer) Pull(vaultPath string) error {
	data, err := os.ReadFile(d.remotePath(vaultPath))
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Errorf("no backup vault found in %s", d.Dir)
		}
		return errors.Wrap(err, "failed to read backup vault")
	}
	if _, err := decodeEnvelope(data); err != nil {
		return errors.Wrap(err, "refusing to pull")
	}

	if err := os.MkdirAll(filepath.Dir(vaultPath), DirPerm); err != nil {
		return errors.Wrap(err, "failed to create vault directory")
	}
	unlock, err := lockFile(vaultPath, true)
	if err != nil {
		return err
	}
	defer unlock()

	return atomicWriteFile(vaultPath, data, FilePerm)
}
