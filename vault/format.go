package vault

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	DirPerm  = 0700
	FilePerm = 0600
)

// LockWait bounds how long a read or write waits for another process to
// release the vault file before failing with ErrVaultBusy.
var LockWait = 2 * time.Second

// Envelope layout, little endian:
//
//	u64  ciphertext length
//	[]   ciphertext
//	[16] iv
func encodeEnvelope(env *Envelope) ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.Grow(lengthPrefixLen + len(env.Ciphertext) + IVLen)

	if err := binary.Write(buf, binary.LittleEndian, uint64(len(env.Ciphertext))); err != nil {
		return nil, err
	}
	if _, err := buf.Write(env.Ciphertext); err != nil {
		return nil, err
	}
	if _, err := buf.Write(env.IV[:]); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func decodeEnvelope(raw []byte) (*Envelope, error) {
	if len(raw) < lengthPrefixLen+IVLen {
		return nil, errors.Wrapf(ErrMalformedVault, "file too short (%d bytes)", len(raw))
	}

	r := bytes.NewReader(raw)

	var n uint64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, errors.Wrap(ErrMalformedVault, err.Error())
	}
	if n > uint64(r.Len()-IVLen) {
		return nil, errors.Wrapf(ErrMalformedVault, "ciphertext length %d exceeds file size", n)
	}

	env := &Envelope{
		Ciphertext: make([]byte, n),
		Trailing:   int(uint64(r.Len()) - n - IVLen),
	}
	if _, err := io.ReadFull(r, env.Ciphertext); err != nil {
		return nil, errors.Wrap(ErrMalformedVault, err.Error())
	}
	if _, err := io.ReadFull(r, env.IV[:]); err != nil {
		return nil, errors.Wrap(ErrMalformedVault, err.Error())
	}

	return env, nil
}

// ReadEnvelope reads and parses the vault file at path. A missing file is
// the empty-vault state and is reported as ok == false with a nil error.
func ReadEnvelope(path string) (env *Envelope, ok bool, err error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "cannot stat vault %q", path)
	}

	unlock, err := lockFile(path, false)
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false, errors.Wrapf(err, "cannot read vault %q", path)
	}

	env, err = decodeEnvelope(raw)
	if err != nil {
		return nil, false, err
	}
	return env, true, nil
}

// WriteEnvelope serializes env and replaces the file at path, creating
// parent directories as needed. The new content is written to a temporary
// file in the same directory and renamed over the target.
func WriteEnvelope(path string, env *Envelope) error {
	raw, err := encodeEnvelope(env)
	if err != nil {
		return errors.Wrap(err, "cannot encode envelope")
	}

	if err := os.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return errors.Wrapf(err, "cannot create vault directory for %q", path)
	}

	unlock, err := lockFile(path, true)
	if err != nil {
		return err
	}
	defer unlock()

	return atomicWriteFile(path, raw, FilePerm)
}

func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmpPath := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")

	tmpFile, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return errors.Wrap(err, "cannot create temporary vault file")
	}
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return errors.Wrap(err, "cannot write temporary vault file")
	}
	if err := tmpFile.Sync(); err != nil {
		return errors.Wrap(err, "cannot sync temporary vault file")
	}
	if err := tmpFile.Close(); err != nil {
		return errors.Wrap(err, "cannot close temporary vault file")
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Wrapf(err, "cannot replace vault %q", path)
	}

	_ = syncDir(dir)
	_ = os.Chmod(path, perm)
	return nil
}

func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
