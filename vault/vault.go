package vault

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/awnumar/memguard"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var errClosed = errors.New("vault: store is closed")

// OpenError reports a failed Load. It matches ErrVaultOpen as well as the
// underlying cause (ErrDecrypt, ErrMalformedVault, ...) under errors.Is.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("vault: cannot open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

func (e *OpenError) Is(target error) bool { return target == ErrVaultOpen }

// Store is the in-memory, ordered list of entries plus the key that
// protects them on disk. A Store is not safe for concurrent use.
type Store struct {
	key     *memguard.Enclave
	salt    string
	entries []Entry
	log     *logrus.Logger
}

type Option func(*Store)

// WithLogger sets the logger used for load/save events.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithSalt overrides the application salt used for key derivation.
func WithSalt(salt string) Option {
	return func(s *Store) { s.salt = salt }
}

// Open derives the vault key from masterPassword. It does not touch disk.
func Open(masterPassword string, opts ...Option) (*Store, error) {
	s := &Store{salt: AppSalt, entries: []Entry{}}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logrus.New()
		s.log.SetOutput(io.Discard)
	}

	if err := s.setKey(masterPassword); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) setKey(password string) error {
	key, err := DeriveKey(password, s.salt)
	if err != nil {
		return err
	}
	// NewEnclave wipes key.
	s.key = memguard.NewEnclave(key)
	return nil
}

func (s *Store) withKey(fn func(key []byte) error) error {
	if s.key == nil {
		return errClosed
	}
	buf, err := s.key.Open()
	if err != nil {
		return errors.Wrap(err, "cannot open key enclave")
	}
	defer buf.Destroy()
	return fn(buf.Bytes())
}

// ChangePassword replaces the key. The vault on disk keeps the old key
// until the next Save.
func (s *Store) ChangePassword(newPassword string) error {
	if s.key == nil {
		return errClosed
	}
	return s.setKey(newPassword)
}

// Close drops the store's references to the sealed key and the entries.
// memguard enclaves cannot be destroyed explicitly; the sealed key is
// reclaimed by the garbage collector. The store cannot be used afterwards.
func (s *Store) Close() {
	s.key = nil
	s.entries = nil
}

// Load replaces the entries with the content of the vault file at path.
// A missing file leaves the store unchanged. On any failure the store is
// left unmodified and the error is an *OpenError.
func (s *Store) Load(path string) error {
	env, ok, err := ReadEnvelope(path)
	if err != nil {
		return &OpenError{Path: path, Err: err}
	}
	if !ok {
		s.log.WithField("path", path).Debug("vault file absent, nothing to load")
		return nil
	}

	if env.Trailing > 0 {
		s.log.WithFields(logrus.Fields{
			"event":    "vault_trailing_bytes",
			"path":     path,
			"trailing": env.Trailing,
		}).Warn("ignoring bytes after the vault envelope; the next save drops them")
	}

	var entries []Entry
	err = s.withKey(func(key []byte) error {
		pt, err := Decrypt(env, key)
		if err != nil {
			return err
		}
		defer zero(pt)
		if err := json.Unmarshal(pt, &entries); err != nil {
			return errors.Wrap(err, "cannot decode entries")
		}
		return nil
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"event": "vault_load_failed",
			"path":  path,
		}).Warn("cannot open vault")
		return &OpenError{Path: path, Err: err}
	}

	if entries == nil {
		entries = []Entry{}
	}
	s.entries = entries

	s.log.WithFields(logrus.Fields{
		"event":   "vault_loaded",
		"path":    path,
		"entries": len(entries),
	}).Debug("vault loaded")
	return nil
}

// Save encrypts the entries under a fresh IV and replaces the vault file.
// Two saves of identical entries never produce identical files.
func (s *Store) Save(path string) error {
	pt, err := json.Marshal(s.entries)
	if err != nil {
		return errors.Wrap(err, "cannot encode entries")
	}
	defer zero(pt)

	var env *Envelope
	err = s.withKey(func(key []byte) error {
		var encErr error
		env, encErr = Encrypt(pt, key)
		return encErr
	})
	if err != nil {
		return err
	}

	if err := WriteEnvelope(path, env); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"event":   "vault_saved",
		"path":    path,
		"entries": len(s.entries),
	}).Debug("vault saved")
	return nil
}

// Create writes a new vault file at path holding the current entries.
// It refuses to overwrite an existing file.
func (s *Store) Create(path string) error {
	if _, err := os.Stat(path); err == nil {
		return ErrVaultExists
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "cannot stat vault %q", path)
	}
	return s.Save(path)
}

// Len returns the number of entries.
func (s *Store) Len() int { return len(s.entries) }

// List returns a copy of the entries in vault order.
func (s *Store) List() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Get returns the entry at index.
func (s *Store) Get(index int) (Entry, bool) {
	if index < 0 || index >= len(s.entries) {
		return Entry{}, false
	}
	return s.entries[index], true
}

// Add appends e. Names are not required to be unique.
func (s *Store) Add(e Entry) {
	s.entries = append(s.entries, e)
}

// Remove deletes and returns the entry at index; later entries shift down
// by one. An out-of-range index leaves the store unchanged.
func (s *Store) Remove(index int) (Entry, bool) {
	if index < 0 || index >= len(s.entries) {
		return Entry{}, false
	}
	e := s.entries[index]
	s.entries = append(s.entries[:index], s.entries[index+1:]...)
	return e, true
}

// Edit updates the username and/or password of the entry at index. Nil
// fields are left untouched.
func (s *Store) Edit(index int, username, password *string) error {
	if index < 0 || index >= len(s.entries) {
		return errors.Wrapf(ErrEntryNotFound, "index %d", index)
	}
	if username != nil {
		s.entries[index].Username = *username
	}
	if password != nil {
		s.entries[index].Password = *password
	}
	return nil
}

// FindByName returns the first entry whose name equals name exactly.
func (s *Store) FindByName(name string) (Match, bool) {
	for i, e := range s.entries {
		if e.Name == name {
			return Match{Index: i, Entry: e}, true
		}
	}
	return Match{}, false
}

// Search returns every entry whose name contains query, ignoring case, in
// vault order.
func (s *Store) Search(query string) []Match {
	q := strings.ToLower(query)
	var out []Match
	for i, e := range s.entries {
		if strings.Contains(strings.ToLower(e.Name), q) {
			out = append(out, Match{Index: i, Entry: e})
		}
	}
	return out
}

// Resolve maps a 1-based position ("2") or an exact entry name to a
// 0-based index. The numeric form is tried first; an out-of-range number
// falls back to a name lookup.
func (s *Store) Resolve(nameOrIndex string) (int, error) {
	if n, err := strconv.ParseUint(strings.TrimPrefix(nameOrIndex, "+"), 10, 0); err == nil {
		if n >= 1 && n <= uint64(len(s.entries)) {
			return int(n - 1), nil
		}
	}
	if m, ok := s.FindByName(nameOrIndex); ok {
		return m.Index, nil
	}
	return -1, errors.Wrapf(ErrEntryNotFound, "%q", nameOrIndex)
}
