package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// FileStore keeps markers as empty files in Dir.
type FileStore struct {
	Dir string
}

func (f *FileStore) path(m Marker) string {
	return filepath.Join(f.Dir, string(m))
}

func (f *FileStore) Stat(m Marker) (time.Time, bool, error) {
	info, err := os.Stat(f.path(m))
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, errors.Wrapf(err, "cannot stat %s", m)
	}
	return info.ModTime(), true, nil
}

func (f *FileStore) Touch(m Marker, at time.Time) error {
	if err := os.MkdirAll(f.Dir, 0700); err != nil {
		return errors.Wrapf(err, "cannot create %s", f.Dir)
	}
	p := f.path(m)
	if err := os.WriteFile(p, nil, 0600); err != nil {
		return errors.Wrapf(err, "cannot write %s", m)
	}
	if err := os.Chtimes(p, at, at); err != nil {
		return errors.Wrapf(err, "cannot set time on %s", m)
	}
	return nil
}

func (f *FileStore) Remove(m Marker) error {
	if err := os.Remove(f.path(m)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "cannot remove %s", m)
	}
	return nil
}

// FileConfigStore keeps the config record as indented JSON at Path.
type FileConfigStore struct {
	Path string
}

func (f *FileConfigStore) Load() (*Config, bool, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, "cannot read auto-lock config")
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, false, errors.Wrap(err, "cannot parse auto-lock config")
	}
	return &cfg, true, nil
}

func (f *FileConfigStore) Save(cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "cannot encode auto-lock config")
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0700); err != nil {
		return errors.Wrap(err, "cannot create config directory")
	}
	if err := os.WriteFile(f.Path, data, 0600); err != nil {
		return errors.Wrap(err, "cannot write auto-lock config")
	}
	return nil
}
