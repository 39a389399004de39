package session

import (
	"io"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Manager drives the Unlocked/Locked state machine over a StateStore and
// ConfigStore. It keeps no state of its own.
type Manager struct {
	state  StateStore
	config ConfigStore
	now    func() time.Time
	log    *logrus.Logger
}

type Option func(*Manager)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithLogger(l *logrus.Logger) Option {
	return func(m *Manager) { m.log = l }
}

func NewManager(state StateStore, config ConfigStore, opts ...Option) *Manager {
	m := &Manager{state: state, config: config, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logrus.New()
		m.log.SetOutput(io.Discard)
	}
	return m
}

// NewFileManager keeps markers and the config record in dir.
func NewFileManager(dir string, opts ...Option) *Manager {
	return NewManager(
		&FileStore{Dir: dir},
		&FileConfigStore{Path: filepath.Join(dir, ConfigFile)},
		opts...,
	)
}

func ioErr(err error, op string) error {
	return errors.Wrapf(ErrSessionIO, "%s: %v", op, err)
}

// Config returns the auto-lock configuration, storing the default record
// when none exists yet.
func (m *Manager) Config() (*Config, error) {
	cfg, ok, err := m.config.Load()
	if err != nil {
		return nil, ioErr(err, "load config")
	}
	if ok {
		return cfg, nil
	}

	cfg = DefaultConfig()
	if err := m.config.Save(cfg); err != nil {
		return nil, ioErr(err, "save default config")
	}
	return cfg, nil
}

// SetTimeout stores a new idle timeout; nil disables auto-lock.
func (m *Manager) SetTimeout(minutes *uint64) error {
	cfg, err := m.Config()
	if err != nil {
		return err
	}
	cfg.TimeoutMinutes = minutes
	if err := m.config.Save(cfg); err != nil {
		return ioErr(err, "save config")
	}
	m.log.WithField("timeout_minutes", minutes).Info("auto-lock settings updated")
	return nil
}

// ShouldLock reports whether the idle window has been exceeded. It is
// always false when auto-lock is disabled or no activity was recorded.
// On I/O failure it returns true along with the error.
func (m *Manager) ShouldLock() (bool, error) {
	cfg, err := m.Config()
	if err != nil {
		return true, err
	}
	if !cfg.Enabled() {
		return false, nil
	}

	last, ok, err := m.state.Stat(ActivityMarker)
	if err != nil {
		return true, ioErr(err, "read activity")
	}
	if !ok {
		return false, nil
	}

	elapsed := m.now().Sub(last)
	if elapsed <= 0 {
		return false, nil
	}
	timeoutSecs := *cfg.TimeoutMinutes * 60
	if timeoutSecs/60 != *cfg.TimeoutMinutes {
		// overflow: effectively never
		return false, nil
	}
	return uint64(elapsed/time.Second) > timeoutSecs, nil
}

// UpdateActivity records now as the last activity. It does nothing when
// auto-lock is disabled.
func (m *Manager) UpdateActivity() error {
	cfg, err := m.Config()
	if err != nil {
		return err
	}
	if !cfg.Enabled() {
		return nil
	}
	if err := m.state.Touch(ActivityMarker, m.now()); err != nil {
		return ioErr(err, "touch activity")
	}
	return nil
}

// Lock creates the lock marker and stops the idle clock.
func (m *Manager) Lock() error {
	if err := m.state.Touch(LockMarker, m.now()); err != nil {
		return ioErr(err, "create lock marker")
	}
	if err := m.state.Remove(ActivityMarker); err != nil {
		return ioErr(err, "remove activity")
	}
	m.log.WithField("event", "session_locked").Info("session locked")
	return nil
}

// IsLocked reports whether the lock marker exists. It returns true when
// the marker cannot be read.
func (m *Manager) IsLocked() (bool, error) {
	_, ok, err := m.state.Stat(LockMarker)
	if err != nil {
		return true, ioErr(err, "read lock marker")
	}
	return ok, nil
}

// State is IsLocked without the error.
func (m *Manager) State() State {
	if locked, _ := m.IsLocked(); locked {
		return Locked
	}
	return Unlocked
}

// Enforce locks the session if the idle window has passed and returns the
// resulting state. Any error yields Locked.
func (m *Manager) Enforce() (State, error) {
	locked, err := m.IsLocked()
	if err != nil {
		return Locked, err
	}
	if locked {
		return Locked, nil
	}

	should, err := m.ShouldLock()
	if err != nil {
		return Locked, err
	}
	if !should {
		return Unlocked, nil
	}

	m.log.WithField("event", "session_idle_timeout").Info("idle timeout exceeded, locking")
	if err := m.Lock(); err != nil {
		return Locked, err
	}
	return Locked, nil
}

// Unlock runs validate, which must prove knowledge of the master password
// (typically by decrypting the vault), and only then removes both markers.
// A failed validation leaves the session locked.
func (m *Manager) Unlock(validate func() error) error {
	if validate == nil {
		return errors.Wrap(ErrUnlockRejected, "no validator")
	}
	if err := validate(); err != nil {
		m.log.WithField("event", "session_unlock_rejected").Warn("unlock rejected")
		return errors.Wrap(ErrUnlockRejected, err.Error())
	}

	if err := m.state.Remove(LockMarker); err != nil {
		return ioErr(err, "remove lock marker")
	}
	if err := m.state.Remove(ActivityMarker); err != nil {
		return ioErr(err, "remove activity")
	}
	m.log.WithField("event", "session_unlocked").Info("session unlocked")
	return nil
}
