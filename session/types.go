package session

import (
	"time"

	"github.com/pkg/errors"
)

// Marker names a state flag kept by a StateStore.
type Marker string

const (
	LockMarker     Marker = "session.lock"
	ActivityMarker Marker = "activity.log"

	ConfigFile = "auto_lock_config.json"

	DefaultTimeoutMinutes uint64 = 10
)

var (
	ErrSessionIO      = errors.New("session: state i/o failed")
	ErrLocked         = errors.New("session: locked")
	ErrUnlockRejected = errors.New("session: unlock rejected")
)

type State int

const (
	Unlocked State = iota
	Locked
)

func (s State) String() string {
	if s == Locked {
		return "locked"
	}
	return "unlocked"
}

// StateStore reads and writes the two session markers. Only existence and
// modification time carry meaning.
type StateStore interface {
	// Stat reports whether m exists and when it was last touched.
	Stat(m Marker) (modTime time.Time, exists bool, err error)
	// Touch creates m or sets its modification time to at.
	Touch(m Marker, at time.Time) error
	// Remove deletes m. Removing an absent marker is not an error.
	Remove(m Marker) error
}

// ConfigStore persists the auto-lock configuration record.
type ConfigStore interface {
	// Load returns the stored config, or ok == false when none exists.
	Load() (cfg *Config, ok bool, err error)
	Save(cfg *Config) error
}

// Config is the auto-lock configuration. A nil TimeoutMinutes disables
// auto-lock.
type Config struct {
	TimeoutMinutes *uint64 `json:"timeout_minutes"`
}

func DefaultConfig() *Config {
	t := DefaultTimeoutMinutes
	return &Config{TimeoutMinutes: &t}
}

func (c *Config) Enabled() bool { return c != nil && c.TimeoutMinutes != nil }

// Timeout returns the idle window, or zero when auto-lock is disabled.
func (c *Config) Timeout() time.Duration {
	if !c.Enabled() {
		return 0
	}
	return time.Duration(*c.TimeoutMinutes) * time.Minute
}
