package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(t *testing.T) (*Manager, *MemoryStore, *MemoryConfigStore, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	state := NewMemoryStore()
	cfg := &MemoryConfigStore{}
	return NewManager(state, cfg, WithClock(clock.Now)), state, cfg, clock
}

func minutes(n uint64) *uint64 { return &n }

func TestConfig_DefaultCreatedOnFirstAccess(t *testing.T) {
	m, _, store, _ := newTestManager(t)

	cfg, err := m.Config()
	require.NoError(t, err)
	require.True(t, cfg.Enabled())
	assert.Equal(t, DefaultTimeoutMinutes, *cfg.TimeoutMinutes)
	assert.Equal(t, 10*time.Minute, cfg.Timeout())

	saved, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, DefaultTimeoutMinutes, *saved.TimeoutMinutes)
}

func TestShouldLock_AfterTimeout(t *testing.T) {
	m, _, _, clock := newTestManager(t)
	require.NoError(t, m.SetTimeout(minutes(5)))

	should, err := m.ShouldLock()
	require.NoError(t, err)
	assert.False(t, should, "no activity recorded yet")

	require.NoError(t, m.UpdateActivity())
	should, err = m.ShouldLock()
	require.NoError(t, err)
	assert.False(t, should, "immediately after activity")

	clock.Advance(5 * time.Minute)
	should, err = m.ShouldLock()
	require.NoError(t, err)
	assert.False(t, should, "exactly at the timeout is not past it")

	clock.Advance(time.Second)
	should, err = m.ShouldLock()
	require.NoError(t, err)
	assert.True(t, should)

	require.NoError(t, m.UpdateActivity())
	should, err = m.ShouldLock()
	require.NoError(t, err)
	assert.False(t, should, "activity restarts the idle window")
}

func TestShouldLock_Disabled(t *testing.T) {
	m, state, _, clock := newTestManager(t)
	require.NoError(t, m.SetTimeout(nil))

	require.NoError(t, m.UpdateActivity())
	_, ok, _ := state.Stat(ActivityMarker)
	assert.False(t, ok, "activity is not recorded while disabled")

	require.NoError(t, state.Touch(ActivityMarker, clock.Now()))
	clock.Advance(24 * time.Hour)
	should, err := m.ShouldLock()
	require.NoError(t, err)
	assert.False(t, should)
}

func TestLockUnlock(t *testing.T) {
	m, state, _, _ := newTestManager(t)
	assert.Equal(t, Unlocked, m.State())

	require.NoError(t, m.UpdateActivity())
	require.NoError(t, m.Lock())
	assert.Equal(t, Locked, m.State())
	_, ok, _ := state.Stat(ActivityMarker)
	assert.False(t, ok, "lock stops the idle clock")

	err := m.Unlock(func() error { return errors.New("bad password") })
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnlockRejected))
	assert.Equal(t, Locked, m.State())

	assert.Error(t, m.Unlock(nil))
	assert.Equal(t, Locked, m.State())

	require.NoError(t, m.Unlock(func() error { return nil }))
	assert.Equal(t, Unlocked, m.State())
	_, ok, _ = state.Stat(LockMarker)
	assert.False(t, ok)
}

func TestEnforce(t *testing.T) {
	m, _, _, clock := newTestManager(t)
	require.NoError(t, m.SetTimeout(minutes(1)))
	require.NoError(t, m.UpdateActivity())

	st, err := m.Enforce()
	require.NoError(t, err)
	assert.Equal(t, Unlocked, st)

	clock.Advance(2 * time.Minute)
	st, err = m.Enforce()
	require.NoError(t, err)
	assert.Equal(t, Locked, st)

	locked, err := m.IsLocked()
	require.NoError(t, err)
	assert.True(t, locked, "enforce persists the lock")

	st, err = m.Enforce()
	require.NoError(t, err)
	assert.Equal(t, Locked, st)
}

func TestFailClosed(t *testing.T) {
	m, state, cfgStore, _ := newTestManager(t)
	require.NoError(t, m.UpdateActivity())

	state.Err = errors.New("disk on fire")

	locked, err := m.IsLocked()
	assert.True(t, errors.Is(err, ErrSessionIO))
	assert.True(t, locked)
	assert.Equal(t, Locked, m.State())

	should, err := m.ShouldLock()
	assert.Error(t, err)
	assert.True(t, should)

	st, err := m.Enforce()
	assert.Error(t, err)
	assert.Equal(t, Locked, st)

	assert.True(t, errors.Is(m.Lock(), ErrSessionIO))

	state.Err = nil
	cfgStore.Err = errors.New("config unreadable")
	should, err = m.ShouldLock()
	assert.True(t, errors.Is(err, ErrSessionIO))
	assert.True(t, should)
}

func TestFileManager(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	clock := &fakeClock{t: time.Now().Add(-time.Hour).Truncate(time.Second)}
	m := NewFileManager(dir, WithClock(clock.Now))

	cfg, err := m.Config()
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeoutMinutes, *cfg.TimeoutMinutes)
	raw, err := os.ReadFile(filepath.Join(dir, ConfigFile))
	require.NoError(t, err)
	assert.JSONEq(t, `{"timeout_minutes": 10}`, string(raw))

	require.NoError(t, m.UpdateActivity())
	info, err := os.Stat(filepath.Join(dir, string(ActivityMarker)))
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(clock.Now()))

	clock.Advance(11 * time.Minute)
	should, err := m.ShouldLock()
	require.NoError(t, err)
	assert.True(t, should)

	require.NoError(t, m.Lock())
	_, err = os.Stat(filepath.Join(dir, string(LockMarker)))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, string(ActivityMarker)))
	assert.True(t, os.IsNotExist(err))

	// A second manager over the same directory sees the lock.
	other := NewFileManager(dir)
	assert.Equal(t, Locked, other.State())

	require.NoError(t, other.Unlock(func() error { return nil }))
	assert.Equal(t, Unlocked, m.State())

	require.NoError(t, m.SetTimeout(nil))
	raw, err = os.ReadFile(filepath.Join(dir, ConfigFile))
	require.NoError(t, err)
	assert.JSONEq(t, `{"timeout_minutes": null}`, string(raw))
}

func TestFileConfigStore_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("{nope"), 0600))

	m := NewFileManager(dir)
	_, err := m.Config()
	assert.True(t, errors.Is(err, ErrSessionIO))

	should, err := m.ShouldLock()
	assert.Error(t, err)
	assert.True(t, should)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "locked", Locked.String())
	assert.Equal(t, "unlocked", Unlocked.String())
}
