package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, password string, entries ...Entry) *Store {
	t.Helper()
	s, err := Open(password)
	require.NoError(t, err)
	for _, e := range entries {
		s.Add(e)
	}
	t.Cleanup(s.Close)
	return s
}

func threeEntries() []Entry {
	return []Entry{
		{Name: "email", Username: "a@b.com", Password: "xyz"},
		{Name: "GitHub", Username: "octo", Password: "hunter2"},
		{Name: "bank", Username: "me", Password: "1234"},
	}
}

func strPtr(s string) *string { return &s }

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.enc")

	var want []Entry
	for i := 0; i < 25; i++ {
		want = append(want, Entry{
			Name:     fmt.Sprintf("svc-%d", i),
			Username: fmt.Sprintf("user%d", i),
			Password: fmt.Sprintf("p@ss,\"%d\"\n", i),
		})
	}
	s := newStore(t, "master", want...)
	require.NoError(t, s.Save(path))

	fresh := newStore(t, "master")
	require.NoError(t, fresh.Load(path))
	if diff := cmp.Diff(want, fresh.List()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_Scenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "vault.enc")

	s := newStore(t, "Tr0ub4dor&3")
	s.Add(Entry{Name: "email", Username: "a@b.com", Password: "xyz"})
	require.NoError(t, s.Save(path))

	reopened := newStore(t, "Tr0ub4dor&3")
	require.NoError(t, reopened.Load(path))
	assert.Equal(t, []Entry{{Name: "email", Username: "a@b.com", Password: "xyz"}}, reopened.List())

	wrong := newStore(t, "wrong")
	err := wrong.Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVaultOpen))
	assert.Zero(t, wrong.Len())
}

func TestStore_LoadMissingFileIsNoop(t *testing.T) {
	s := newStore(t, "pw", Entry{Name: "keep"})
	require.NoError(t, s.Load(filepath.Join(t.TempDir(), "absent.enc")))
	assert.Equal(t, 1, s.Len())
}

func TestStore_FailedLoadLeavesStoreUntouched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vault.enc")
	require.NoError(t, newStore(t, "right", threeEntries()...).Save(path))

	s := newStore(t, "wrong", Entry{Name: "mine"})
	err := s.Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVaultOpen))
	assert.Equal(t, []Entry{{Name: "mine"}}, s.List())

	corrupt := filepath.Join(dir, "corrupt.enc")
	require.NoError(t, os.WriteFile(corrupt, []byte("short"), 0600))
	err = s.Load(corrupt)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVaultOpen))
	assert.True(t, errors.Is(err, ErrMalformedVault))
	assert.Equal(t, []Entry{{Name: "mine"}}, s.List())

	var openErr *OpenError
	require.True(t, errors.As(err, &openErr))
	assert.Equal(t, corrupt, openErr.Path)
}

func TestStore_SaveProducesDifferentCiphertext(t *testing.T) {
	dir := t.TempDir()
	s := newStore(t, "pw", threeEntries()...)

	p1 := filepath.Join(dir, "a.enc")
	p2 := filepath.Join(dir, "b.enc")
	require.NoError(t, s.Save(p1))
	require.NoError(t, s.Save(p2))

	b1, err := os.ReadFile(p1)
	require.NoError(t, err)
	b2, err := os.ReadFile(p2)
	require.NoError(t, err)
	assert.NotEqual(t, b1, b2)
	assert.NotContains(t, string(b1), "hunter2")
}

func TestStore_EmptyVaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.enc")
	require.NoError(t, newStore(t, "pw").Save(path))

	s := newStore(t, "pw", Entry{Name: "stale"})
	require.NoError(t, s.Load(path))
	assert.Zero(t, s.Len())
	assert.NotNil(t, s.List())
}

func TestStore_Create(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "vault.enc")
	s := newStore(t, "pw")

	require.NoError(t, s.Create(path))
	err := s.Create(path)
	assert.True(t, errors.Is(err, ErrVaultExists))
}

func TestStore_ChangePassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.enc")
	s := newStore(t, "old", threeEntries()...)
	require.NoError(t, s.Save(path))

	require.NoError(t, s.ChangePassword("new"))
	require.NoError(t, s.Save(path))

	assert.Error(t, newStore(t, "old").Load(path))
	fresh := newStore(t, "new")
	require.NoError(t, fresh.Load(path))
	assert.Equal(t, threeEntries(), fresh.List())
}

func TestStore_Closed(t *testing.T) {
	s, err := Open("pw")
	require.NoError(t, err)
	s.Close()

	assert.Error(t, s.Save(filepath.Join(t.TempDir(), "vault.enc")))
	assert.Error(t, s.ChangePassword("x"))
}

func TestStore_Remove(t *testing.T) {
	s := newStore(t, "pw", threeEntries()...)

	removed, ok := s.Remove(0)
	require.True(t, ok)
	assert.Equal(t, "email", removed.Name)

	got, ok := s.Get(0)
	require.True(t, ok)
	assert.Equal(t, "GitHub", got.Name, "later entries shift down by one")

	_, ok = s.Remove(5)
	assert.False(t, ok)
	_, ok = s.Remove(-1)
	assert.False(t, ok)
	assert.Equal(t, 2, s.Len())

	_, ok = s.Remove(s.Len() - 1)
	require.True(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestStore_Edit(t *testing.T) {
	s := newStore(t, "pw", threeEntries()...)

	require.NoError(t, s.Edit(1, nil, strPtr("new-pass")))
	got, _ := s.Get(1)
	assert.Equal(t, Entry{Name: "GitHub", Username: "octo", Password: "new-pass"}, got)

	require.NoError(t, s.Edit(1, strPtr("cat"), nil))
	got, _ = s.Get(1)
	assert.Equal(t, Entry{Name: "GitHub", Username: "cat", Password: "new-pass"}, got)

	require.NoError(t, s.Edit(2, nil, nil))
	got, _ = s.Get(2)
	assert.Equal(t, threeEntries()[2], got)

	err := s.Edit(3, strPtr("x"), nil)
	assert.True(t, errors.Is(err, ErrEntryNotFound))
}

func TestStore_ListIsACopy(t *testing.T) {
	s := newStore(t, "pw", threeEntries()...)
	list := s.List()
	list[0].Password = "changed"

	got, _ := s.Get(0)
	assert.Equal(t, "xyz", got.Password)
}

func TestStore_FindByName(t *testing.T) {
	s := newStore(t, "pw", threeEntries()...)
	s.Add(Entry{Name: "email", Username: "second"})

	m, ok := s.FindByName("email")
	require.True(t, ok)
	assert.Equal(t, 0, m.Index)
	assert.Equal(t, "a@b.com", m.Entry.Username)

	_, ok = s.FindByName("github")
	assert.False(t, ok, "exact match is case-sensitive")
}

func TestStore_Search(t *testing.T) {
	s := newStore(t, "pw", threeEntries()...)
	s.Add(Entry{Name: "Work Email"})

	matches := s.Search("EMAIL")
	require.Len(t, matches, 2)
	assert.Equal(t, 0, matches[0].Index)
	assert.Equal(t, 3, matches[1].Index)

	assert.Len(t, s.Search(""), 4)
	assert.Empty(t, s.Search("nothing"))
}

func TestStore_Resolve(t *testing.T) {
	s := newStore(t, "pw", threeEntries()...)
	s.Add(Entry{Name: "7"})

	tests := []struct {
		input string
		want  int
	}{
		{"2", 1},
		{"1", 0},
		{"4", 3},
		{"bank", 2},
		{"7", 3}, // out-of-range number falls back to name
		{"+2", 1},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := s.Resolve(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"nonexistent-name", "0", "5", "-1", "", "+", "++2", " 2"} {
		_, err := s.Resolve(bad)
		assert.True(t, errors.Is(err, ErrEntryNotFound), bad)
	}
}

func TestStore_LoadIgnoresTrailingBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.enc")
	require.NoError(t, newStore(t, "master", threeEntries()...).Save(path))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	require.NoError(t, err)
	_, err = f.Write([]byte{0xde, 0xad})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	log, hook := test.NewNullLogger()
	s, err := Open("master", WithLogger(log))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Load(path))
	assert.Equal(t, threeEntries(), s.List())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, 2, entry.Data["trailing"])

	require.NoError(t, s.Save(path))
	env, ok, err := ReadEnvelope(path)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Zero(t, env.Trailing)
}
