package credstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/session"
	"github.com/trezcool/registrar/tests"
)

var (
	admin     = session.Principal{ID: "1", Username: "adminuser", Roles: []string{session.RoleAdmin}}
	adminCred = session.Credential{Username: "adminuser", Secret: "password"}
)

func backends(t *testing.T) map[string]Slots {
	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]Slots{
		"memory": NewMemorySlots(),
		"sqlite": sqlite,
	}
}

func TestStore_roundTrip(t *testing.T) {
	for name, slots := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := New(slots, testutil.NewLogger())

			_, _, ok := store.Load()
			assert.False(t, ok, "empty store")

			require.NoError(t, store.SavePrincipal(admin))
			require.NoError(t, store.SaveCredential(adminCred))

			p, c, ok := store.Load()
			require.True(t, ok)
			assert.Equal(t, admin, p)
			require.NotNil(t, c)
			assert.Equal(t, adminCred, *c)

			// overwrite
			student := session.Principal{ID: "2", Username: "studentuser", Roles: []string{session.RoleStudent}}
			require.NoError(t, store.SavePrincipal(student))
			p, _, _ = store.Load()
			assert.Equal(t, student, p)

			require.NoError(t, store.Clear())
			_, _, ok = store.Load()
			assert.False(t, ok)

			// clearing twice is a no-op
			assert.NoError(t, store.Clear())
		})
	}
}

func TestStore_Load_withoutCredential(t *testing.T) {
	store := New(NewMemorySlots(), testutil.NewLogger())
	require.NoError(t, store.SavePrincipal(admin))

	p, c, ok := store.Load()
	assert.True(t, ok)
	assert.Equal(t, admin, p)
	assert.Nil(t, c)
}

func TestStore_Load_corruption(t *testing.T) {
	tests := []struct {
		name  string
		slots map[string]string
	}{
		{name: "corrupt principal", slots: map[string]string{userKey: "{not json", credentialKey: `{"u":"adminuser","p":"password"}`}},
		{name: "corrupt credential", slots: map[string]string{userKey: `{"id":"1","username":"adminuser","roles":["ROLE_ADMIN"]}`, credentialKey: "[1,2"}},
		{name: "wrong shape", slots: map[string]string{userKey: `"adminuser"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := NewMemorySlots()
			for k, v := range tt.slots {
				require.NoError(t, slots.Set(k, v))
			}
			logger := testutil.NewLogger()
			store := New(slots, logger)

			_, c, ok := store.Load()
			assert.False(t, ok)
			assert.Nil(t, c)

			// self-healing: both slots are gone
			for _, key := range []string{userKey, credentialKey} {
				_, found, err := slots.Get(key)
				require.NoError(t, err)
				assert.False(t, found, key)
			}
			assert.NotEmpty(t, logger.Entries("warn"))
		})
	}
}

func TestSQLiteSlots_persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.db")

	slots, err := OpenSQLite(path)
	require.NoError(t, err)
	store := New(slots, testutil.NewLogger())
	require.NoError(t, store.SavePrincipal(admin))
	require.NoError(t, store.SaveCredential(adminCred))
	require.NoError(t, store.Close())

	// a new process sees the same session
	slots, err = OpenSQLite(path)
	require.NoError(t, err)
	defer func() { _ = slots.Close() }()
	p, c, ok := New(slots, testutil.NewLogger()).Load()
	require.True(t, ok)
	assert.Equal(t, admin, p)
	assert.Equal(t, adminCred, *c)
}

func TestOpen(t *testing.T) {
	t.Run("sqlite", func(t *testing.T) {
		conf := &core.Config{StoragePath: filepath.Join(t.TempDir(), "session.db")}
		store := Open(conf, testutil.NewLogger())
		defer func() { _ = store.Close() }()
		_, isSQLite := store.slots.(*sqliteSlots)
		assert.True(t, isSQLite)
	})

	t.Run("memory fallback", func(t *testing.T) {
		// a regular file where the directory should be
		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, nil, 0o600))

		logger := testutil.NewLogger()
		store := Open(&core.Config{StoragePath: filepath.Join(blocker, "session.db")}, logger)
		_, isMemory := store.slots.(*memorySlots)
		assert.True(t, isMemory)
		assert.Len(t, logger.Entries("warn"), 1)

		require.NoError(t, store.SavePrincipal(admin))
		_, _, ok := store.Load()
		assert.True(t, ok)
	})

	t.Run("no path", func(t *testing.T) {
		store := Open(&core.Config{}, testutil.NewLogger())
		_, isMemory := store.slots.(*memorySlots)
		assert.True(t, isMemory)
	})
}
