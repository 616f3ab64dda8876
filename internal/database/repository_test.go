package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUserStore_Namespacing(t *testing.T) {
	db := createTestDB(t)

	alice := NewUserStore(db, "alice")
	bob := NewUserStore(db, "bob")

	require.True(t, alice.Set(KeyTheme, "light"))
	require.True(t, bob.Set(KeyTheme, "dark"))

	value, ok := alice.Get(KeyTheme)
	require.True(t, ok)
	assert.Equal(t, "light", value)

	value, ok = bob.Get(KeyTheme)
	require.True(t, ok)
	assert.Equal(t, "dark", value)
}

func TestUserStore_GetMissingKey(t *testing.T) {
	db := createTestDB(t)
	store := NewUserStore(db, "alice")

	_, ok := store.Get("nonexistent")
	assert.False(t, ok)
}

func TestUserStore_RemoveIsIdempotent(t *testing.T) {
	db := createTestDB(t)
	store := NewUserStore(db, "alice")

	require.True(t, store.Set(KeyHistory, "{}"))
	assert.True(t, store.Remove(KeyHistory))
	assert.True(t, store.Remove(KeyHistory))

	_, ok := store.Get(KeyHistory)
	assert.False(t, ok)
}

func TestUserStore_EmptyUserFailsSoft(t *testing.T) {
	db := createTestDB(t)
	store := NewUserStore(db, "")

	assert.False(t, store.Set(KeyTheme, "dark"))
	_, ok := store.Get(KeyTheme)
	assert.False(t, ok)
	assert.False(t, store.Remove(KeyTheme))
}

func TestUserStore_FailSoftOnClosedDB(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	store := NewUserStore(db, "alice")
	require.NoError(t, db.Close())

	// Ошибки хранилища не роняют вызывающего
	assert.False(t, store.Set(KeyTheme, "dark"))
	_, ok := store.Get(KeyTheme)
	assert.False(t, ok)
	assert.False(t, store.Remove(KeyTheme))
	assert.Empty(t, store.Keys())
}

func TestUserStore_KeysStripPrefix(t *testing.T) {
	db := createTestDB(t)
	store := NewUserStore(db, "alice")

	require.True(t, store.Set(KeyHistory, "{}"))
	require.True(t, store.Set(KeyStartDate, "2026-01-01"))
	require.True(t, NewUserStore(db, "bob").Set(KeyHistory, "{}"))

	keys := store.Keys()
	assert.ElementsMatch(t, []string{KeyHistory, KeyStartDate}, keys)
}

func TestCurrentUser_SessionPointer(t *testing.T) {
	db := createTestDB(t)

	_, ok := db.CurrentUser()
	assert.False(t, ok)

	require.True(t, db.SetCurrentUser("alice"))
	user, ok := db.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "alice", user)

	// Сброс сессии не трогает данные пользователя
	store := NewUserStore(db, "alice")
	require.True(t, store.Set(KeyHistory, `{"2026-01-15":{"habits":{},"notes":""}}`))
	require.True(t, db.ClearCurrentUser())

	_, ok = db.CurrentUser()
	assert.False(t, ok)
	value, ok := store.Get(KeyHistory)
	require.True(t, ok)
	assert.NotEmpty(t, value)
}
