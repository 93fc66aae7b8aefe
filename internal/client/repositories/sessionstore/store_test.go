package sessionstore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fieldsync/mobilecore/internal/client/models"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func testIdentity() models.Identity {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return models.Identity{
		ID:          "usr_42",
		Email:       "ada@example.com",
		DisplayName: "Ada",
		IsAnonymous: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func testCredential() models.Credential {
	return models.Credential{
		AccessToken: "tok-1",
		ExpiresAt:   time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestStore_SaveAndReadBack(t *testing.T) {
	db := setupDB(t)
	store := NewStore(db)
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, testIdentity(), testCredential(), false))

	cred, err := store.Credential(ctx)
	require.NoError(t, err)
	require.Equal(t, testCredential(), *cred)

	ident, err := store.Identity(ctx)
	require.NoError(t, err)
	require.Equal(t, testIdentity(), *ident)

	anon, err := store.IsAnonymous(ctx)
	require.NoError(t, err)
	require.False(t, anon)
}

func TestStore_EmptyReadsAsNil(t *testing.T) {
	db := setupDB(t)
	store := NewStore(db)
	ctx := context.Background()

	cred, err := store.Credential(ctx)
	require.NoError(t, err)
	require.Nil(t, cred)

	ident, err := store.Identity(ctx)
	require.NoError(t, err)
	require.Nil(t, ident)

	anon, err := store.IsAnonymous(ctx)
	require.NoError(t, err)
	require.False(t, anon)
}

func TestStore_SaveCredential_ReplacesOnlyCredential(t *testing.T) {
	db := setupDB(t)
	store := NewStore(db)
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, testIdentity(), testCredential(), true))

	next := models.Credential{
		AccessToken: "tok-2",
		ExpiresAt:   time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SaveCredential(ctx, next))

	cred, err := store.Credential(ctx)
	require.NoError(t, err)
	require.Equal(t, next, *cred)

	ident, err := store.Identity(ctx)
	require.NoError(t, err)
	require.Equal(t, testIdentity(), *ident)

	anon, err := store.IsAnonymous(ctx)
	require.NoError(t, err)
	require.True(t, anon)
}

func TestStore_Clear_RemovesTriple(t *testing.T) {
	db := setupDB(t)
	store := NewStore(db)
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, testIdentity(), testCredential(), true))
	require.NoError(t, store.Clear(ctx))

	cred, err := store.Credential(ctx)
	require.NoError(t, err)
	require.Nil(t, cred)

	ident, err := store.Identity(ctx)
	require.NoError(t, err)
	require.Nil(t, ident)

	anon, err := store.IsAnonymous(ctx)
	require.NoError(t, err)
	require.False(t, anon)
}

func TestStore_UnsupportedRecordVersion(t *testing.T) {
	db := setupDB(t)
	store := NewStore(db)
	ctx := context.Background()

	kv := NewSQLiteKV(db)
	require.NoError(t, kv.Set(ctx, keyCredential, []byte(`{"v":99,"access_token":"x"}`)))

	_, err := store.Credential(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "version 99")
}

func TestSQLiteKV_MultiRemove_NoKeysIsNoop(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, NewSQLiteKV(db).MultiRemove(context.Background()))
}

func TestSQLiteKV_SetOverwrites(t *testing.T) {
	db := setupDB(t)
	kv := NewSQLiteKV(db)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", []byte("a")))
	require.NoError(t, kv.Set(ctx, "k", []byte("b")))

	v, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("b"), v)
}
