package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	t.Parallel()
	s := newSQLiteStore(t)

	require.NoError(t, s.Put(BucketUsers, "alice@example.com", testRecord{Name: "Alice"}))

	var got testRecord
	require.NoError(t, s.Get(BucketUsers, "alice@example.com", &got))
	require.Equal(t, "Alice", got.Name)

	// Upsert overwrites.
	require.NoError(t, s.Put(BucketUsers, "alice@example.com", testRecord{Name: "Alicia"}))
	require.NoError(t, s.Get(BucketUsers, "alice@example.com", &got))
	require.Equal(t, "Alicia", got.Name)
}

func TestSQLiteStoreKeyNotFound(t *testing.T) {
	t.Parallel()
	s := newSQLiteStore(t)

	var got testRecord
	require.ErrorIs(t, s.Get(BucketUsers, "nobody@example.com", &got), ErrKeyNotFound)
}

func TestSQLiteStoreDelete(t *testing.T) {
	t.Parallel()
	s := newSQLiteStore(t)

	require.NoError(t, s.Put(BucketReports, "alice@example.com", testRecord{Name: "r1"}))
	require.NoError(t, s.Delete(BucketReports, "alice@example.com"))

	var got testRecord
	require.ErrorIs(t, s.Get(BucketReports, "alice@example.com", &got), ErrKeyNotFound)

	// Deleting an absent key is not an error.
	require.NoError(t, s.Delete(BucketReports, "alice@example.com"))
}
