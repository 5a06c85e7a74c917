package data

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestOpen_CreatesSchema(t *testing.T) {
	s := setupTestStore(t)

	count, err := s.CountSamples()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestOpen_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(dbPath)
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestOpen_DriverSelection(t *testing.T) {
	s := setupTestStore(t)
	assert.Equal(t, driverSQLite, s.driver)
}

func TestRebind(t *testing.T) {
	q := "INSERT INTO t (a, b) VALUES (?, ?)"

	sqlite := &Store{driver: driverSQLite}
	assert.Equal(t, q, sqlite.rebind(q))

	pg := &Store{driver: driverPostgres}
	assert.Equal(t, "INSERT INTO t (a, b) VALUES ($1, $2)", pg.rebind(q))
}

func TestStore_NotInitialized(t *testing.T) {
	var s *Store
	assert.ErrorIs(t, s.SaveSamples(nil), errStoreNotInitialized)

	_, err := s.GetSamples(0)
	assert.ErrorIs(t, err, errStoreNotInitialized)

	_, err = s.CountSamples()
	assert.ErrorIs(t, err, errStoreNotInitialized)

	assert.NoError(t, s.Close())
}
