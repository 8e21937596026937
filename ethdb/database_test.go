package ethdb_test

import (
	"path/filepath"
	"testing"

	"github.com/PigCharid/go-rlp/ethdb"
	"github.com/PigCharid/go-rlp/ethdb/dbtest"
	"github.com/stretchr/testify/require"
)

func TestMemoryDatabase(t *testing.T) {
	dbtest.TestDatabaseSuite(t, func() ethdb.KeyValueStore {
		return ethdb.NewMemoryDatabase()
	})
}

func TestLevelDatabase(t *testing.T) {
	dbtest.TestDatabaseSuite(t, func() ethdb.KeyValueStore {
		db, err := ethdb.OpenLevelDB(t.TempDir(), 0, 0, false)
		if err != nil {
			t.Fatal(err)
		}
		return db
	})
}

func TestLevelDatabaseReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nodes")

	db, err := ethdb.OpenLevelDB(dir, 0, 0, false)
	require.NoError(t, err)
	require.Equal(t, dir, db.Path())
	require.NoError(t, db.Put([]byte("root"), []byte{0xC0}))
	require.NoError(t, db.Close())

	db, err = ethdb.OpenLevelDB(dir, 0, 0, true)
	require.NoError(t, err)
	defer db.Close()
	val, err := db.Get([]byte("root"))
	require.NoError(t, err)
	require.Equal(t, []byte{0xC0}, val)
}

func TestMemoryDatabaseCopiesValues(t *testing.T) {
	db := ethdb.NewMemoryDatabaseWithCap(64)
	val := []byte{1, 2, 3}
	require.NoError(t, db.Put([]byte("k"), val))
	val[0] = 9

	got, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, got)
	got[1] = 9

	again, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, again)
	require.Equal(t, 1, db.Len())
}
