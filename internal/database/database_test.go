package database

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndMigrate(t *testing.T) {
	conn, err := Open(Config{Path: filepath.Join(t.TempDir(), "nested", "atlas.db")})
	require.NoError(t, err)
	defer conn.Close()

	m := NewMigrationManager(conn, nil)
	require.NoError(t, m.RunMigrations())
	// second run is a no-op
	require.NoError(t, m.RunMigrations())

	applied, err := m.GetAppliedMigrations()
	require.NoError(t, err)
	assert.True(t, applied[1])
	assert.True(t, applied[2])

	var n int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM region_records").Scan(&n))
	assert.Zero(t, n)
}

func TestLoadMigrationsSkipsBadNames(t *testing.T) {
	source := fstest.MapFS{
		"m/002_b.sql": {Data: []byte("CREATE TABLE b (id INTEGER)")},
		"m/001_a.sql": {Data: []byte("CREATE TABLE a (id INTEGER)")},
		"m/notes.txt": {Data: []byte("ignored")},
		"m/bad_x.sql": {Data: []byte("ignored")},
	}
	m := NewMigrationManagerFS(nil, source, "m", nil)

	migrations, err := m.LoadMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "002_b", migrations[1].Name)
}

func TestTransactionRollsBack(t *testing.T) {
	conn, err := Open(Config{Path: filepath.Join(t.TempDir(), "tx.db")})
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Exec("CREATE TABLE t (v INTEGER)")
	require.NoError(t, err)

	err = Transaction(conn, func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO t (v) VALUES (1)"); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	var n int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM t").Scan(&n))
	assert.Zero(t, n)
}

func TestInitKeepsFirstFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := Init(Config{Path: filepath.Join(blocker, "sub", "atlas.db")}, nil)
	require.Error(t, err)
	assert.Nil(t, GetDB())

	again := Init(Config{Path: filepath.Join(dir, "atlas.db")}, nil)
	assert.Equal(t, err, again)
	assert.Nil(t, GetDB())
}
