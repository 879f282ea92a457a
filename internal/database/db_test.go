package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("postgres", "whatever")
	assert.Error(t, err)
}

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db, DriverSQLite))
	require.NoError(t, Migrate(ctx, db, DriverSQLite))

	var n int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('venues', 'artists', 'shows')`).Scan(&n))
	assert.Equal(t, 3, n)
}

func TestSQLiteLowerFoldsUnicode(t *testing.T) {
	db, err := Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	var got string
	require.NoError(t, db.QueryRow(`SELECT LOWER('École ÅLAND')`).Scan(&got))
	assert.Equal(t, "école åland", got)
}

func TestMySQLDSN(t *testing.T) {
	assert.Equal(t, "root@tcp(db:3306)/fyyur?charset=utf8mb4&clientFoundRows=true",
		MySQLDSN("root", "", "db", "3306", "fyyur"))
	assert.Equal(t, "u:p@tcp(h:1)/n?charset=utf8mb4&clientFoundRows=true",
		MySQLDSN("u", "p", "h", "1", "n"))
}
