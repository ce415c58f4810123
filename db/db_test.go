package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDatabaseCreatesTables(t *testing.T) {
	ctx := context.Background()
	conn, err := InitDatabase(ctx, DriverSQLite, filepath.Join(t.TempDir(), "afya.db"))
	require.NoError(t, err)
	defer conn.Close()

	for _, table := range []string{"hospitals", "accounts", "testimonials", "inquiries"} {
		var count int
		err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count)
		require.NoError(t, err, table)
		assert.Zero(t, count, table)
	}
}

func TestInitDatabaseRejectsUnknownDriver(t *testing.T) {
	_, err := InitDatabase(context.Background(), "oracle", "whatever")
	assert.Error(t, err)
}

func TestSeedOnlyPopulatesEmptyStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "afya.db")

	conn, err := InitDatabase(ctx, DriverSQLite, path)
	require.NoError(t, err)

	inserted, err := Seed(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	inserted, err = Seed(ctx, conn)
	require.NoError(t, err)
	assert.Zero(t, inserted)
	require.NoError(t, conn.Close())

	// restarting against the same file must not duplicate the seed rows
	conn, err = InitDatabase(ctx, DriverSQLite, path)
	require.NoError(t, err)
	defer conn.Close()

	inserted, err = Seed(ctx, conn)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	var count int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM hospitals").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestSeedSkipsNonEmptyStore(t *testing.T) {
	ctx := context.Background()
	conn, err := InitDatabase(ctx, DriverSQLite, filepath.Join(t.TempDir(), "afya.db"))
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.ExecContext(ctx, "INSERT INTO hospitals (name) VALUES ($1)", "Coast General")
	require.NoError(t, err)

	inserted, err := Seed(ctx, conn)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	var count int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM hospitals").Scan(&count))
	assert.Equal(t, 1, count)
}
