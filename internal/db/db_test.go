package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsRoundTrip(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "nested", "app.db") + "?_pragma=foreign_keys(1)"

	conn, err := Open(ctx, "sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { Close(conn) })

	status, err := MigrationStatus(ctx, conn.DB, "sqlite")
	require.NoError(t, err)
	require.Len(t, status, 2)
	for _, s := range status {
		assert.True(t, s.Applied, s.Path)
	}

	var tables int
	require.NoError(t, conn.GetContext(ctx, &tables,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('life_goals', 'yearly_goals', 'monthly_goals', 'daily_goals')`))
	assert.Equal(t, 4, tables)

	require.NoError(t, MigrateDown(ctx, conn.DB, "sqlite"))
	status, err = MigrationStatus(ctx, conn.DB, "sqlite")
	require.NoError(t, err)
	assert.True(t, status[0].Applied)
	assert.False(t, status[1].Applied)

	require.NoError(t, RunMigrations(ctx, conn.DB, "sqlite"))
	status, err = MigrationStatus(ctx, conn.DB, "sqlite")
	require.NoError(t, err)
	assert.True(t, status[1].Applied)
}

func TestUnknownDriver(t *testing.T) {
	_, err := newProvider(nil, "oracle")
	assert.ErrorContains(t, err, "oracle")
}
