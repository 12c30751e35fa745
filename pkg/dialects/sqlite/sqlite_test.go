package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmenegatti/dsprovision/pkg/dialects"
	"github.com/chmenegatti/dsprovision/pkg/dialects/common"
	"github.com/chmenegatti/dsprovision/pkg/dialects/sqlite"
)

func TestDSN(t *testing.T) {
	c := sqlite.Connector{}
	dsn, err := c.DSN(common.PoolConfig{JDBCURL: " jdbc:sqlite::memory: "})
	require.NoError(t, err)
	assert.Equal(t, ":memory:", dsn)

	dsn, err = c.DSN(common.PoolConfig{JDBCURL: "jdbc:sqlite:/var/lib/nacos/derby.db"})
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/nacos/derby.db", dsn)

	_, err = c.DSN(common.PoolConfig{JDBCURL: "jdbc:sqlite:"})
	assert.Error(t, err)
	_, err = c.DSN(common.PoolConfig{JDBCURL: "jdbc:h2:mem:test"})
	assert.Error(t, err)
}

func TestOpenWithGeneratedDSN(t *testing.T) {
	c, ok := dialects.Lookup(dialects.SQLite().DriverClassName())
	require.True(t, ok)

	dsn, err := c.DSN(common.PoolConfig{JDBCURL: "jdbc:sqlite:" + filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)

	db, err := sql.Open(c.DriverName(), dsn)
	require.NoError(t, err)
	defer db.Close()

	var one int
	require.NoError(t, db.QueryRowContext(context.Background(), "/* ping */ SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)
}
