package database

import (
	"context"
	"path/filepath"
	"testing"

	"now-hiring/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	client, err := Open(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "intake.db")},
	})
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, DialectSQLite, client.Dialect)
	require.NoError(t, client.Ping(context.Background()))

	_, err = client.DB.Exec(`CREATE TABLE t (id TEXT PRIMARY KEY, n INTEGER)`)
	require.NoError(t, err)
	_, err = client.DB.Exec(`INSERT INTO t (id, n) VALUES ($1, $2)`, "a", 7)
	require.NoError(t, err)

	var n int
	require.NoError(t, client.DB.QueryRow(`SELECT n FROM t WHERE id = $1`, "a").Scan(&n))
	assert.Equal(t, 7, n)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestNewPostgres_SetsDialect(t *testing.T) {
	client, err := NewPostgres(config.PostgresConfig{
		Host: "localhost", Port: 5432, User: "u", Database: "d", SSLMode: "disable",
		MaxConnections: 2, MaxIdle: 1,
	})
	require.NoError(t, err)
	defer client.Close()
	assert.Equal(t, DialectPostgres, client.Dialect)
}

func TestRedisClient_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	client := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()))

	mr.Close()
	assert.Error(t, client.Ping(context.Background()))
}
