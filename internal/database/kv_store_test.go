package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKV(t *testing.T) *KVStore {
	t.Helper()
	ctx := context.Background()
	db, err := NewSQLDB(ctx, Config{Driver: DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	kv := NewKVStore(db)
	require.NoError(t, kv.EnsureSchema(ctx))
	return kv
}

func TestKVStore(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)

	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "k", "v1"))
	require.NoError(t, kv.Set(ctx, "k", "v2"))

	v, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)

	require.NoError(t, kv.Delete(ctx, "k"))
	require.NoError(t, kv.Delete(ctx, "k"))
	_, ok, err = kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfigDSN(t *testing.T) {
	_, err := Config{Driver: "mysql"}.dsn()
	assert.Error(t, err)

	_, err = Config{Driver: DriverSQLite}.dsn()
	assert.Error(t, err)

	dsn, err := Config{Driver: DriverPostgres, Host: "db", Port: 5432, User: "u", Password: "p", DBName: "tk", SSLMode: "disable"}.dsn()
	require.NoError(t, err)
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=tk sslmode=disable", dsn)
}

func TestDefaultRoster(t *testing.T) {
	roster := DefaultRoster()
	require.NotEmpty(t, roster)
	seen := map[string]bool{}
	for _, e := range roster {
		assert.NotEmpty(t, e.Name)
		assert.False(t, seen[e.Name], "duplicate %s", e.Name)
		seen[e.Name] = true
	}
	assert.Equal(t, "Construction", roster[0].Department)
}
