package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/locvowork/timekeeper/internal/repository/builder"
)

const kvTable = "kv_store"

// KVStore is a string key-value table on top of database/sql.
type KVStore struct {
	db *sql.DB
}

// NewKVStore wraps db. Call EnsureSchema before first use.
func NewKVStore(db *sql.DB) *KVStore {
	return &KVStore{db: db}
}

// EnsureSchema creates the backing table when missing.
func (s *KVStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+kvTable+` (
		kv_key TEXT PRIMARY KEY,
		kv_value TEXT NOT NULL,
		updated_at BIGINT NOT NULL
	)`)
	return err
}

// Get returns the value stored under key and whether it exists.
func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	query, args := builder.NewSQLBuilder().
		Select("kv_value").
		From(kvTable).
		Where("kv_key = ?", key).
		Build()

	var value string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	query, args, err := builder.NewSQLBuilder().
		Insert(kvTable, "kv_key", "kv_value", "updated_at").
		Values(key, value, time.Now().UnixMilli()).
		OnConflictUpdate("kv_key", "kv_value", "updated_at").
		BuildSafe()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

// Delete removes key. Deleting a missing key is not an error.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	query, args := builder.NewSQLBuilder().
		Delete(kvTable).
		Where("kv_key = ?", key).
		Build()
	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}
