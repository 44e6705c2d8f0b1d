package builder

import (
	"testing"
)

func TestSQLBuilder(t *testing.T) {
	t.Run("Select", func(t *testing.T) {
		b := NewSQLBuilder()
		query, args := b.Select("key", "value").From("kv_store").Where("key = ?", "a").Build()
		expected := "SELECT key, value FROM kv_store WHERE key = $1"
		if query != expected {
			t.Errorf("expected %s, got %s", expected, query)
		}
		if len(args) != 1 || args[0] != "a" {
			t.Errorf("expected args [a], got %v", args)
		}
	})

	t.Run("Insert", func(t *testing.T) {
		b := NewSQLBuilder()
		query, args := b.Insert("kv_store", "key", "value").Values("a", "b").Build()
		expected := "INSERT INTO kv_store (key, value) VALUES ($1, $2)"
		if query != expected {
			t.Errorf("expected %s, got %s", expected, query)
		}
		if len(args) != 2 || args[0] != "a" || args[1] != "b" {
			t.Errorf("expected args [a b], got %v", args)
		}
	})

	t.Run("Upsert", func(t *testing.T) {
		b := NewSQLBuilder()
		query, args := b.Insert("kv_store", "key", "value", "updated_at").
			Values("a", "b", 1).
			OnConflictUpdate("key", "value", "updated_at").
			Build()
		expected := "INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, $3) " +
			"ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at"
		if query != expected {
			t.Errorf("expected %s, got %s", expected, query)
		}
		if len(args) != 3 {
			t.Errorf("expected 3 args, got %v", args)
		}
	})

	t.Run("Update", func(t *testing.T) {
		b := NewSQLBuilder()
		query, args := b.Update("kv_store").Set("value", "x").Where("key = ?", "a").Build()
		expected := "UPDATE kv_store SET value = $1 WHERE key = $2"
		if query != expected {
			t.Errorf("expected %s, got %s", expected, query)
		}
		if len(args) != 2 || args[0] != "x" || args[1] != "a" {
			t.Errorf("expected args [x a], got %v", args)
		}
	})

	t.Run("Delete with multiple conditions", func(t *testing.T) {
		b := NewSQLBuilder()
		query, args := b.Delete("kv_store").Where("key = ?", "a").Where("value <> ?", "").Build()
		expected := "DELETE FROM kv_store WHERE key = $1 AND value <> $2"
		if query != expected {
			t.Errorf("expected %s, got %s", expected, query)
		}
		if len(args) != 2 {
			t.Errorf("expected 2 args, got %v", args)
		}
	})

	t.Run("Order limit offset", func(t *testing.T) {
		b := NewSQLBuilder()
		query, _ := b.Select("key").From("kv_store").OrderBy("key ASC").Limit(10).Offset(20).Build()
		expected := "SELECT key FROM kv_store ORDER BY key ASC LIMIT 10 OFFSET 20"
		if query != expected {
			t.Errorf("expected %s, got %s", expected, query)
		}
	})
}

func TestSQLBuilderBuildSafe(t *testing.T) {
	t.Run("matching placeholders", func(t *testing.T) {
		_, _, err := NewSQLBuilder().Select("key").From("kv_store").Where("key = ?", "a").BuildSafe()
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("missing argument", func(t *testing.T) {
		_, _, err := NewSQLBuilder().Select("key").From("kv_store").Where("key = ? OR key = ?", "a").BuildSafe()
		if err == nil {
			t.Error("expected placeholder mismatch error")
		}
	})
}
