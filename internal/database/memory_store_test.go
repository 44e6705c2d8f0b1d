package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/locvowork/timekeeper/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan domain.Snapshot) domain.Snapshot {
	t.Helper()
	select {
	case snap := <-ch:
		return snap
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
		return domain.Snapshot{}
	}
}

func TestMemoryStoreSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := NewMemoryStore()

	_, err := store.Read(ctx)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

	ch, unsubscribe, err := store.Subscribe(ctx)
	require.NoError(t, err)
	defer unsubscribe()

	first := receive(t, ch)
	assert.False(t, first.Exists)

	doc := domain.Document{Employees: []domain.Employee{{Name: "A"}}}
	require.NoError(t, store.Write(ctx, doc))

	echo := receive(t, ch)
	require.True(t, echo.Exists)
	assert.Equal(t, "A", echo.Document.Employees[0].Name)
	assert.NotNil(t, echo.Document.History)
	assert.NotEmpty(t, echo.Document.LastUpdated)

	read, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc.Employees, read.Employees)
}

func TestMemoryStoreFailNextWrite(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	boom := errors.New("offline")

	store.FailNextWrite(boom)
	assert.ErrorIs(t, store.Write(ctx, domain.Document{}), boom)
	assert.NoError(t, store.Write(ctx, domain.Document{}))
	assert.Equal(t, 2, store.Writes())
}

func TestMemoryStoreUnsubscribeClosesChannel(t *testing.T) {
	store := NewMemoryStore()
	ch, unsubscribe, err := store.Subscribe(context.Background())
	require.NoError(t, err)

	receive(t, ch)
	unsubscribe()
	unsubscribe()

	_, open := <-ch
	assert.False(t, open)
}
