package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/locvowork/timekeeper/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapKV struct {
	values map[string]string
	getErr error
}

func newMapKV() *mapKV { return &mapKV{values: map[string]string{}} }

func (m *mapKV) Get(ctx context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mapKV) Set(ctx context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func (m *mapKV) Delete(ctx context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func TestStateRepositoryLoadFallback(t *testing.T) {
	fallback := []domain.Employee{{Name: "X", Department: "Construction"}}
	repo := NewStateRepository(newMapKV(), fallback)

	state, found, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, fallback, state.Employees)
	assert.NotNil(t, state.History)
	assert.Empty(t, state.History)
}

func TestStateRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := newMapKV()
	repo := NewStateRepository(kv, nil)

	in := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	employees := []domain.Employee{{Name: "A", Job: "Foreman", Department: "Construction"}}
	history := domain.History{"2024-03-01": {{Name: "A", Department: "Construction", Job: "Foreman", CheckIn: &in}}}

	require.NoError(t, repo.SaveEmployees(ctx, employees))
	require.NoError(t, repo.SaveHistory(ctx, history))
	assert.Contains(t, kv.values, EmployeesKey)
	assert.Contains(t, kv.values, HistoryKey)

	state, found, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, employees, state.Employees)
	require.Len(t, state.History["2024-03-01"], 1)
	assert.True(t, in.Equal(*state.History["2024-03-01"][0].CheckIn))
	assert.Nil(t, state.History["2024-03-01"][0].CheckOut)

	require.NoError(t, repo.Clear(ctx))
	assert.Empty(t, kv.values)
}

func TestStateRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	kv := newMapKV()
	kv.values[EmployeesKey] = "{not json"
	_, _, err := NewStateRepository(kv, nil).Load(ctx)
	assert.Error(t, err)

	failing := newMapKV()
	failing.getErr = errors.New("disk gone")
	_, _, err = NewStateRepository(failing, nil).Load(ctx)
	assert.ErrorIs(t, err, failing.getErr)
}
