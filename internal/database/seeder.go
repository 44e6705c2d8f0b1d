package database

import (
	"context"
	"fmt"

	"github.com/locvowork/timekeeper/internal/domain"
)

// DataSeeder writes or clears the initial roster in local and remote storage.
type DataSeeder struct {
	repo   domain.StateRepository
	remote domain.DocumentStore
}

// NewDataSeeder creates a seeder. remote may be nil.
func NewDataSeeder(repo domain.StateRepository, remote domain.DocumentStore) *DataSeeder {
	return &DataSeeder{repo: repo, remote: remote}
}

// SeedRoster stores roster with an empty history. When keepHistory is set the
// existing local history is preserved.
func (ds *DataSeeder) SeedRoster(ctx context.Context, roster []domain.Employee, keepHistory bool) (domain.State, error) {
	state := domain.State{Employees: domain.CloneEmployees(roster), History: domain.History{}}
	if keepHistory {
		current, _, err := ds.repo.Load(ctx)
		if err != nil {
			return domain.State{}, fmt.Errorf("load local state: %w", err)
		}
		state.History = current.History
	}

	if err := ds.repo.SaveEmployees(ctx, state.Employees); err != nil {
		return domain.State{}, fmt.Errorf("save roster: %w", err)
	}
	if err := ds.repo.SaveHistory(ctx, state.History); err != nil {
		return domain.State{}, fmt.Errorf("save history: %w", err)
	}

	if ds.remote != nil {
		doc := domain.Document{Employees: state.Employees, History: state.History}
		if err := ds.remote.Write(ctx, doc); err != nil {
			return domain.State{}, &domain.SyncError{Op: "write", Err: err}
		}
	}
	return state, nil
}

// ClearData removes both local keys and, when connected, empties the remote
// document.
func (ds *DataSeeder) ClearData(ctx context.Context) error {
	if err := ds.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear local state: %w", err)
	}
	if ds.remote != nil {
		doc := domain.Document{Employees: []domain.Employee{}, History: domain.History{}}
		if err := ds.remote.Write(ctx, doc); err != nil {
			return &domain.SyncError{Op: "write", Err: err}
		}
	}
	return nil
}
