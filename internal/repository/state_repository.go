package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/locvowork/timekeeper/internal/domain"
)

const (
	storageKey   = "timekeeper_attendance_system_v1"
	EmployeesKey = storageKey + "_employees_v2"
	HistoryKey   = storageKey + "_history_v2"
)

type stateRepository struct {
	kv       domain.KeyValueStore
	fallback []domain.Employee
}

// NewStateRepository stores the roster and history as two JSON values in kv.
// fallback is returned as the roster when none has been stored yet.
func NewStateRepository(kv domain.KeyValueStore, fallback []domain.Employee) domain.StateRepository {
	return &stateRepository{kv: kv, fallback: fallback}
}

// Load reads both keys. found reports whether a stored roster existed.
func (r *stateRepository) Load(ctx context.Context) (domain.State, bool, error) {
	state := domain.State{
		Employees: domain.CloneEmployees(r.fallback),
		History:   domain.History{},
	}
	if state.Employees == nil {
		state.Employees = []domain.Employee{}
	}

	rawEmployees, found, err := r.kv.Get(ctx, EmployeesKey)
	if err != nil {
		return domain.State{}, false, fmt.Errorf("read %s: %w", EmployeesKey, err)
	}
	if found {
		var employees []domain.Employee
		if err := json.Unmarshal([]byte(rawEmployees), &employees); err != nil {
			return domain.State{}, false, fmt.Errorf("decode %s: %w", EmployeesKey, err)
		}
		if employees == nil {
			employees = []domain.Employee{}
		}
		state.Employees = employees
	}

	rawHistory, ok, err := r.kv.Get(ctx, HistoryKey)
	if err != nil {
		return domain.State{}, false, fmt.Errorf("read %s: %w", HistoryKey, err)
	}
	if ok {
		var history domain.History
		if err := json.Unmarshal([]byte(rawHistory), &history); err != nil {
			return domain.State{}, false, fmt.Errorf("decode %s: %w", HistoryKey, err)
		}
		if history != nil {
			state.History = history
		}
	}
	return state, found, nil
}

func (r *stateRepository) SaveEmployees(ctx context.Context, employees []domain.Employee) error {
	if employees == nil {
		employees = []domain.Employee{}
	}
	b, err := json.Marshal(employees)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, EmployeesKey, string(b))
}

func (r *stateRepository) SaveHistory(ctx context.Context, history domain.History) error {
	if history == nil {
		history = domain.History{}
	}
	b, err := json.Marshal(history)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, HistoryKey, string(b))
}

func (r *stateRepository) Clear(ctx context.Context) error {
	if err := r.kv.Delete(ctx, EmployeesKey); err != nil {
		return err
	}
	return r.kv.Delete(ctx, HistoryKey)
}
