package attendance

import (
	"fmt"
	"sort"
	"strings"

	"github.com/locvowork/timekeeper/internal/domain"
)

// NormalizeEmployee trims the descriptive fields and checks the name.
func NormalizeEmployee(e domain.Employee) (domain.Employee, error) {
	e.Name = strings.TrimSpace(e.Name)
	e.Job = strings.TrimSpace(e.Job)
	e.Department = strings.TrimSpace(e.Department)
	if e.Name == "" {
		return e, domain.NewValidationError("name", "name cannot be empty")
	}
	return e, nil
}

// AddEmployee appends e to the roster. Empty and duplicate names are rejected.
func AddEmployee(roster []domain.Employee, e domain.Employee) ([]domain.Employee, error) {
	e, err := NormalizeEmployee(e)
	if err != nil {
		return nil, err
	}
	if IndexOfEmployee(roster, e.Name) >= 0 {
		return nil, domain.NewValidationError("name", fmt.Sprintf("name %q already exists", e.Name))
	}
	out := append(domain.CloneEmployees(roster), e)
	return out, nil
}

// RenameEmployee replaces the roster entry for oldName with fields and cascades
// the new name, job and department into every history record for oldName. Check
// times and status are preserved. Nothing is returned on error.
func RenameEmployee(roster []domain.Employee, history domain.History, oldName string, fields domain.Employee) ([]domain.Employee, domain.History, error) {
	fields, err := NormalizeEmployee(fields)
	if err != nil {
		return nil, nil, err
	}
	idx := IndexOfEmployee(roster, oldName)
	if idx < 0 {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrEmployeeNotFound, oldName)
	}
	if fields.Name != oldName && IndexOfEmployee(roster, fields.Name) >= 0 {
		return nil, nil, domain.NewValidationError("name", fmt.Sprintf("name %q already exists", fields.Name))
	}

	newRoster := domain.CloneEmployees(roster)
	newRoster[idx] = fields

	newHistory := history.Clone()
	for date, records := range newHistory {
		for i := range records {
			if records[i].Name == oldName {
				records[i].Name = fields.Name
				records[i].Job = fields.Job
				records[i].Department = fields.Department
			}
		}
		newHistory[date] = records
	}
	return newRoster, newHistory, nil
}

// RemoveEmployee drops name from the roster. History is left untouched.
func RemoveEmployee(roster []domain.Employee, name string) ([]domain.Employee, error) {
	idx := IndexOfEmployee(roster, name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmployeeNotFound, name)
	}
	out := make([]domain.Employee, 0, len(roster)-1)
	out = append(out, roster[:idx]...)
	out = append(out, roster[idx+1:]...)
	return out, nil
}

// IndexOfEmployee returns the roster position of name, or -1.
func IndexOfEmployee(roster []domain.Employee, name string) int {
	for i := range roster {
		if roster[i].Name == name {
			return i
		}
	}
	return -1
}

// Departments returns the distinct departments of the roster, sorted.
func Departments(roster []domain.Employee) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range roster {
		if !seen[e.Department] {
			seen[e.Department] = true
			out = append(out, e.Department)
		}
	}
	sort.Strings(out)
	return out
}
