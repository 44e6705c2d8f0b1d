// Package attendance derives per-day attendance views from the roster and the
// stored history, and holds the field-level record mutators.
package attendance

import "github.com/locvowork/timekeeper/internal/domain"

// Reconcile returns the effective attendance list for date.
//
// Records already stored for the date keep their order; roster employees with
// no record get an empty one appended in roster order; existing records take
// the roster's current department and job; records for names no longer on the
// roster are dropped. The inputs are not modified.
func Reconcile(roster []domain.Employee, history domain.History, date string) []domain.AttendanceRecord {
	records := Materialize(roster, history, date)

	names := rosterNames(roster)
	out := records[:0]
	for _, r := range records {
		if names[r.Name] {
			out = append(out, r)
		}
	}
	return out
}

// Materialize is Reconcile without dropping records of removed employees. It is
// the list stored back into history when a day is edited, so past attendance of
// removed employees survives.
func Materialize(roster []domain.Employee, history domain.History, date string) []domain.AttendanceRecord {
	records := domain.CloneRecords(history[date])
	if records == nil {
		records = []domain.AttendanceRecord{}
	}

	for _, emp := range roster {
		if emp.Name == "" {
			continue
		}
		idx := indexOf(records, emp.Name)
		if idx < 0 {
			records = append(records, NewRecord(emp))
			continue
		}
		records[idx].Department = emp.Department
		records[idx].Job = emp.Job
	}
	return records
}

// NewRecord synthesizes an empty record for emp.
func NewRecord(emp domain.Employee) domain.AttendanceRecord {
	return domain.AttendanceRecord{
		Name:       emp.Name,
		Department: emp.Department,
		Job:        emp.Job,
	}
}

// Find returns the first record for name, or nil.
func Find(records []domain.AttendanceRecord, name string) *domain.AttendanceRecord {
	if idx := indexOf(records, name); idx >= 0 {
		return &records[idx]
	}
	return nil
}

func indexOf(records []domain.AttendanceRecord, name string) int {
	for i := range records {
		if records[i].Name == name {
			return i
		}
	}
	return -1
}

func rosterNames(roster []domain.Employee) map[string]bool {
	names := make(map[string]bool, len(roster))
	for _, emp := range roster {
		if emp.Name != "" {
			names[emp.Name] = true
		}
	}
	return names
}
