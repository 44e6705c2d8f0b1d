package domain

import "time"

// ==================== ROSTER ====================

// Employee is a roster entry. Name is the identity and the join key for every
// attendance lookup.
type Employee struct {
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// ==================== ATTENDANCE ====================

// AttendanceRecord is one employee's attendance for one day.
// Status and CheckIn are mutually exclusive; use the attendance package
// mutators instead of assigning fields directly.
type AttendanceRecord struct {
	Name       string     `json:"name"`
	Department string     `json:"department"`
	Job        string     `json:"job"`
	CheckIn    *time.Time `json:"checkIn"`
	CheckOut   *time.Time `json:"checkOut"`
	Status     *string    `json:"status,omitempty"`
}

// HasStatus reports whether a non-empty leave/absence status is set.
func (r AttendanceRecord) HasStatus() bool {
	return r.Status != nil && *r.Status != ""
}

// StatusText returns the status label or "" when none is set.
func (r AttendanceRecord) StatusText() string {
	if r.Status == nil {
		return ""
	}
	return *r.Status
}

// History maps an ISO date (yyyy-MM-dd) to that day's records. A missing key
// means the day was never materialized, not that it is empty.
type History map[string][]AttendanceRecord

// Clone returns a deep copy of the history.
func (h History) Clone() History {
	out := make(History, len(h))
	for date, records := range h {
		out[date] = CloneRecords(records)
	}
	return out
}

// CloneRecords deep-copies a slice of records, including pointer fields.
func CloneRecords(records []AttendanceRecord) []AttendanceRecord {
	if records == nil {
		return nil
	}
	out := make([]AttendanceRecord, len(records))
	for i, r := range records {
		out[i] = r
		if r.CheckIn != nil {
			t := *r.CheckIn
			out[i].CheckIn = &t
		}
		if r.CheckOut != nil {
			t := *r.CheckOut
			out[i].CheckOut = &t
		}
		if r.Status != nil {
			s := *r.Status
			out[i].Status = &s
		}
	}
	return out
}

// CloneEmployees copies a roster slice.
func CloneEmployees(employees []Employee) []Employee {
	if employees == nil {
		return nil
	}
	out := make([]Employee, len(employees))
	copy(out, employees)
	return out
}

// State is the whole session-owned data set mirrored to the remote document.
type State struct {
	Employees []Employee `json:"employees"`
	History   History    `json:"history"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	return State{
		Employees: CloneEmployees(s.Employees),
		History:   s.History.Clone(),
	}
}

// ==================== DOCUMENTS ====================

// Document is the single shared remote document.
type Document struct {
	Employees   []Employee `json:"employees"`
	History     History    `json:"history"`
	LastUpdated string     `json:"lastUpdated"`
}

// Snapshot is one notification delivered by a document subscription.
// Exists is false when the remote document has not been created yet.
type Snapshot struct {
	Document *Document
	Exists   bool
	Err      error
}

// Backup is the downloadable export file.
type Backup struct {
	Employees  []Employee `json:"employees"`
	History    History    `json:"history"`
	Version    string     `json:"version"`
	ExportDate string     `json:"exportDate"`
}

// BackupVersion is written into every exported backup.
const BackupVersion = "1.0"
