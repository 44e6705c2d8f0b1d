package attendance

import (
	"fmt"
	"strings"
	"time"

	"github.com/locvowork/timekeeper/internal/domain"
)

// Action names a single-field attendance update.
type Action string

const (
	ActionCheckIn       Action = "check-in"
	ActionCheckOut      Action = "check-out"
	ActionStatus        Action = "status"
	ActionClearStatus   Action = "clear-status"
	ActionClearCheckIn  Action = "clear-check-in"
	ActionClearCheckOut Action = "clear-check-out"
)

// Well-known status labels offered by the operator UI. Any other non-empty
// text is accepted as a custom status.
const (
	StatusLeave     = "إجازة"
	StatusAbsent    = "غياب"
	StatusSick      = "مرضي"
	StatusMission   = "مأمورية"
	StatusTimeSheet = "time sheet"
)

// Mutation is one typed update applied to a record.
type Mutation struct {
	Action Action
	At     time.Time
	Status string
}

// CheckIn returns a mutation setting the check-in time.
func CheckIn(at time.Time) Mutation { return Mutation{Action: ActionCheckIn, At: at} }

// CheckOut returns a mutation setting the check-out time.
func CheckOut(at time.Time) Mutation { return Mutation{Action: ActionCheckOut, At: at} }

// Status returns a mutation setting a leave/absence status.
func Status(status string) Mutation { return Mutation{Action: ActionStatus, Status: status} }

// Validate checks the mutation on its own, without a target record.
func (m Mutation) Validate() error {
	switch m.Action {
	case ActionCheckIn, ActionCheckOut:
		if m.At.IsZero() {
			return domain.NewValidationError("time", "time is required")
		}
	case ActionStatus:
		if strings.TrimSpace(m.Status) == "" {
			return domain.NewValidationError("status", "status cannot be empty")
		}
	case ActionClearStatus, ActionClearCheckIn, ActionClearCheckOut:
	default:
		return domain.NewValidationError("action", fmt.Sprintf("unknown action %q", m.Action))
	}
	return nil
}

// Apply validates m against r and applies it.
func Apply(r *domain.AttendanceRecord, m Mutation) error {
	if err := m.Validate(); err != nil {
		return err
	}
	switch m.Action {
	case ActionCheckIn:
		SetCheckIn(r, m.At)
	case ActionCheckOut:
		return SetCheckOut(r, m.At)
	case ActionStatus:
		SetStatus(r, m.Status)
	case ActionClearStatus:
		ClearStatus(r)
	case ActionClearCheckIn:
		ClearCheckIn(r)
	case ActionClearCheckOut:
		ClearCheckOut(r)
	}
	return nil
}

// SetCheckIn records a check-in and clears any status.
func SetCheckIn(r *domain.AttendanceRecord, at time.Time) {
	r.CheckIn = &at
	r.Status = nil
}

// SetCheckOut records a check-out. The record must be checked in.
func SetCheckOut(r *domain.AttendanceRecord, at time.Time) error {
	if r.CheckIn == nil {
		return domain.NewValidationError("checkOut", fmt.Sprintf("%s has not checked in", r.Name))
	}
	r.CheckOut = &at
	return nil
}

// SetStatus records a status and clears both check times.
func SetStatus(r *domain.AttendanceRecord, status string) {
	s := strings.TrimSpace(status)
	r.Status = &s
	r.CheckIn = nil
	r.CheckOut = nil
}

// ClearStatus removes the status only.
func ClearStatus(r *domain.AttendanceRecord) {
	r.Status = nil
}

// ClearCheckIn undoes a check-in together with its check-out.
func ClearCheckIn(r *domain.AttendanceRecord) {
	r.CheckIn = nil
	r.CheckOut = nil
}

// ClearCheckOut undoes a check-out.
func ClearCheckOut(r *domain.AttendanceRecord) {
	r.CheckOut = nil
}
