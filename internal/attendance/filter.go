package attendance

import (
	"fmt"
	"strings"

	"github.com/locvowork/timekeeper/internal/domain"
)

// Filter tabs offered by the operator UI.
const (
	FilterAll           = "All"
	FilterNotCheckedIn  = "Not Checked-In"
	FilterNotCheckedOut = "Not Checked-Out"
	FilterCompleted     = "Completed"
	FilterOnLeave       = "On Leave"
	FilterAbsent        = "Absent"
	FilterTimeSheet     = "Time Sheet"
)

// FilterOptions narrows a reconciled attendance list.
type FilterOptions struct {
	Status     string
	Department string
	Search     string
}

// Filter returns the records matching all of opts. Empty options match
// everything.
func Filter(records []domain.AttendanceRecord, opts FilterOptions) []domain.AttendanceRecord {
	search := strings.ToLower(strings.TrimSpace(opts.Search))
	out := make([]domain.AttendanceRecord, 0, len(records))
	for _, r := range records {
		if search != "" && !strings.Contains(strings.ToLower(r.Name), search) {
			continue
		}
		if opts.Department != "" && opts.Department != FilterAll && r.Department != opts.Department {
			continue
		}
		if !matchesStatus(r, opts.Status) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesStatus(r domain.AttendanceRecord, filter string) bool {
	status := r.StatusText()
	switch filter {
	case "", FilterAll:
		return true
	case FilterNotCheckedIn:
		return r.CheckIn == nil && status == ""
	case FilterNotCheckedOut:
		return r.CheckIn != nil && r.CheckOut == nil
	case FilterCompleted:
		return r.CheckIn != nil && r.CheckOut != nil
	case FilterOnLeave:
		return status == StatusLeave || status == StatusSick
	case FilterAbsent:
		return status == StatusAbsent
	case FilterTimeSheet:
		return status == StatusTimeSheet
	default:
		return false
	}
}

// Stats are the day counters shown on the dashboard.
type Stats struct {
	Total     int `json:"total"`
	Present   int `json:"present"`
	Completed int `json:"completed"`
	Remaining int `json:"remaining"`
}

// Working is the number of employees checked in but not yet out.
func (s Stats) Working() int { return s.Present - s.Completed }

// ComputeStats counts the reconciled records of a day against the roster size.
func ComputeStats(roster []domain.Employee, records []domain.AttendanceRecord) Stats {
	s := Stats{Total: len(roster)}
	for _, r := range records {
		if r.CheckIn != nil {
			s.Present++
		} else {
			s.Remaining++
		}
		if r.CheckOut != nil {
			s.Completed++
		}
	}
	return s
}

// SummaryText renders the shareable daily summary message.
func SummaryText(date string, s Stats) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 *تقرير الحضور اليومي* - %s\n", date))
	sb.WriteString("-------------------------\n")
	sb.WriteString(fmt.Sprintf("👤 العدد الكلي: %d\n", s.Total))
	sb.WriteString(fmt.Sprintf("✅ الحضور: %d\n", s.Present))
	sb.WriteString(fmt.Sprintf("🚪 غادروا: %d\n", s.Completed))
	sb.WriteString(fmt.Sprintf("❌ غائب: %d\n", s.Total-s.Present))
	sb.WriteString(fmt.Sprintf("⏳ قيد العمل: %d\n", s.Working()))
	sb.WriteString("-------------------------\n")
	sb.WriteString("تم التوليد بواسطة *Time Keeper*")
	return sb.String()
}
