package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/locvowork/timekeeper/internal/attendance"
	"github.com/locvowork/timekeeper/internal/domain"
	"github.com/locvowork/timekeeper/internal/logger"
	"github.com/locvowork/timekeeper/internal/timeutil"
	"github.com/locvowork/timekeeper/pkg/retry"
)

// ChangeNotifier receives every committed local state. It must not block.
type ChangeNotifier interface {
	NotifyLocalChange(s domain.State)
}

// SummarySender delivers the daily summary message somewhere outside the app.
type SummarySender interface {
	SendText(ctx context.Context, text string) error
}

// AttendanceService owns the session's roster and history. Every mutation is
// validated first, then applied, persisted locally and handed to the notifier.
type AttendanceService struct {
	mu    sync.RWMutex
	state domain.State

	// commitMu orders side effects so the newest state is always the last
	// one written locally.
	commitMu sync.Mutex

	repo     domain.StateRepository
	notifier ChangeNotifier
	index    domain.AttendanceIndex
	sender   SummarySender
	loc      *time.Location
	now      func() time.Time
}

// NewAttendanceService creates a service with an empty state. Call Load to
// seed it from local storage.
func NewAttendanceService(repo domain.StateRepository, loc *time.Location) *AttendanceService {
	if loc == nil {
		loc = time.Local
	}
	return &AttendanceService{
		state: domain.State{Employees: []domain.Employee{}, History: domain.History{}},
		repo:  repo,
		loc:   loc,
		now:   time.Now,
	}
}

// SetNotifier wires the sync engine. It is set after construction because the
// engine itself reads state from the service.
func (s *AttendanceService) SetNotifier(n ChangeNotifier) { s.notifier = n }

// SetIndex wires the optional attendance search index.
func (s *AttendanceService) SetIndex(idx domain.AttendanceIndex) { s.index = idx }

// SetSummarySender wires the optional summary channel.
func (s *AttendanceService) SetSummarySender(sender SummarySender) { s.sender = sender }

// Location is the zone used for dates and clock times.
func (s *AttendanceService) Location() *time.Location { return s.loc }

// Load seeds the session from local storage.
func (s *AttendanceService) Load(ctx context.Context) error {
	state, found, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load local state: %w", err)
	}
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	logger.InfoLog(ctx, "loaded local state: %d employees, %d days (stored roster: %t)",
		len(state.Employees), len(state.History), found)
	return nil
}

// State returns a deep copy of the current state.
func (s *AttendanceService) State() domain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// ReplaceState installs state received from the remote document. It persists
// locally but does not notify, so it never echoes back to the sync engine.
func (s *AttendanceService) ReplaceState(ctx context.Context, next domain.State) error {
	next = next.Clone()
	if next.Employees == nil {
		next.Employees = []domain.Employee{}
	}
	if next.History == nil {
		next.History = domain.History{}
	}
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	s.persist(ctx, s.State())
	return nil
}

// ==================== Roster Operations ====================

// Employees returns the roster in stored order.
func (s *AttendanceService) Employees() []domain.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneEmployees(s.state.Employees)
}

// Departments returns the distinct roster departments.
func (s *AttendanceService) Departments() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return attendance.Departments(s.state.Employees)
}

// AddEmployee appends e to the roster.
func (s *AttendanceService) AddEmployee(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	s.mu.Lock()
	roster, err := attendance.AddEmployee(s.state.Employees, e)
	if err != nil {
		s.mu.Unlock()
		return domain.Employee{}, err
	}
	s.state.Employees = roster
	added := roster[len(roster)-1]
	s.mu.Unlock()

	s.committed(ctx)
	return added, nil
}

// UpdateEmployee edits the employee called oldName, cascading a rename into
// every history record.
func (s *AttendanceService) UpdateEmployee(ctx context.Context, oldName string, fields domain.Employee) (domain.Employee, error) {
	s.mu.Lock()
	roster, history, err := attendance.RenameEmployee(s.state.Employees, s.state.History, oldName, fields)
	if err != nil {
		s.mu.Unlock()
		return domain.Employee{}, err
	}
	s.state.Employees = roster
	s.state.History = history
	updated := roster[attendance.IndexOfEmployee(roster, strings.TrimSpace(fields.Name))]
	s.mu.Unlock()

	s.committed(ctx)
	return updated, nil
}

// RemoveEmployee drops name from the roster. History is kept.
func (s *AttendanceService) RemoveEmployee(ctx context.Context, name string) error {
	s.mu.Lock()
	roster, err := attendance.RemoveEmployee(s.state.Employees, name)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.state.Employees = roster
	s.mu.Unlock()

	s.committed(ctx)
	return nil
}

// ==================== Attendance Operations ====================

// AttendanceFor returns the reconciled attendance list of date.
func (s *AttendanceService) AttendanceFor(date string) ([]domain.AttendanceRecord, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return attendance.Reconcile(s.state.Employees, s.state.History, date), nil
}

// FilteredAttendance returns AttendanceFor narrowed by opts.
func (s *AttendanceService) FilteredAttendance(date string, opts attendance.FilterOptions) ([]domain.AttendanceRecord, error) {
	records, err := s.AttendanceFor(date)
	if err != nil {
		return nil, err
	}
	return attendance.Filter(records, opts), nil
}

// Stats returns the day counters for date.
func (s *AttendanceService) Stats(date string) (attendance.Stats, error) {
	if err := validateDate(date); err != nil {
		return attendance.Stats{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := attendance.Reconcile(s.state.Employees, s.state.History, date)
	return attendance.ComputeStats(s.state.Employees, records), nil
}

// Summary renders the shareable summary message for date.
func (s *AttendanceService) Summary(date string) (string, error) {
	stats, err := s.Stats(date)
	if err != nil {
		return "", err
	}
	return attendance.SummaryText(date, stats), nil
}

// ShareSummary sends the summary of date through the configured sender.
func (s *AttendanceService) ShareSummary(ctx context.Context, date string) (string, error) {
	if s.sender == nil {
		return "", fmt.Errorf("summary sharing is not configured")
	}
	text, err := s.Summary(date)
	if err != nil {
		return "", err
	}
	if err := s.sender.SendText(ctx, text); err != nil {
		return "", fmt.Errorf("send summary: %w", err)
	}
	return text, nil
}

// UpdateRecord applies m to name's record on date, materializing the day first.
func (s *AttendanceService) UpdateRecord(ctx context.Context, date, name string, m attendance.Mutation) (domain.AttendanceRecord, error) {
	result, err := s.BatchUpdate(ctx, date, []string{name}, m)
	if err != nil {
		return domain.AttendanceRecord{}, err
	}
	return result.Updated[0], nil
}

// SkippedRecord is a selected employee a batch left untouched.
type SkippedRecord struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// BatchResult lists what a batch changed and what it skipped.
type BatchResult struct {
	Updated []domain.AttendanceRecord `json:"updated"`
	Skipped []SkippedRecord           `json:"skipped,omitempty"`
}

// BatchUpdate applies m to every named record on date. Unknown names reject
// the whole batch. Records m cannot apply to, such as a check-out before any
// check-in, are skipped and reported; when every record is skipped the first
// reason is returned as the error.
func (s *AttendanceService) BatchUpdate(ctx context.Context, date string, names []string, m attendance.Mutation) (BatchResult, error) {
	if err := validateDate(date); err != nil {
		return BatchResult{}, err
	}
	if len(names) == 0 {
		return BatchResult{}, domain.NewValidationError("names", "no employees selected")
	}
	if err := m.Validate(); err != nil {
		return BatchResult{}, err
	}

	s.mu.Lock()
	day := attendance.Materialize(s.state.Employees, s.state.History, date)
	result := BatchResult{Updated: make([]domain.AttendanceRecord, 0, len(names))}
	var firstErr error
	for _, name := range names {
		if attendance.IndexOfEmployee(s.state.Employees, name) < 0 {
			s.mu.Unlock()
			return BatchResult{}, fmt.Errorf("%w: %s", domain.ErrEmployeeNotFound, name)
		}
		rec := attendance.Find(day, name)
		if err := attendance.Apply(rec, m); err != nil {
			if !domain.IsValidation(err) {
				s.mu.Unlock()
				return BatchResult{}, err
			}
			if firstErr == nil {
				firstErr = err
			}
			result.Skipped = append(result.Skipped, SkippedRecord{Name: name, Reason: err.Error()})
			continue
		}
		result.Updated = append(result.Updated, domain.CloneRecords([]domain.AttendanceRecord{*rec})[0])
	}
	if len(result.Updated) == 0 {
		s.mu.Unlock()
		return BatchResult{}, firstErr
	}
	s.state.History[date] = day
	s.mu.Unlock()

	s.committed(ctx, date)
	return result, nil
}

// Time fields accepted by EditTime.
const (
	FieldCheckIn  = "checkIn"
	FieldCheckOut = "checkOut"
)

// EditTime sets a check time of name on date from an "HH:mm" clock value.
func (s *AttendanceService) EditTime(ctx context.Context, date, name, field, clock string) (domain.AttendanceRecord, error) {
	at, err := timeutil.ParseClock(date, clock, s.loc)
	if err != nil {
		return domain.AttendanceRecord{}, domain.NewValidationError("time", err.Error())
	}
	switch field {
	case FieldCheckIn:
		return s.UpdateRecord(ctx, date, name, attendance.CheckIn(at))
	case FieldCheckOut:
		return s.UpdateRecord(ctx, date, name, attendance.CheckOut(at))
	default:
		return domain.AttendanceRecord{}, domain.NewValidationError("field", fmt.Sprintf("unknown time field %q", field))
	}
}

// ResetDay replaces the records of date with empty ones for the roster.
func (s *AttendanceService) ResetDay(ctx context.Context, date string) error {
	if err := validateDate(date); err != nil {
		return err
	}
	s.mu.Lock()
	s.state.History[date] = attendance.Reconcile(s.state.Employees, nil, date)
	s.mu.Unlock()

	s.committed(ctx, date)
	return nil
}

// SearchHistory finds stored records by name, newest first. The search index
// is used when configured; otherwise history is scanned in memory.
func (s *AttendanceService) SearchHistory(ctx context.Context, query string, limit int) ([]domain.IndexedRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("q", "search text is required")
	}
	if limit <= 0 {
		limit = 100
	}
	if s.index != nil {
		return s.index.SearchByName(ctx, query, limit)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	dates := make([]string, 0, len(s.state.History))
	for date := range s.state.History {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	needle := strings.ToLower(query)
	out := []domain.IndexedRecord{}
	for _, date := range dates {
		for _, rec := range s.state.History[date] {
			if !strings.Contains(strings.ToLower(rec.Name), needle) {
				continue
			}
			out = append(out, domain.IndexedRecord{Date: date, AttendanceRecord: domain.CloneRecords([]domain.AttendanceRecord{rec})[0]})
			if len(out) == limit {
				return out, nil
			}
		}
	}
	return out, nil
}

// Today is the current date in the service zone.
func (s *AttendanceService) Today() string {
	return timeutil.TodayString(s.now(), s.loc)
}

// ==================== internals ====================

// committed runs the side effects of an applied mutation on the state current
// at the time it runs, so a slower earlier commit can never overwrite a newer
// one. Local persistence and indexing failures are logged; the in-memory
// state stays authoritative.
func (s *AttendanceService) committed(ctx context.Context, days ...string) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	next := s.State()
	s.persist(ctx, next)
	if s.notifier != nil {
		s.notifier.NotifyLocalChange(next)
	}
	if s.index != nil {
		for _, date := range days {
			records := next.History[date]
			err := retry.Do(ctx, retry.DefaultPolicy(), func(ctx context.Context) error {
				return s.index.IndexDay(ctx, date, records)
			})
			if err != nil {
				logger.WarnLog(ctx, "failed to index %s: %v", date, err)
			}
		}
	}
}

func (s *AttendanceService) persist(ctx context.Context, state domain.State) {
	if err := s.repo.SaveEmployees(ctx, state.Employees); err != nil {
		logger.ErrorLog(ctx, "failed to persist roster: %v", err)
	}
	if err := s.repo.SaveHistory(ctx, state.History); err != nil {
		logger.ErrorLog(ctx, "failed to persist history: %v", err)
	}
}

func validateDate(date string) error {
	if !timeutil.IsDate(date) {
		return domain.NewValidationError("date", fmt.Sprintf("invalid date %q, want yyyy-MM-dd", date))
	}
	return nil
}
