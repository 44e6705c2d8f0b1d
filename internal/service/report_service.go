package service

import (
	"context"

	"github.com/locvowork/timekeeper/internal/domain"
	"github.com/locvowork/timekeeper/internal/report"
	"github.com/locvowork/timekeeper/internal/timeutil"
)

// ReportService feeds the session state into the report generator.
type ReportService struct {
	attendance *AttendanceService
	generator  *report.Generator
}

func NewReportService(attendance *AttendanceService, generator *report.Generator) *ReportService {
	return &ReportService{attendance: attendance, generator: generator}
}

// Daily exports the reconciled attendance of date.
func (s *ReportService) Daily(ctx context.Context, date string) (*report.Output, error) {
	records, err := s.attendance.AttendanceFor(date)
	if err != nil {
		return nil, err
	}
	return s.generator.Daily(ctx, date, records)
}

// History exports every stored day.
func (s *ReportService) History(ctx context.Context) (*report.Output, error) {
	return s.generator.History(ctx, s.attendance.State().History)
}

// Monthly exports timesheets for names over the month containing date. An
// empty date means the current month.
func (s *ReportService) Monthly(ctx context.Context, names []string, date string) (*report.Output, error) {
	if len(names) == 0 {
		return nil, domain.NewValidationError("names", "select at least one employee")
	}
	if date == "" {
		date = s.attendance.Today()
	}
	ref, err := timeutil.ParseDate(date, s.attendance.Location())
	if err != nil {
		return nil, domain.NewValidationError("date", err.Error())
	}

	state := s.attendance.State()
	employees, err := report.SelectEmployees(state.Employees, names)
	if err != nil {
		return nil, err
	}
	return s.generator.Monthly(ctx, employees, state.History, ref)
}
