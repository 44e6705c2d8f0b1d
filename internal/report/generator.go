// Package report renders attendance workbooks on top of a template workbook.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/locvowork/timekeeper/internal/attendance"
	"github.com/locvowork/timekeeper/internal/domain"
	"github.com/locvowork/timekeeper/internal/logger"
	"github.com/locvowork/timekeeper/internal/timeutil"
)

// Report names used in ExportError.
const (
	ReportDaily   = "daily"
	ReportHistory = "history"
	ReportMonthly = "monthly"
)

// Output is a finished workbook ready for download.
type Output struct {
	FileName string
	Data     []byte
}

// ContentType is the MIME type of every generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Generator renders the three attendance reports.
type Generator struct {
	layout *Layout
	source TemplateSource
	loc    *time.Location
	now    func() time.Time
}

// NewGenerator creates a generator. A nil layout uses the default layout.
func NewGenerator(layout *Layout, source TemplateSource, loc *time.Location) *Generator {
	if layout == nil {
		layout = DefaultLayout()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Generator{layout: layout, source: source, loc: loc, now: time.Now}
}

func (g *Generator) open(ctx context.Context) (*workbook, error) {
	if g.source == nil {
		return nil, fmt.Errorf("no template source configured")
	}
	data, err := g.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	return openWorkbook(data, g.layout)
}

// Daily renders the reconciled attendance of one date.
func (g *Generator) Daily(ctx context.Context, date string, records []domain.AttendanceRecord) (*Output, error) {
	day, err := timeutil.ParseDate(date, g.loc)
	if err != nil {
		return nil, domain.NewValidationError("date", err.Error())
	}

	out, err := g.build(ctx, false, func(wb *workbook) error {
		s, err := wb.addSheet(date)
		if err != nil {
			return err
		}
		renderDay(s, day, records, g.loc, dayOptions{
			titleSize:      g.layout.Font.Size,
			rowHeight:      g.layout.Daily.RowHeight,
			totalLabelSize: g.layout.Font.Size,
			totalCountSize: g.layout.Font.Size,
			footer:         g.layout.Daily.Footer,
		})
		return s.Err()
	})
	if err != nil {
		return nil, g.exportError(ctx, ReportDaily, err)
	}
	logger.InfoLog(ctx, "Daily report for %s rendered with %d records", date, len(records))
	return &Output{FileName: fmt.Sprintf("Daily_Attendance_%s.xlsx", date), Data: out}, nil
}

// History renders one sheet per stored date, newest first. Stored records are
// written as they are, including those of removed employees.
func (g *Generator) History(ctx context.Context, history domain.History) (*Output, error) {
	if len(history) == 0 {
		return nil, domain.NewValidationError("history", "no attendance history to export")
	}
	dates := make([]string, 0, len(history))
	for date := range history {
		if timeutil.IsDate(date) {
			dates = append(dates, date)
		}
	}
	if len(dates) == 0 {
		return nil, domain.NewValidationError("history", "history has no valid dates")
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	h := g.layout.History
	out, err := g.build(ctx, false, func(wb *workbook) error {
		for _, date := range dates {
			day, err := timeutil.ParseDate(date, g.loc)
			if err != nil {
				return err
			}
			s, err := wb.addSheet(date)
			if err != nil {
				return err
			}
			renderDay(s, day, history[date], g.loc, dayOptions{
				titleSize:      h.TitleSize,
				rowHeight:      h.RowHeight,
				totalLabelSize: h.TotalLabelSize,
				totalCountSize: h.TotalCountSize,
				footer:         h.Footer,
			})
			if err := s.Err(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, g.exportError(ctx, ReportHistory, err)
	}
	logger.InfoLog(ctx, "History report rendered with %d sheets", len(dates))
	today := timeutil.TodayString(g.now(), g.loc)
	return &Output{FileName: fmt.Sprintf("History_All_%s.xlsx", today), Data: out}, nil
}

// Monthly renders one timesheet per employee for the month containing ref.
// When the template cannot be loaded the sheets are rendered without it.
func (g *Generator) Monthly(ctx context.Context, employees []domain.Employee, history domain.History, ref time.Time) (*Output, error) {
	if len(employees) == 0 {
		return nil, domain.NewValidationError("names", "select at least one employee")
	}
	days := timeutil.MonthDays(ref.In(g.loc))

	out, err := g.build(ctx, true, func(wb *workbook) error {
		for i, emp := range employees {
			s, err := wb.addSheet(monthlySheetName(i+1, emp.Name))
			if err != nil {
				return err
			}
			renderMonth(s, emp, days, history, g.loc)
			if err := s.Err(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, g.exportError(ctx, ReportMonthly, err)
	}
	logger.InfoLog(ctx, "Monthly report rendered for %d employees", len(employees))
	return &Output{FileName: fmt.Sprintf("Monthly_TimeSheets_%s.xlsx", ref.In(g.loc).Format("January_2006")), Data: out}, nil
}

// build opens the template, runs render and serializes the result. Any error
// discards the whole workbook.
func (g *Generator) build(ctx context.Context, allowBlank bool, render func(*workbook) error) ([]byte, error) {
	wb, err := g.open(ctx)
	if err != nil {
		if !allowBlank {
			return nil, fmt.Errorf("load template: %w", err)
		}
		logger.WarnLog(ctx, "Template unavailable, rendering without it: %v", err)
		wb = newBlankWorkbook(g.layout)
	}
	defer wb.Close()

	if err := render(wb); err != nil {
		return nil, err
	}
	return wb.finish()
}

func (g *Generator) exportError(ctx context.Context, report string, err error) error {
	logger.ErrorLog(ctx, "Failed to render %s report: %v", report, err)
	return &domain.ExportError{Report: report, Err: err}
}

// SelectEmployees returns the roster entries for names, in the given order.
// Unknown names are reported with ErrEmployeeNotFound.
func SelectEmployees(roster []domain.Employee, names []string) ([]domain.Employee, error) {
	out := make([]domain.Employee, 0, len(names))
	for _, name := range names {
		idx := attendance.IndexOfEmployee(roster, name)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrEmployeeNotFound, name)
		}
		out = append(out, roster[idx])
	}
	return out, nil
}
