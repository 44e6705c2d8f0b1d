package report

import (
	"fmt"
	"time"

	"github.com/locvowork/timekeeper/internal/domain"
	"github.com/locvowork/timekeeper/internal/timeutil"
)

// dayOptions are the differences between a daily sheet and a history sheet.
type dayOptions struct {
	titleSize      float64
	rowHeight      float64
	totalLabelSize float64
	totalCountSize float64
	footer         string
}

const dayColumns = 8

// renderDay fills one sheet with the attendance of date, grouped by
// department, below the template header. It returns the next free row.
func renderDay(s *sheetWriter, day time.Time, records []domain.AttendanceRecord, loc *time.Location, opts dayOptions) int {
	l := s.wb.layout
	st := newStyles(l, opts.totalLabelSize, opts.totalCountSize)

	s.setTitle(l.Daily.TitleCell, fmt.Sprintf(l.Daily.TitleFormat, timeutil.ArabicLongDate(day)), titleFont(l, opts.titleSize, ""))
	s.widths(l.Daily.ColumnWidths)

	row := l.Template.FirstDataRow
	seq := 1
	for _, group := range groupByDepartment(l, records) {
		s.merge(1, row, dayColumns, row)
		s.set(1, row, group.Name, st.department)
		s.style(1, row, dayColumns, row, st.department)
		s.height(row, l.Daily.DepartmentRowHeight)
		row++

		for _, r := range group.Records {
			writeDayRow(s, row, seq, r, loc, st)
			seq++
			s.height(row, opts.rowHeight)
			row++
		}

		s.style(1, row, dayColumns, row, st.totalFill)
		s.set(2, row, l.Daily.TotalLabel, st.totalLabel)
		s.set(3, row, len(group.Records), st.totalCount)
		s.height(row, l.Daily.TotalRowHeight)
		row++
	}

	row = writeDaySignature(s, row, st)
	s.setup(pageSetup{zoom: l.Daily.Zoom, footer: opts.footer, printTitles: true, centered: true, margins: true})
	return row
}

func writeDayRow(s *sheetWriter, row, seq int, r domain.AttendanceRecord, loc *time.Location, st styles) {
	l := s.wb.layout
	s.set(1, row, seq, st.data)
	s.set(2, row, r.Name, st.data)
	s.set(3, row, l.JobTitle(r.Job, r.Department), st.job)

	if r.HasStatus() {
		s.set(4, row, r.StatusText(), st.status)
		s.set(5, row, nil, st.data)
		s.set(6, row, nil, st.data)
	} else {
		writeFraction(s, 4, row, r.CheckIn, loc, st)
		writeFraction(s, 5, row, r.CheckOut, loc, st)
		if ot, ok := timeutil.Overtime(timeutil.WorkedHoursValue(r.CheckIn, r.CheckOut)); ok {
			s.set(6, row, ot, st.overtime)
		} else {
			s.set(6, row, nil, st.data)
		}
	}
	s.set(7, row, nil, st.data)
	s.set(8, row, nil, st.data)
}

func writeFraction(s *sheetWriter, col, row int, t *time.Time, loc *time.Location, st styles) {
	if frac, ok := timeutil.TimeFraction(t, loc); ok {
		s.set(col, row, frac, st.time)
		return
	}
	s.set(col, row, nil, st.time)
}

// writeDaySignature leaves two blank rows, writes the labels and puts the
// signature lines LineOffset rows below them.
func writeDaySignature(s *sheetWriter, row int, st styles) int {
	sig := s.wb.layout.Daily.Signature
	labelRow := row + 2
	lineRow := labelRow + sig.LineOffset

	s.height(labelRow, sig.LabelRowHeight)
	s.height(lineRow, sig.LineRowHeight)
	for _, lbl := range sig.Labels {
		s.set(lbl.Column, labelRow, lbl.Text, st.signature)
		s.set(lbl.Column, lineRow, sig.LineText, st.line)
	}
	return lineRow + 1
}
