package report

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/locvowork/timekeeper/internal/attendance"
	"github.com/locvowork/timekeeper/internal/domain"
	"github.com/locvowork/timekeeper/internal/timeutil"
)

const maxSheetName = 31

var sheetNameReplacer = strings.NewReplacer(
	`\`, "_", "/", "_", "?", "_", "*", "_", ":", "_", "[", "_", "]", "_",
)

// monthlySheetName builds "<n>-<name>" limited to the characters and length
// spreadsheet sheet names allow.
func monthlySheetName(n int, name string) string {
	full := fmt.Sprintf("%d-%s", n, sheetNameReplacer.Replace(name))
	if utf8.RuneCountInString(full) <= maxSheetName {
		return full
	}
	return string([]rune(full)[:maxSheetName])
}

func renderMonth(s *sheetWriter, emp domain.Employee, days []time.Time, history domain.History, loc *time.Location) {
	l := s.wb.layout
	m := l.Monthly
	st := newStyles(l, l.Font.Size, l.Font.Size)

	s.widths(m.ColumnWidths)
	s.setTitle(m.TitleCell, fmt.Sprintf(m.TitleFormat, emp.Name), titleFont(l, l.Font.Size, l.Colors.MonthlyTitleText))

	dept, job := emp.Department, emp.Job
	if dept == "" {
		dept = "-"
	}
	if job == "" {
		job = "-"
	}
	s.set(2, m.InfoRow, "Dept: "+dept, st.monthInfo)
	s.set(4, m.InfoRow, "Job: "+job, st.monthInfo)
	if len(days) > 0 {
		s.set(6, m.InfoRow, "Month: "+days[0].Format("January 2006"), st.monthInfo)
	}

	headerRow := l.Template.HeaderRows
	for i, h := range m.Headers {
		s.set(i+1, headerRow, h, st.monthHeader)
	}

	row := l.Template.FirstDataRow
	for i, day := range days {
		style := st.monthRow
		if i%2 == 1 {
			style = st.monthStripe
		}
		timeStyle := style
		timeStyle.NumberFormat = l.Daily.TimeFormat

		date := timeutil.FormatDate(day)
		rec := attendance.Find(history[date], emp.Name)

		s.set(1, row, i+1, style)
		s.set(2, row, date, style)
		s.set(3, row, timeutil.ArabicWeekday(day.Weekday()), style)
		var in, out *time.Time
		if rec != nil {
			in, out = rec.CheckIn, rec.CheckOut
		}
		for j, t := range []*time.Time{in, out} {
			if frac, ok := timeutil.TimeFraction(t, loc); ok {
				s.set(4+j, row, frac, timeStyle)
			} else {
				s.set(4+j, row, nil, timeStyle)
			}
		}
		s.set(6, row, nil, style)
		s.height(row, m.RowHeight)
		row++
	}

	sigRow := row + 2
	s.height(sigRow, m.SignatureRowHeight)
	for _, lbl := range m.Signatures {
		s.set(lbl.Column, sigRow, lbl.Text, st.signature)
	}

	s.setup(pageSetup{zoom: m.Zoom, margins: true})
}
