package report

import (
	"github.com/xuri/excelize/v2"

	"github.com/locvowork/timekeeper/pkg/xlsxstyle"
)

// styles are the cell styles of one renderer, derived from the layout.
type styles struct {
	department xlsxstyle.CellStyle
	data       xlsxstyle.CellStyle
	job        xlsxstyle.CellStyle
	time       xlsxstyle.CellStyle
	status     xlsxstyle.CellStyle
	overtime   xlsxstyle.CellStyle
	totalLabel xlsxstyle.CellStyle
	totalCount xlsxstyle.CellStyle
	totalFill  xlsxstyle.CellStyle
	signature  xlsxstyle.CellStyle
	line       xlsxstyle.CellStyle

	monthHeader xlsxstyle.CellStyle
	monthRow    xlsxstyle.CellStyle
	monthStripe xlsxstyle.CellStyle
	monthInfo   xlsxstyle.CellStyle
}

func newStyles(l *Layout, totalLabelSize, totalCountSize float64) styles {
	c := l.Colors
	font, size := l.Font.Name, l.Font.Size
	base := func() *xlsxstyle.StyleBuilder {
		return xlsxstyle.NewStyleBuilder().Font(font, size).Bold().RightToLeft()
	}
	bordered := func() *xlsxstyle.StyleBuilder {
		return base().Border("thin", c.Border)
	}

	data := bordered().Fill(c.DataFill).Build()
	totalFill := bordered().Fill(c.TotalFill).Build()

	s := styles{
		department: bordered().Fill(c.DepartmentFill).FontColor(c.DepartmentText).Build(),
		data:       data,
		job:        xlsxstyle.From(data).Size(l.Font.JobSize).WrapText().Build(),
		time:       xlsxstyle.From(data).NumberFormat(l.Daily.TimeFormat).Build(),
		status:     xlsxstyle.From(data).Fill(c.StatusFill).FontColor(c.StatusText).Build(),
		overtime:   xlsxstyle.From(data).NumberFormat(l.Daily.OvertimeFormat).FontColor(c.OvertimeText).Build(),
		totalLabel: xlsxstyle.From(totalFill).Size(totalLabelSize).Build(),
		totalCount: xlsxstyle.From(totalFill).Size(totalCountSize).Build(),
		totalFill:  totalFill,
		signature:  base().Underline().Build(),
		line:       base().VAlign("bottom").Build(),

		monthHeader: bordered().Fill(c.MonthlyHeaderFill).FontColor(c.MonthlyHeaderText).Build(),
		monthInfo:   base().Align("left").Build(),
	}
	s.monthRow = bordered().Build()
	s.monthStripe = xlsxstyle.From(s.monthRow).Fill(c.MonthlyStripeFill).Build()
	return s
}

// titleFont is the font written over a template title cell.
func titleFont(l *Layout, size float64, color string) excelize.Font {
	if color == "" {
		color = "000000"
	}
	return excelize.Font{Family: l.Font.Name, Size: size, Bold: true, Color: color}
}
