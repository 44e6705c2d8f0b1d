package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/locvowork/timekeeper/pkg/xlsxstyle"
)

// sheetWriter writes cells on one sheet. The first error sticks and turns all
// later calls into no-ops; check it once with Err.
type sheetWriter struct {
	wb    *workbook
	sheet string
	err   error
}

func (s *sheetWriter) Err() error { return s.err }

func (s *sheetWriter) fail(err error) {
	if s.err == nil && err != nil {
		s.err = fmt.Errorf("sheet %q: %w", s.sheet, err)
	}
}

func (s *sheetWriter) cell(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	s.fail(err)
	return name
}

// set writes value (nil leaves the cell empty) and styles it.
func (s *sheetWriter) set(col, row int, value interface{}, style xlsxstyle.CellStyle) {
	if s.err != nil {
		return
	}
	cell := s.cell(col, row)
	if value != nil {
		s.fail(s.wb.file.SetCellValue(s.sheet, cell, value))
	}
	s.style(col, row, col, row, style)
}

func (s *sheetWriter) style(fromCol, fromRow, toCol, toRow int, style xlsxstyle.CellStyle) {
	if s.err != nil {
		return
	}
	s.fail(s.wb.styles.Apply(s.sheet, s.cell(fromCol, fromRow), s.cell(toCol, toRow), style))
}

func (s *sheetWriter) height(row int, h float64) {
	if s.err != nil || h <= 0 {
		return
	}
	s.fail(s.wb.file.SetRowHeight(s.sheet, row, h))
}

func (s *sheetWriter) merge(fromCol, fromRow, toCol, toRow int) {
	if s.err != nil {
		return
	}
	s.fail(s.wb.file.MergeCell(s.sheet, s.cell(fromCol, fromRow), s.cell(toCol, toRow)))
}

func (s *sheetWriter) widths(widths []float64) {
	for i, w := range widths {
		if s.err != nil {
			return
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		s.fail(err)
		s.fail(s.wb.file.SetColWidth(s.sheet, col, col, w))
	}
}

// setTitle writes text into a header cell and replaces only the font of the
// template style already on it.
func (s *sheetWriter) setTitle(cell, text string, font excelize.Font) {
	if s.err != nil {
		return
	}
	s.fail(s.wb.file.SetCellStr(s.sheet, cell, text))

	style := &excelize.Style{}
	if id, err := s.wb.file.GetCellStyle(s.sheet, cell); err == nil && id != 0 {
		if existing, err := s.wb.file.GetStyle(id); err == nil {
			style = existing
		}
	}
	style.Font = &font
	id, err := s.wb.file.NewStyle(style)
	if err != nil {
		s.fail(err)
		return
	}
	s.fail(s.wb.file.SetCellStyle(s.sheet, cell, cell, id))
}

type pageSetup struct {
	zoom        float64
	footer      string
	printTitles bool
	centered    bool
	margins     bool
}

func (s *sheetWriter) setup(p pageSetup) {
	if s.err != nil {
		return
	}
	f := s.wb.file
	rtl, grid := true, false
	zoom := p.zoom
	s.fail(f.SetSheetView(s.sheet, -1, &excelize.ViewOptions{
		RightToLeft:   &rtl,
		ShowGridLines: &grid,
		ZoomScale:     &zoom,
	}))

	size, orientation := 9, "portrait"
	fitWidth, fitHeight := 1, 0
	s.fail(f.SetPageLayout(s.sheet, &excelize.PageLayoutOptions{
		Size:        &size,
		Orientation: &orientation,
		FitToWidth:  &fitWidth,
		FitToHeight: &fitHeight,
	}))
	fit := true
	s.fail(f.SetSheetProps(s.sheet, &excelize.SheetPropsOptions{FitToPage: &fit}))

	if p.margins {
		side, edge, hf := 0.2, 0.4, 0.2
		centered := p.centered
		s.fail(f.SetPageMargins(s.sheet, &excelize.PageLayoutMarginsOptions{
			Left:         &side,
			Right:        &side,
			Top:          &edge,
			Bottom:       &edge,
			Header:       &hf,
			Footer:       &hf,
			Horizontally: &centered,
		}))
	}

	if p.printTitles {
		s.fail(f.SetDefinedName(&excelize.DefinedName{
			Name:     "_xlnm.Print_Titles",
			RefersTo: fmt.Sprintf("'%s'!$1:$%d", s.sheet, s.wb.layout.Template.HeaderRows),
			Scope:    s.sheet,
		}))
	}
	if p.footer != "" {
		s.fail(f.SetHeaderFooter(s.sheet, &excelize.HeaderFooterOptions{OddFooter: p.footer}))
	}
}
