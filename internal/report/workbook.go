package report

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"

	"github.com/locvowork/timekeeper/pkg/xlsxstyle"
)

// workbook is an output file built inside an opened copy of the template, so
// template style ids and images can be reused by the generated sheets.
type workbook struct {
	file      *excelize.File
	layout    *Layout
	styles    *xlsxstyle.Cache
	template  string // template sheet name, "" when no template is loaded
	originals []string
}

// checkTemplate rejects payloads that are not zip based workbooks.
func checkTemplate(data []byte) error {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is("application/zip") {
			return nil
		}
	}
	return fmt.Errorf("template is not an xlsx workbook (detected %s)", mimetype.Detect(data).String())
}

func openWorkbook(data []byte, layout *Layout) (*workbook, error) {
	if err := checkTemplate(data); err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, fmt.Errorf("template has no sheets")
	}
	return &workbook{
		file:      f,
		layout:    layout,
		styles:    xlsxstyle.NewCache(f),
		template:  sheets[0],
		originals: sheets,
	}, nil
}

// newBlankWorkbook is used when no template could be loaded.
func newBlankWorkbook(layout *Layout) *workbook {
	f := excelize.NewFile()
	return &workbook{
		file:      f,
		layout:    layout,
		styles:    xlsxstyle.NewCache(f),
		originals: f.GetSheetList(),
	}
}

func (w *workbook) Close() error { return w.file.Close() }

// addSheet creates a sheet seeded with the template's header rows, merges,
// images and column widths.
func (w *workbook) addSheet(name string) (*sheetWriter, error) {
	if _, err := w.file.NewSheet(name); err != nil {
		return nil, fmt.Errorf("create sheet %q: %w", name, err)
	}
	s := &sheetWriter{wb: w, sheet: name}
	if w.template != "" {
		if err := w.copyHeader(name); err != nil {
			return nil, fmt.Errorf("copy template header: %w", err)
		}
	}
	return s, nil
}

func (w *workbook) copyHeader(dst string) error {
	src := w.template
	rows := w.layout.Template.HeaderRows
	cols := w.layout.Template.HeaderColumns

	for c := 1; c <= cols; c++ {
		col, err := excelize.ColumnNumberToName(c)
		if err != nil {
			return err
		}
		width, err := w.file.GetColWidth(src, col)
		if err != nil {
			return err
		}
		if err := w.file.SetColWidth(dst, col, col, width); err != nil {
			return err
		}
	}

	for r := 1; r <= rows; r++ {
		height, err := w.file.GetRowHeight(src, r)
		if err != nil {
			return err
		}
		if err := w.file.SetRowHeight(dst, r, height); err != nil {
			return err
		}
		for c := 1; c <= cols; c++ {
			cell, err := excelize.CoordinatesToCellName(c, r)
			if err != nil {
				return err
			}
			if err := w.copyCell(src, dst, cell); err != nil {
				return fmt.Errorf("cell %s: %w", cell, err)
			}
		}
	}

	merges, err := w.file.GetMergeCells(src)
	if err != nil {
		return err
	}
	for _, m := range merges {
		_, row, err := excelize.CellNameToCoordinates(m.GetStartAxis())
		if err != nil || row > rows {
			continue
		}
		if err := w.file.MergeCell(dst, m.GetStartAxis(), m.GetEndAxis()); err != nil {
			return err
		}
	}

	cells, err := w.file.GetPictureCells(src)
	if err != nil {
		return err
	}
	for _, cell := range cells {
		_, row, err := excelize.CellNameToCoordinates(cell)
		if err != nil || row > rows {
			continue
		}
		pics, err := w.file.GetPictures(src, cell)
		if err != nil {
			return err
		}
		for i := range pics {
			if err := w.file.AddPictureFromBytes(dst, cell, &pics[i]); err != nil {
				return fmt.Errorf("copy picture at %s: %w", cell, err)
			}
		}
	}
	return nil
}

func (w *workbook) copyCell(src, dst, cell string) error {
	style, err := w.file.GetCellStyle(src, cell)
	if err != nil {
		return err
	}
	if style != 0 {
		if err := w.file.SetCellStyle(dst, cell, cell, style); err != nil {
			return err
		}
	}

	formula, err := w.file.GetCellFormula(src, cell)
	if err != nil {
		return err
	}
	if formula != "" {
		return w.file.SetCellFormula(dst, cell, formula)
	}

	value, err := w.file.GetCellValue(src, cell, excelize.Options{RawCellValue: true})
	if err != nil || value == "" {
		return err
	}
	typ, err := w.file.GetCellType(src, cell)
	if err != nil {
		return err
	}
	switch typ {
	case excelize.CellTypeNumber, excelize.CellTypeDate:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return w.file.SetCellValue(dst, cell, f)
		}
	case excelize.CellTypeBool:
		return w.file.SetCellBool(dst, cell, value == "1" || value == "TRUE")
	}
	return w.file.SetCellStr(dst, cell, value)
}

// finish drops the original template sheets and serializes the workbook.
func (w *workbook) finish() ([]byte, error) {
	for _, name := range w.originals {
		if err := w.file.DeleteSheet(name); err != nil {
			return nil, fmt.Errorf("delete template sheet %q: %w", name, err)
		}
	}
	w.file.SetActiveSheet(0)
	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
