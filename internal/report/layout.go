package report

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v2"
)

//go:embed default_layout.yaml
var defaultLayoutYAML []byte

// Layout holds every size, label and color the report renderers use.
type Layout struct {
	Template    TemplateLayout   `yaml:"template"`
	Font        FontLayout       `yaml:"font"`
	Colors      Colors           `yaml:"colors"`
	Daily       DailyLayout      `yaml:"daily"`
	History     HistoryLayout    `yaml:"history"`
	Monthly     MonthlyLayout    `yaml:"monthly"`
	Departments DepartmentLayout `yaml:"departments"`
	JobTitles   JobTitleLayout   `yaml:"job_titles"`
}

type TemplateLayout struct {
	HeaderRows    int `yaml:"header_rows"`
	HeaderColumns int `yaml:"header_columns"`
	FirstDataRow  int `yaml:"first_data_row"`
}

type FontLayout struct {
	Name    string  `yaml:"name"`
	Size    float64 `yaml:"size"`
	JobSize float64 `yaml:"job_size"`
}

type Colors struct {
	DepartmentFill    string `yaml:"department_fill"`
	DepartmentText    string `yaml:"department_text"`
	DataFill          string `yaml:"data_fill"`
	StatusFill        string `yaml:"status_fill"`
	StatusText        string `yaml:"status_text"`
	OvertimeText      string `yaml:"overtime_text"`
	TotalFill         string `yaml:"total_fill"`
	Border            string `yaml:"border"`
	MonthlyHeaderFill string `yaml:"monthly_header_fill"`
	MonthlyHeaderText string `yaml:"monthly_header_text"`
	MonthlyStripeFill string `yaml:"monthly_stripe_fill"`
	MonthlyTitleText  string `yaml:"monthly_title_text"`
}

type DailyLayout struct {
	TitleCell           string          `yaml:"title_cell"`
	TitleFormat         string          `yaml:"title_format"`
	ColumnWidths        []float64       `yaml:"column_widths"`
	Zoom                float64         `yaml:"zoom"`
	DepartmentRowHeight float64         `yaml:"department_row_height"`
	RowHeight           float64         `yaml:"row_height"`
	TotalRowHeight      float64         `yaml:"total_row_height"`
	TotalLabel          string          `yaml:"total_label"`
	TimeFormat          string          `yaml:"time_format"`
	OvertimeFormat      string          `yaml:"overtime_format"`
	Footer              string          `yaml:"footer"`
	Signature           SignatureLayout `yaml:"signature"`
}

type SignatureLayout struct {
	LabelRowHeight float64          `yaml:"label_row_height"`
	LineRowHeight  float64          `yaml:"line_row_height"`
	LineOffset     int              `yaml:"line_offset"`
	LineText       string           `yaml:"line_text"`
	Labels         []SignatureLabel `yaml:"labels"`
}

type SignatureLabel struct {
	Column int    `yaml:"column"`
	Text   string `yaml:"text"`
}

type HistoryLayout struct {
	TitleSize      float64 `yaml:"title_size"`
	RowHeight      float64 `yaml:"row_height"`
	TotalLabelSize float64 `yaml:"total_label_size"`
	TotalCountSize float64 `yaml:"total_count_size"`
	Footer         string  `yaml:"footer"`
}

type MonthlyLayout struct {
	TitleCell          string           `yaml:"title_cell"`
	TitleFormat        string           `yaml:"title_format"`
	InfoRow            int              `yaml:"info_row"`
	ColumnWidths       []float64        `yaml:"column_widths"`
	Zoom               float64          `yaml:"zoom"`
	RowHeight          float64          `yaml:"row_height"`
	Headers            []string         `yaml:"headers"`
	SignatureRowHeight float64          `yaml:"signature_row_height"`
	Signatures         []SignatureLabel `yaml:"signatures"`
}

type DepartmentLayout struct {
	First    string `yaml:"first"`
	Fallback string `yaml:"fallback"`
}

type JobTitleLayout struct {
	Default      string            `yaml:"default"`
	ByDepartment map[string]string `yaml:"by_department"`
}

// DefaultLayout returns the built-in layout.
func DefaultLayout() *Layout {
	l, err := ParseLayout(defaultLayoutYAML)
	if err != nil {
		panic("report: invalid embedded layout: " + err.Error())
	}
	return l
}

// LoadLayout reads a layout file. Fields missing from the file keep their
// built-in values. An empty path returns the default layout.
func LoadLayout(path string) (*Layout, error) {
	if path == "" {
		return DefaultLayout(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout file: %w", err)
	}
	return ParseLayout(data)
}

// ParseLayout decodes data on top of the built-in layout and validates it.
func ParseLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(defaultLayoutYAML, &l); err != nil {
		return nil, fmt.Errorf("failed to parse default layout: %w", err)
	}
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	if err := ValidateLayout(&l); err != nil {
		return nil, err
	}
	return &l, nil
}

// ValidateLayout checks a layout for values the renderers cannot use.
func ValidateLayout(l *Layout) error {
	var errs []error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(l.Template.HeaderRows > 0, "template.header_rows must be positive")
	check(l.Template.HeaderColumns >= 8, "template.header_columns must be at least 8")
	check(l.Template.FirstDataRow > l.Template.HeaderRows, "template.first_data_row must follow the header rows")
	check(l.Font.Name != "" && l.Font.Size > 0, "font.name and font.size are required")

	check(len(l.Daily.ColumnWidths) == 8, "daily.column_widths needs 8 entries, got %d", len(l.Daily.ColumnWidths))
	check(strings.Count(l.Daily.TitleFormat, "%s") == 1, "daily.title_format must contain exactly one %%s")
	check(l.Daily.Signature.LineOffset > 0, "daily.signature.line_offset must be positive")
	for _, lbl := range append(append([]SignatureLabel{}, l.Daily.Signature.Labels...), l.Monthly.Signatures...) {
		check(lbl.Column >= 1 && lbl.Column <= 8, "signature column %d out of range 1-8", lbl.Column)
	}

	check(len(l.Monthly.ColumnWidths) == 6, "monthly.column_widths needs 6 entries, got %d", len(l.Monthly.ColumnWidths))
	check(len(l.Monthly.Headers) == 6, "monthly.headers needs 6 entries, got %d", len(l.Monthly.Headers))
	check(strings.Count(l.Monthly.TitleFormat, "%s") == 1, "monthly.title_format must contain exactly one %%s")
	check(l.Monthly.InfoRow >= 1 && l.Monthly.InfoRow <= l.Template.HeaderRows, "monthly.info_row must be a header row")

	for _, cell := range []string{l.Daily.TitleCell, l.Monthly.TitleCell} {
		_, row, err := excelize.CellNameToCoordinates(cell)
		check(err == nil && row <= l.Template.HeaderRows, "title cell %q must be a header cell", cell)
	}
	for _, w := range append(append([]float64{}, l.Daily.ColumnWidths...), l.Monthly.ColumnWidths...) {
		check(w > 0, "column widths must be positive")
	}

	return errors.Join(errs...)
}

// JobTitle returns job, or the department's default title when job is blank.
func (l *Layout) JobTitle(job, department string) string {
	if strings.TrimSpace(job) != "" {
		return job
	}
	if title, ok := l.JobTitles.ByDepartment[department]; ok {
		return title
	}
	return l.JobTitles.Default
}

// DepartmentKey groups a blank department under the fallback name.
func (l *Layout) DepartmentKey(department string) string {
	if department == "" {
		return l.Departments.Fallback
	}
	return department
}
