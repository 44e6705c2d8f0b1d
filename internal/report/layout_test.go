package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLayout(t *testing.T) {
	l := DefaultLayout()

	assert.NoError(t, ValidateLayout(l))
	assert.Equal(t, 6, l.Template.HeaderRows)
	assert.Len(t, l.Daily.ColumnWidths, 8)
	assert.Equal(t, "Construction", l.Departments.First)
}

func TestLayout_JobTitle(t *testing.T) {
	l := DefaultLayout()

	tests := []struct {
		job, dept, want string
	}{
		{"", "Construction", "Site Engineer"},
		{"  ", "IT", "IT Specialist"},
		{"Driver", "Construction", "Driver"},
		{"", "Unknown", "Employee"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, l.JobTitle(tt.job, tt.dept), tt.dept)
	}
}

func TestParseLayout_OverridesDefaults(t *testing.T) {
	l, err := ParseLayout([]byte("daily:\n  zoom: 90\njob_titles:\n  default: Staff\n"))
	require.NoError(t, err)

	assert.Equal(t, 90.0, l.Daily.Zoom)
	assert.Equal(t, "Staff", l.JobTitles.Default)
	assert.Equal(t, 40.0, l.Daily.RowHeight)
}

func TestParseLayout_Invalid(t *testing.T) {
	_, err := ParseLayout([]byte("daily:\n  column_widths: [1, 2]\n  title_format: no placeholder\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "daily.column_widths")
	assert.Contains(t, err.Error(), "daily.title_format")
}

func TestLoadLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("monthly:\n  zoom: 80\n"), 0o644))

	l, err := LoadLayout(path)
	require.NoError(t, err)
	assert.Equal(t, 80.0, l.Monthly.Zoom)

	_, err = LoadLayout(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	l, err = LoadLayout("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLayout(), l)
}
