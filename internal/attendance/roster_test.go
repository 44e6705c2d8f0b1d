package attendance

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/timekeeper/internal/domain"
)

func TestAddEmployee(t *testing.T) {
	roster := []domain.Employee{{Name: "A"}}

	out, err := AddEmployee(roster, domain.Employee{Name: "  B ", Job: " Dev ", Department: "IT"})
	require.NoError(t, err)
	assert.Equal(t, domain.Employee{Name: "B", Job: "Dev", Department: "IT"}, out[1])
	assert.Len(t, roster, 1)

	_, err = AddEmployee(roster, domain.Employee{Name: " A"})
	assert.True(t, domain.IsValidation(err))

	_, err = AddEmployee(roster, domain.Employee{Name: "   "})
	assert.True(t, domain.IsValidation(err))
}

func TestRenameEmployee_Cascades(t *testing.T) {
	in := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	out := in.Add(8 * time.Hour)
	leave := StatusLeave
	roster := []domain.Employee{{Name: "A", Department: "IT", Job: "Dev"}, {Name: "C"}}
	history := domain.History{
		"2024-03-01": {{Name: "A", Department: "IT", Job: "Dev", CheckIn: &in, CheckOut: &out}, {Name: "C"}},
		"2024-03-02": {{Name: "A", Department: "IT", Job: "Dev", Status: &leave}},
	}

	newRoster, newHistory, err := RenameEmployee(roster, history, "A", domain.Employee{Name: "B", Department: "HSE", Job: "Officer"})
	require.NoError(t, err)

	assert.Equal(t, domain.Employee{Name: "B", Department: "HSE", Job: "Officer"}, newRoster[0])
	for date, records := range newHistory {
		for _, r := range records {
			assert.NotEqual(t, "A", r.Name, date)
		}
	}
	day1 := newHistory["2024-03-01"][0]
	assert.Equal(t, "B", day1.Name)
	assert.Equal(t, "HSE", day1.Department)
	assert.True(t, in.Equal(*day1.CheckIn))
	assert.True(t, out.Equal(*day1.CheckOut))
	day2 := newHistory["2024-03-02"][0]
	assert.Equal(t, "B", day2.Name)
	assert.Equal(t, StatusLeave, day2.StatusText())

	// inputs untouched
	assert.Equal(t, "A", roster[0].Name)
	assert.Equal(t, "A", history["2024-03-01"][0].Name)
}

func TestRenameEmployee_Rejections(t *testing.T) {
	roster := []domain.Employee{{Name: "A"}, {Name: "B"}}

	_, _, err := RenameEmployee(roster, domain.History{}, "A", domain.Employee{Name: " "})
	assert.True(t, domain.IsValidation(err))

	_, _, err = RenameEmployee(roster, domain.History{}, "A", domain.Employee{Name: "B"})
	assert.True(t, domain.IsValidation(err))

	_, _, err = RenameEmployee(roster, domain.History{}, "missing", domain.Employee{Name: "Z"})
	assert.True(t, errors.Is(err, domain.ErrEmployeeNotFound))

	// keeping the same name while changing job is allowed
	out, _, err := RenameEmployee(roster, domain.History{}, "A", domain.Employee{Name: "A", Job: "Lead"})
	require.NoError(t, err)
	assert.Equal(t, "Lead", out[0].Job)
}

func TestRemoveEmployee(t *testing.T) {
	roster := []domain.Employee{{Name: "A"}, {Name: "B"}, {Name: "C"}}
	out, err := RemoveEmployee(roster, "B")
	require.NoError(t, err)
	assert.Equal(t, []domain.Employee{{Name: "A"}, {Name: "C"}}, out)

	_, err = RemoveEmployee(roster, "Z")
	assert.ErrorIs(t, err, domain.ErrEmployeeNotFound)
}

func TestDepartments(t *testing.T) {
	roster := []domain.Employee{{Department: "IT"}, {Department: "Admin"}, {Department: "IT"}}
	assert.Equal(t, []string{"Admin", "IT"}, Departments(roster))
}
