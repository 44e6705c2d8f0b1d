package report

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/locvowork/timekeeper/internal/domain"
)

type departmentGroup struct {
	Name    string
	Records []domain.AttendanceRecord
}

// groupByDepartment buckets records by department key, keeping record order
// inside each bucket. The configured first department leads; the rest follow
// in collation order.
func groupByDepartment(l *Layout, records []domain.AttendanceRecord) []departmentGroup {
	index := make(map[string]int)
	var groups []departmentGroup
	for _, r := range records {
		key := l.DepartmentKey(r.Department)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, departmentGroup{Name: key})
		}
		groups[i].Records = append(groups[i].Records, r)
	}

	col := collate.New(language.Und)
	first := l.Departments.First
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Name, groups[j].Name
		if a == first || b == first {
			return a == first && b != first
		}
		return col.CompareString(a, b) < 0
	})
	return groups
}
