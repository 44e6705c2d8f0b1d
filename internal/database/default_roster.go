package database

import (
	_ "embed"
	"encoding/json"

	"github.com/locvowork/timekeeper/internal/domain"
)

//go:embed default_roster.json
var defaultRosterJSON []byte

// DefaultRoster returns the roster used when local storage holds none.
func DefaultRoster() []domain.Employee {
	var employees []domain.Employee
	if err := json.Unmarshal(defaultRosterJSON, &employees); err != nil {
		panic("database: invalid embedded default roster: " + err.Error())
	}
	return employees
}
