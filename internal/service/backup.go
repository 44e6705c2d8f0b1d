package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/locvowork/timekeeper/internal/domain"
)

// BackupFileName is the download name of a backup taken at now.
func BackupFileName(now time.Time) string {
	return fmt.Sprintf("TimeKeeper_Backup_%s.json", now.Format("2006-01-02"))
}

// ExportBackup snapshots the whole state into a backup file body.
func (s *AttendanceService) ExportBackup() ([]byte, string, error) {
	state := s.State()
	now := s.now()
	backup := domain.Backup{
		Employees:  state.Employees,
		History:    state.History,
		Version:    domain.BackupVersion,
		ExportDate: now.UTC().Format(time.RFC3339Nano),
	}
	b, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("encode backup: %w", err)
	}
	return b, BackupFileName(now.In(s.loc)), nil
}

// ImportBackup replaces the whole state with the content of a backup file.
// The file must carry both "employees" and "history"; nothing changes on error.
func (s *AttendanceService) ImportBackup(ctx context.Context, data []byte) (domain.State, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.State{}, &domain.ImportError{Reason: "file is not valid JSON", Err: err}
	}
	for _, key := range []string{"employees", "history"} {
		if v, ok := raw[key]; !ok || string(v) == "null" {
			return domain.State{}, &domain.ImportError{Reason: fmt.Sprintf("missing %q", key)}
		}
	}

	var next domain.State
	if err := json.Unmarshal(raw["employees"], &next.Employees); err != nil {
		return domain.State{}, &domain.ImportError{Reason: "invalid employees", Err: err}
	}
	if err := json.Unmarshal(raw["history"], &next.History); err != nil {
		return domain.State{}, &domain.ImportError{Reason: "invalid history", Err: err}
	}
	if next.Employees == nil {
		next.Employees = []domain.Employee{}
	}

	s.mu.Lock()
	s.state = next.Clone()
	s.mu.Unlock()

	s.committed(ctx)
	return next, nil
}
