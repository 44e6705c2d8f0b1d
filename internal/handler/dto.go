package handler

import (
	"time"

	"github.com/locvowork/timekeeper/internal/domain"
	"github.com/locvowork/timekeeper/internal/timeutil"
)

// EmployeeRequest creates or updates a roster entry.
type EmployeeRequest struct {
	Name       string `json:"name" validate:"required"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// RecordActionRequest is one attendance action. Time is "HH:mm" on the path
// date; when empty the current time is used. Field selects the time edited by
// edit-time.
type RecordActionRequest struct {
	Action string `json:"action" validate:"required,oneof=check-in check-out status clear-status clear-check-in clear-check-out edit-time"`
	Time   string `json:"time" validate:"omitempty,clock"`
	Status string `json:"status" validate:"required_if=Action status"`
	Field  string `json:"field" validate:"omitempty,oneof=checkIn checkOut"`
}

// BatchRequest applies one action to the selected employees.
type BatchRequest struct {
	Names  []string `json:"names" validate:"required,min=1,dive,required"`
	Action string   `json:"action" validate:"required,oneof=check-in check-out status clear-status clear-check-in clear-check-out"`
	Time   string   `json:"time" validate:"omitempty,clock"`
	Status string   `json:"status" validate:"required_if=Action status"`
}

// MonthlyReportRequest selects the employees and month of a timesheet export.
type MonthlyReportRequest struct {
	Names []string `json:"names"`
	Date  string   `json:"date" validate:"omitempty,isodate"`
}

// SummaryResponse is the rendered daily summary.
type SummaryResponse struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

// StatsResponse adds the derived working count to the day counters.
type StatsResponse struct {
	Total     int `json:"total"`
	Present   int `json:"present"`
	Completed int `json:"completed"`
	Remaining int `json:"remaining"`
	Working   int `json:"working"`
}

// RecordResponse is a record with its times rendered for display.
type RecordResponse struct {
	domain.AttendanceRecord
	CheckInTime  string `json:"checkInTime"`
	CheckOutTime string `json:"checkOutTime"`
	WorkedHours  string `json:"workedHours"`
}

func newRecordResponse(r domain.AttendanceRecord, loc *time.Location) RecordResponse {
	return RecordResponse{
		AttendanceRecord: r,
		CheckInTime:      timeutil.FormatClock(r.CheckIn, loc),
		CheckOutTime:     timeutil.FormatClock(r.CheckOut, loc),
		WorkedHours:      timeutil.WorkedHours(r.CheckIn, r.CheckOut),
	}
}

func newRecordResponses(records []domain.AttendanceRecord, loc *time.Location) []RecordResponse {
	out := make([]RecordResponse, len(records))
	for i, r := range records {
		out[i] = newRecordResponse(r, loc)
	}
	return out
}
