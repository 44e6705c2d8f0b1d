package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/timekeeper/internal/attendance"
	"github.com/locvowork/timekeeper/internal/domain"
	"github.com/locvowork/timekeeper/internal/service"
	"github.com/locvowork/timekeeper/internal/service/serviceutils"
	"github.com/locvowork/timekeeper/internal/timeutil"
)

const defaultSearchLimit = 50

type AttendanceHandler struct {
	svc *service.AttendanceService
	now func() time.Time
}

func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{svc: svc, now: time.Now}
}

func (h *AttendanceHandler) ListHandler(c echo.Context) error {
	opts := attendance.FilterOptions{
		Status:     c.QueryParam("filter"),
		Department: c.QueryParam("department"),
		Search:     c.QueryParam("q"),
	}
	records, err := h.svc.FilteredAttendance(c.Param("date"), opts)
	if err != nil {
		return serviceutils.ResponseError(c, 0, "Failed to load attendance", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Attendance retrieved successfully", newRecordResponses(records, h.svc.Location()))
}

func (h *AttendanceHandler) StatsHandler(c echo.Context) error {
	stats, err := h.svc.Stats(c.Param("date"))
	if err != nil {
		return serviceutils.ResponseError(c, 0, "Failed to compute stats", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Stats computed successfully", StatsResponse{
		Total:     stats.Total,
		Present:   stats.Present,
		Completed: stats.Completed,
		Remaining: stats.Remaining,
		Working:   stats.Working(),
	})
}

func (h *AttendanceHandler) RecordHandler(c echo.Context) error {
	var req RecordActionRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid attendance action", err)
	}

	ctx := c.Request().Context()
	date, name := c.Param("date"), c.Param("name")

	var (
		rec domain.AttendanceRecord
		err error
	)
	if req.Action == "edit-time" {
		rec, err = h.svc.EditTime(ctx, date, name, req.Field, req.Time)
	} else {
		var m attendance.Mutation
		m, err = h.mutation(date, req.Action, req.Time, req.Status)
		if err == nil {
			rec, err = h.svc.UpdateRecord(ctx, date, name, m)
		}
	}
	if err != nil {
		return serviceutils.ResponseError(c, 0, "Failed to update attendance", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Attendance updated successfully", newRecordResponse(rec, h.svc.Location()))
}

func (h *AttendanceHandler) BatchHandler(c echo.Context) error {
	var req BatchRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid batch action", err)
	}

	date := c.Param("date")
	m, err := h.mutation(date, req.Action, req.Time, req.Status)
	if err != nil {
		return serviceutils.ResponseError(c, 0, "Invalid batch action", err)
	}
	result, err := h.svc.BatchUpdate(c.Request().Context(), date, req.Names, m)
	if err != nil {
		return serviceutils.ResponseError(c, 0, "Failed to update attendance", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Attendance updated successfully", result)
}

func (h *AttendanceHandler) ResetHandler(c echo.Context) error {
	if c.QueryParam("confirm") != "true" {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Reset must be confirmed",
			domain.NewValidationError("confirm", "pass confirm=true to reset the day"))
	}
	if err := h.svc.ResetDay(c.Request().Context(), c.Param("date")); err != nil {
		return serviceutils.ResponseError(c, 0, "Failed to reset day", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Day reset successfully", nil)
}

func (h *AttendanceHandler) SummaryHandler(c echo.Context) error {
	date := c.Param("date")
	text, err := h.svc.Summary(date)
	if err != nil {
		return serviceutils.ResponseError(c, 0, "Failed to build summary", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Summary built successfully", SummaryResponse{Date: date, Text: text})
}

func (h *AttendanceHandler) ShareSummaryHandler(c echo.Context) error {
	date := c.Param("date")
	text, err := h.svc.ShareSummary(c.Request().Context(), date)
	if err != nil {
		return serviceutils.ResponseError(c, 0, "Failed to share summary", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Summary shared successfully", SummaryResponse{Date: date, Text: text})
}

func (h *AttendanceHandler) SearchHandler(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	results, err := h.svc.SearchHistory(c.Request().Context(), c.QueryParam("q"), limit)
	if err != nil {
		return serviceutils.ResponseError(c, 0, "Failed to search attendance", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Search completed successfully", results)
}

// mutation turns a request action into a typed mutation. Times are taken on
// date; an empty clock means now.
func (h *AttendanceHandler) mutation(date, action, clock, status string) (attendance.Mutation, error) {
	m := attendance.Mutation{Action: attendance.Action(action), Status: status}
	if m.Action != attendance.ActionCheckIn && m.Action != attendance.ActionCheckOut {
		return m, m.Validate()
	}
	if clock == "" {
		m.At = h.now().In(h.svc.Location())
		return m, nil
	}
	at, err := timeutil.ParseClock(date, clock, h.svc.Location())
	if err != nil {
		return m, domain.NewValidationError("time", err.Error())
	}
	m.At = at
	return m, nil
}
