package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/timekeeper/internal/report"
	"github.com/locvowork/timekeeper/internal/service"
	"github.com/locvowork/timekeeper/internal/service/serviceutils"
)

type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) DailyHandler(c echo.Context) error {
	out, err := h.svc.Daily(c.Request().Context(), c.Param("date"))
	if err != nil {
		return serviceutils.ResponseError(c, 0, "Failed to export daily report", err)
	}
	return attachment(c, report.ContentType, out.FileName, out.Data)
}

func (h *ReportHandler) HistoryHandler(c echo.Context) error {
	out, err := h.svc.History(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseError(c, 0, "Failed to export history", err)
	}
	return attachment(c, report.ContentType, out.FileName, out.Data)
}

func (h *ReportHandler) MonthlyHandler(c echo.Context) error {
	var req MonthlyReportRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid monthly report request", err)
	}

	out, err := h.svc.Monthly(c.Request().Context(), req.Names, req.Date)
	if err != nil {
		return serviceutils.ResponseError(c, 0, "Failed to export monthly timesheets", err)
	}
	return attachment(c, report.ContentType, out.FileName, out.Data)
}

func attachment(c echo.Context, contentType, fileName string, data []byte) error {
	c.Response().Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Response().Header().Set("Content-Transfer-Encoding", "binary")
	return c.Blob(http.StatusOK, contentType, data)
}
