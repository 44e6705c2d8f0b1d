package handler

import "github.com/labstack/echo/v4"

// Handlers groups every route handler of the API.
type Handlers struct {
	Employee   *EmployeeHandler
	Attendance *AttendanceHandler
	Report     *ReportHandler
	Backup     *BackupHandler
	Sync       *SyncHandler
}

// Register mounts all routes on e.
func (h *Handlers) Register(e *echo.Echo) {
	e.GET("/employees", h.Employee.ListHandler)
	e.POST("/employees", h.Employee.CreateHandler)
	e.PUT("/employees/:name", h.Employee.UpdateHandler)
	e.DELETE("/employees/:name", h.Employee.DeleteHandler)
	e.GET("/departments", h.Employee.DepartmentsHandler)

	att := e.Group("/attendance")
	att.GET("/search", h.Attendance.SearchHandler)
	att.GET("/:date", h.Attendance.ListHandler)
	att.GET("/:date/stats", h.Attendance.StatsHandler)
	att.POST("/:date/records/:name", h.Attendance.RecordHandler)
	att.POST("/:date/batch", h.Attendance.BatchHandler)
	att.POST("/:date/reset", h.Attendance.ResetHandler)
	att.GET("/:date/summary", h.Attendance.SummaryHandler)
	att.POST("/:date/summary/share", h.Attendance.ShareSummaryHandler)

	reports := e.Group("/reports")
	reports.GET("/daily/:date", h.Report.DailyHandler)
	reports.GET("/history", h.Report.HistoryHandler)
	reports.POST("/monthly", h.Report.MonthlyHandler)

	e.GET("/backup", h.Backup.ExportHandler)
	e.POST("/backup", h.Backup.ImportHandler)

	e.GET("/sync/status", h.Sync.StatusHandler)
	e.POST("/sync/reload", h.Sync.ReloadHandler)
}
