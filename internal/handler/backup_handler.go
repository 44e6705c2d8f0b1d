package handler

import (
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"

	"github.com/locvowork/timekeeper/internal/domain"
	"github.com/locvowork/timekeeper/internal/service"
	"github.com/locvowork/timekeeper/internal/service/serviceutils"
)

// maxBackupSize bounds an uploaded backup file.
const maxBackupSize = 32 << 20

type BackupHandler struct {
	svc *service.AttendanceService
}

func NewBackupHandler(svc *service.AttendanceService) *BackupHandler {
	return &BackupHandler{svc: svc}
}

func (h *BackupHandler) ExportHandler(c echo.Context) error {
	data, name, err := h.svc.ExportBackup()
	if err != nil {
		return serviceutils.ResponseError(c, 0, "Failed to export backup", err)
	}
	return attachment(c, echo.MIMEApplicationJSONCharsetUTF8, name, data)
}

// ImportHandler replaces the whole state with an uploaded backup. The upload is
// the multipart field "file", or the raw request body otherwise.
func (h *BackupHandler) ImportHandler(c echo.Context) error {
	if c.FormValue("confirm") != "true" && c.QueryParam("confirm") != "true" {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Import must be confirmed",
			domain.NewValidationError("confirm", "importing replaces all current data; pass confirm=true"))
	}

	data, err := readUpload(c)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Failed to read backup file", err)
	}
	if !isText(data) {
		return serviceutils.ResponseError(c, 0, "Invalid backup file",
			&domain.ImportError{Reason: "file is not JSON (detected " + mimetype.Detect(data).String() + ")"})
	}

	state, err := h.svc.ImportBackup(c.Request().Context(), data)
	if err != nil {
		return serviceutils.ResponseError(c, 0, "Failed to import backup", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Backup imported successfully", map[string]int{
		"employees": len(state.Employees),
		"days":      len(state.History),
	})
}

func readUpload(c echo.Context) ([]byte, error) {
	var r io.Reader = c.Request().Body
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return io.ReadAll(io.LimitReader(r, maxBackupSize))
}

// isText reports whether data sniffs as JSON or any other text.
func isText(data []byte) bool {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is("application/json") || m.Is("text/plain") {
			return true
		}
	}
	return false
}
