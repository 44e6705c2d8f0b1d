package serviceutils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/timekeeper/internal/domain"
	"github.com/locvowork/timekeeper/internal/logger"
)

// Response is the JSON envelope of every API reply.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ResponseSuccess writes a success envelope.
func ResponseSuccess(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Response{Success: true, Message: message, Data: data})
}

// ResponseError writes an error envelope. A zero status is derived from err.
func ResponseError(c echo.Context, status int, message string, err error) error {
	if status == 0 {
		status = StatusFor(err)
	}
	resp := Response{Success: false, Message: message}
	if err != nil {
		resp.Error = err.Error()
		if status >= http.StatusInternalServerError {
			logger.ErrorLog(c.Request().Context(), "%s: %v", message, err)
		}
	}
	return c.JSON(status, resp)
}

// StatusFor maps domain errors onto HTTP status codes.
func StatusFor(err error) int {
	var (
		validation *domain.ValidationError
		importErr  *domain.ImportError
		httpErr    *echo.HTTPError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation), errors.As(err, &importErr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmployeeNotFound), errors.Is(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.As(err, &httpErr):
		return httpErr.Code
	default:
		return http.StatusInternalServerError
	}
}
