package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/timekeeper/internal/domain"
	"github.com/locvowork/timekeeper/internal/service"
	"github.com/locvowork/timekeeper/internal/service/serviceutils"
)

type EmployeeHandler struct {
	svc *service.AttendanceService
}

func NewEmployeeHandler(svc *service.AttendanceService) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

func (h *EmployeeHandler) ListHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employees listed successfully", h.svc.Employees())
}

func (h *EmployeeHandler) CreateHandler(c echo.Context) error {
	var req EmployeeRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid employee", err)
	}

	emp, err := h.svc.AddEmployee(c.Request().Context(), domain.Employee(req))
	if err != nil {
		return serviceutils.ResponseError(c, 0, "Failed to add employee", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusCreated, "Employee added successfully", emp)
}

func (h *EmployeeHandler) UpdateHandler(c echo.Context) error {
	var req EmployeeRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid employee", err)
	}

	emp, err := h.svc.UpdateEmployee(c.Request().Context(), c.Param("name"), domain.Employee(req))
	if err != nil {
		return serviceutils.ResponseError(c, 0, "Failed to update employee", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employee updated successfully", emp)
}

func (h *EmployeeHandler) DeleteHandler(c echo.Context) error {
	if err := h.svc.RemoveEmployee(c.Request().Context(), c.Param("name")); err != nil {
		return serviceutils.ResponseError(c, 0, "Failed to remove employee", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employee removed successfully", nil)
}

func (h *EmployeeHandler) DepartmentsHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Departments listed successfully", h.svc.Departments())
}
