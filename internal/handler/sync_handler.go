package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/timekeeper/internal/service/serviceutils"
	"github.com/locvowork/timekeeper/internal/syncengine"
)

// SyncController is the part of the sync engine exposed over HTTP.
type SyncController interface {
	Status() syncengine.Status
	Reload()
}

type SyncHandler struct {
	engine SyncController
}

func NewSyncHandler(engine SyncController) *SyncHandler {
	return &SyncHandler{engine: engine}
}

func (h *SyncHandler) StatusHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Sync status retrieved successfully", h.engine.Status())
}

func (h *SyncHandler) ReloadHandler(c echo.Context) error {
	h.engine.Reload()
	return serviceutils.ResponseSuccess(c, http.StatusAccepted, "Reload requested", nil)
}
