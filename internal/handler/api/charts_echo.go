package api

import (
	"errors"
	"net/http"

	models "OddsCast/internal/domain/models"
	"OddsCast/internal/usecase"
	xhttp "OddsCast/pkg/http"
	xlogger "OddsCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ChartsEchoHandler exposes the read and write API surface consumed by
// the web layer.
type ChartsEchoHandler struct {
	logger *xlogger.Logger
	series *usecase.SeriesUseCase
	rec    *usecase.Recorder
}

func NewChartsEchoHandler(logger *xlogger.Logger, series *usecase.SeriesUseCase, rec *usecase.Recorder) *ChartsEchoHandler {
	return &ChartsEchoHandler{logger: logger, series: series, rec: rec}
}

func (h *ChartsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/history", h.History)
	g.GET("/chart", h.Chart)
	g.GET("/download", h.Download)
	g.POST("/record", h.Record)
}

// History returns every snapshot in the log.
func (h *ChartsEchoHandler) History(c echo.Context) error {
	snaps, err := h.series.GetAllSnapshots()
	if err != nil {
		h.logger.Error("history read error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("could not read history").WithError(err))
	}
	return xhttp.SuccessResponse(c, snaps)
}

// Chart returns the simplified series for a window and tolerance.
func (h *ChartsEchoHandler) Chart(c echo.Context) error {
	req := &models.ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	series, err := h.series.GetSimplifiedSeries(req.Window, req.Epsilon)
	if err != nil {
		h.logger.Error("chart usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("could not build chart").WithError(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=30")
	return xhttp.SuccessResponse(c, series)
}

// Download streams the raw log, byte-identical to the on-disk format.
func (h *ChartsEchoHandler) Download(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/x-ndjson")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="snapshots.jsonl"`)
	c.Response().WriteHeader(http.StatusOK)

	if err := h.series.Export(c.Response()); err != nil {
		h.logger.Error("download export error", xlogger.Error(err))
		return err
	}
	return nil
}

// Record triggers one ingestion cycle. A skipped cycle leaves state
// unchanged and is not an error to the caller.
func (h *ChartsEchoHandler) Record(c echo.Context) error {
	err := h.rec.RecordCycle(c.Request().Context())
	if err != nil {
		if errors.Is(err, usecase.ErrCycleSkipped) {
			return xhttp.SuccessResponse(c, map[string]string{"result": "skipped"})
		}
		h.logger.Error("record cycle error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("cycle failed").WithError(err))
	}
	return xhttp.SuccessResponse(c, map[string]string{"result": "recorded"})
}
