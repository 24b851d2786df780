package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type timetableRunner interface {
	StartRun(ctx context.Context, req dto.StartRunRequest) (*dto.RunResponse, error)
	GetRun(ctx context.Context, runID string) (*dto.RunResponse, error)
	Progress(ctx context.Context, runID string) (*models.RunProgress, error)
	List(ctx context.Context, query dto.RunListQuery) ([]models.TimetableRun, *models.Pagination, error)
	Cancel(ctx context.Context, runID string) error
	Delete(ctx context.Context, runID string) error
	Export(ctx context.Context, runID, format string) ([]byte, string, string, error)
}

// TimetableHandler exposes run lifecycle endpoints.
type TimetableHandler struct {
	service timetableRunner
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc *service.RunService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Start launches a timetable run. Synchronous runs answer with the full
// result; asynchronous runs answer 202 with the run id to poll.
func (h *TimetableHandler) Start(c *gin.Context) {
	var req dto.StartRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid run payload"))
		return
	}
	result, err := h.service.StartRun(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if req.Async {
		response.Accepted(c, result)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Get returns a stored run with sessions and failure reports.
func (h *TimetableHandler) Get(c *gin.Context) {
	result, err := h.service.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Progress reports live placement progress for a run.
func (h *TimetableHandler) Progress(c *gin.Context) {
	progress, err := h.service.Progress(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progress, nil)
}

// List returns stored runs, optionally filtered by status.
func (h *TimetableHandler) List(c *gin.Context) {
	var query dto.RunListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid run query"))
		return
	}
	runs, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, runs, pagination)
}

// Cancel requests cooperative cancellation of an in-flight run.
func (h *TimetableHandler) Cancel(c *gin.Context) {
	if err := h.service.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"runId": c.Param("id"), "status": "cancelling"}, nil)
}

// Delete removes a finished run and its sessions.
func (h *TimetableHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export streams the run result as CSV or PDF.
func (h *TimetableHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	payload, contentType, filename, err := h.service.Export(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
