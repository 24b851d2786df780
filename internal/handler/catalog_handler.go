package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

// Import payloads larger than this are rejected before parsing.
const maxImportBytes = 2 << 20

type catalogManager interface {
	ListRooms(ctx context.Context, filter models.RoomFilter) ([]models.Room, *models.Pagination, error)
	GetRoom(ctx context.Context, id string) (*models.Room, error)
	CreateRoom(ctx context.Context, payload dto.RoomPayload) (*models.Room, error)
	UpdateRoom(ctx context.Context, id string, payload dto.RoomPayload) (*models.Room, error)
	DeleteRoom(ctx context.Context, id string) error
	ImportRooms(ctx context.Context, payload []byte) (*dto.ImportSummary, error)
	ListDepartments(ctx context.Context) ([]models.Department, error)
	CreateDepartment(ctx context.Context, payload dto.DepartmentPayload) (*models.Department, error)
	DeleteDepartment(ctx context.Context, id string) error
	ListFixedSchedules(ctx context.Context) ([]models.FixedSchedule, error)
	CreateFixedSchedule(ctx context.Context, payload dto.FixedSchedulePayload) (*models.FixedSchedule, error)
	DeleteFixedSchedule(ctx context.Context, id string) error
	ImportFixedSchedules(ctx context.Context, payload []byte) (*dto.ImportSummary, error)
}

// CatalogHandler exposes room, department and fixed-schedule endpoints.
type CatalogHandler struct {
	service catalogManager
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// ListRooms returns the room catalog with filters and pagination.
func (h *CatalogHandler) ListRooms(c *gin.Context) {
	filter := models.RoomFilter{
		Department: c.Query("department"),
		Search:     c.Query("search"),
		SortBy:     c.Query("sortBy"),
		SortOrder:  c.Query("sortOrder"),
	}
	filter.Page = intQuery(c, "page")
	filter.PageSize = intQuery(c, "pageSize")

	rooms, pagination, err := h.service.ListRooms(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, pagination)
}

// GetRoom returns one room.
func (h *CatalogHandler) GetRoom(c *gin.Context) {
	room, err := h.service.GetRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, room, nil)
}

// CreateRoom adds a room to the catalog.
func (h *CatalogHandler) CreateRoom(c *gin.Context) {
	var payload dto.RoomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid room payload"))
		return
	}
	room, err := h.service.CreateRoom(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, room)
}

// UpdateRoom modifies a room.
func (h *CatalogHandler) UpdateRoom(c *gin.Context) {
	var payload dto.RoomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid room payload"))
		return
	}
	room, err := h.service.UpdateRoom(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, room, nil)
}

// DeleteRoom removes a room.
func (h *CatalogHandler) DeleteRoom(c *gin.Context) {
	if err := h.service.DeleteRoom(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ImportRooms bulk-loads rooms from a CSV request body.
func (h *CatalogHandler) ImportRooms(c *gin.Context) {
	payload, err := readImportBody(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, err := h.service.ImportRooms(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// ListDepartments returns every department.
func (h *CatalogHandler) ListDepartments(c *gin.Context) {
	departments, err := h.service.ListDepartments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, departments, nil)
}

// CreateDepartment adds a department.
func (h *CatalogHandler) CreateDepartment(c *gin.Context) {
	var payload dto.DepartmentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid department payload"))
		return
	}
	department, err := h.service.CreateDepartment(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, department)
}

// DeleteDepartment removes a department.
func (h *CatalogHandler) DeleteDepartment(c *gin.Context) {
	if err := h.service.DeleteDepartment(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListFixedSchedules returns every fixed schedule entry.
func (h *CatalogHandler) ListFixedSchedules(c *gin.Context) {
	entries, err := h.service.ListFixedSchedules(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// CreateFixedSchedule adds a recurring block.
func (h *CatalogHandler) CreateFixedSchedule(c *gin.Context) {
	var payload dto.FixedSchedulePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid fixed schedule payload"))
		return
	}
	entry, err := h.service.CreateFixedSchedule(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// DeleteFixedSchedule removes a fixed schedule entry.
func (h *CatalogHandler) DeleteFixedSchedule(c *gin.Context) {
	if err := h.service.DeleteFixedSchedule(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ImportFixedSchedules bulk-loads fixed schedules from a CSV request body.
func (h *CatalogHandler) ImportFixedSchedules(c *gin.Context) {
	payload, err := readImportBody(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, err := h.service.ImportFixedSchedules(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

func readImportBody(c *gin.Context) ([]byte, error) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes+1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read csv body")
	}
	if len(payload) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "csv body is empty")
	}
	if len(payload) > maxImportBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, "csv body exceeds the supported size")
	}
	return payload, nil
}
