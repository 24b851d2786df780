package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type classRequestManager interface {
	List(ctx context.Context, filter models.ClassRequestFilter) ([]models.ClassRequest, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.ClassRequest, error)
	Create(ctx context.Context, payload dto.ClassRequestPayload) (*models.ClassRequest, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// ClassRequestHandler exposes the stored demand catalog endpoints.
type ClassRequestHandler struct {
	service classRequestManager
}

// NewClassRequestHandler constructs the handler.
func NewClassRequestHandler(svc *service.ClassRequestService) *ClassRequestHandler {
	return &ClassRequestHandler{service: svc}
}

// List returns stored class requests with filters and pagination.
func (h *ClassRequestHandler) List(c *gin.Context) {
	filter := models.ClassRequestFilter{
		Department: c.Query("department"),
		Instructor: c.Query("instructor"),
		ClassType:  c.Query("classType"),
	}
	filter.Page = intQuery(c, "page")
	filter.PageSize = intQuery(c, "pageSize")

	requests, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, pagination)
}

// Get returns one stored class request.
func (h *ClassRequestHandler) Get(c *gin.Context) {
	request, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request, nil)
}

// Create stores a class request for later scheduling.
func (h *ClassRequestHandler) Create(c *gin.Context) {
	var payload dto.ClassRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid class request payload"))
		return
	}
	request, err := h.service.Create(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, request)
}

// Delete removes one stored class request.
func (h *ClassRequestHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Clear empties the stored catalog.
func (h *ClassRequestHandler) Clear(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
