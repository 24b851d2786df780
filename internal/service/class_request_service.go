package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type classRequestRepository interface {
	All(ctx context.Context) ([]models.ClassRequest, error)
	List(ctx context.Context, filter models.ClassRequestFilter) ([]models.ClassRequest, int, error)
	FindByID(ctx context.Context, id string) (*models.ClassRequest, error)
	Create(ctx context.Context, request *models.ClassRequest) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

type departmentChecker interface {
	FindByCode(ctx context.Context, code string) (*models.Department, error)
}

// ClassRequestService manages the stored demand catalog a run schedules when
// no inline batch is submitted.
type ClassRequestService struct {
	requests    classRequestRepository
	departments departmentChecker
	validator   *validator.Validate
	logger      *zap.Logger
	week        timetable.Week
}

// NewClassRequestService wires class request dependencies.
func NewClassRequestService(
	requests classRequestRepository,
	departments departmentChecker,
	validate *validator.Validate,
	logger *zap.Logger,
	week timetable.Week,
) *ClassRequestService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(week.Days) == 0 {
		week = timetable.DefaultWeek()
	}
	return &ClassRequestService{
		requests:    requests,
		departments: departments,
		validator:   validate,
		logger:      logger,
		week:        week,
	}
}

// List returns stored class requests matching the filter.
func (s *ClassRequestService) List(ctx context.Context, filter models.ClassRequestFilter) ([]models.ClassRequest, *models.Pagination, error) {
	requests, total, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class requests")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return requests, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one stored class request.
func (s *ClassRequestService) Get(ctx context.Context, id string) (*models.ClassRequest, error) {
	request, err := s.requests.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class request")
	}
	return request, nil
}

// Create validates and stores a class request. Validation mirrors run intake
// so a stored request never fails intake later.
func (s *ClassRequestService) Create(ctx context.Context, payload dto.ClassRequestPayload) (*models.ClassRequest, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class request payload")
	}

	request := models.ClassRequest{
		Subject:       payload.Subject,
		Department:    payload.Department,
		Instructor:    payload.Instructor,
		ClassType:     models.ClassType(payload.ClassType),
		DurationHours: payload.DurationHours,
	}
	if err := timetable.ValidateRequest(request, s.week); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if s.departments != nil {
		if _, err := s.departments.FindByCode(ctx, payload.Department); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "department does not exist")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
		}
	}

	if err := s.requests.Create(ctx, &request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class request")
	}
	return &request, nil
}

// Delete removes one stored class request.
func (s *ClassRequestService) Delete(ctx context.Context, id string) error {
	if err := s.requests.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class request not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class request")
	}
	return nil
}

// Clear empties the stored catalog, typically before loading a new term.
func (s *ClassRequestService) Clear(ctx context.Context) error {
	if err := s.requests.Clear(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear class requests")
	}
	s.logger.Info("class request catalog cleared")
	return nil
}
