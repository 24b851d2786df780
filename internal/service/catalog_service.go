package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gocarina/gocsv"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type roomRepository interface {
	All(ctx context.Context) ([]models.Room, error)
	List(ctx context.Context, filter models.RoomFilter) ([]models.Room, int, error)
	FindByID(ctx context.Context, id string) (*models.Room, error)
	ExistsByName(ctx context.Context, name string, excludeID string) (bool, error)
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id string) error
}

type departmentRepository interface {
	All(ctx context.Context) ([]models.Department, error)
	FindByCode(ctx context.Context, code string) (*models.Department, error)
	Create(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, id string) error
}

type fixedScheduleRepository interface {
	All(ctx context.Context) ([]models.FixedSchedule, error)
	Create(ctx context.Context, entry *models.FixedSchedule) error
	Delete(ctx context.Context, id string) error
}

// CatalogService manages the scheduling inputs that change rarely: rooms,
// departments and fixed schedules. Each timetable run snapshots this catalog.
type CatalogService struct {
	rooms       roomRepository
	departments departmentRepository
	fixed       fixedScheduleRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCatalogService wires catalog dependencies.
func NewCatalogService(
	rooms roomRepository,
	departments departmentRepository,
	fixed fixedScheduleRepository,
	validate *validator.Validate,
	logger *zap.Logger,
) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		rooms:       rooms,
		departments: departments,
		fixed:       fixed,
		validator:   validate,
		logger:      logger,
	}
}

// ListRooms returns rooms matching the filter with pagination metadata.
func (s *CatalogService) ListRooms(ctx context.Context, filter models.RoomFilter) ([]models.Room, *models.Pagination, error) {
	rooms, total, err := s.rooms.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return rooms, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// GetRoom returns one room.
func (s *CatalogService) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	return room, nil
}

// CreateRoom validates and persists a new room.
func (s *CatalogService) CreateRoom(ctx context.Context, payload dto.RoomPayload) (*models.Room, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	if err := s.ensureDepartmentExists(ctx, payload.Department); err != nil {
		return nil, err
	}

	exists, err := s.rooms.ExistsByName(ctx, payload.Name, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check room name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "room name already in use")
	}

	room := &models.Room{
		Name:       payload.Name,
		Department: payload.Department,
		Exclusive:  payload.Exclusive,
		Priority:   payload.Priority,
		Tags:       pq.StringArray(payload.Tags),
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create room")
	}
	return room, nil
}

// UpdateRoom applies the payload to an existing room.
func (s *CatalogService) UpdateRoom(ctx context.Context, id string, payload dto.RoomPayload) (*models.Room, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureDepartmentExists(ctx, payload.Department); err != nil {
		return nil, err
	}

	exists, err := s.rooms.ExistsByName(ctx, payload.Name, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check room name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "room name already in use")
	}

	room.Name = payload.Name
	room.Department = payload.Department
	room.Exclusive = payload.Exclusive
	room.Priority = payload.Priority
	room.Tags = pq.StringArray(payload.Tags)
	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update room")
	}
	return room, nil
}

// DeleteRoom removes a room.
func (s *CatalogService) DeleteRoom(ctx context.Context, id string) error {
	if err := s.rooms.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete room")
	}
	return nil
}

// ImportRooms bulk-loads rooms from CSV content. Rows that fail validation
// are skipped and reported, valid rows are still imported.
func (s *CatalogService) ImportRooms(ctx context.Context, payload []byte) (*dto.ImportSummary, error) {
	var rows []dto.RoomCSVRow
	if err := gocsv.UnmarshalBytes(payload, &rows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to parse rooms csv")
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "csv contains no rows")
	}

	summary := &dto.ImportSummary{}
	for i, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: name is required", i+1))
			continue
		}
		exists, err := s.rooms.ExistsByName(ctx, name, "")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check room name")
		}
		if exists {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: room %q already exists", i+1, name))
			continue
		}

		room := &models.Room{
			Name:       name,
			Department: strings.TrimSpace(row.Department),
			Exclusive:  row.Exclusive,
			Priority:   row.Priority,
			Tags:       splitTags(row.Tags),
		}
		if err := s.rooms.Create(ctx, room); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import room")
		}
		summary.Imported++
	}

	s.logger.Info("rooms imported", zap.Int("imported", summary.Imported), zap.Int("skipped", summary.Skipped))
	return summary, nil
}

// ListDepartments returns every department.
func (s *CatalogService) ListDepartments(ctx context.Context) ([]models.Department, error) {
	departments, err := s.departments.All(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}
	return departments, nil
}

// CreateDepartment validates and persists a new department.
func (s *CatalogService) CreateDepartment(ctx context.Context, payload dto.DepartmentPayload) (*models.Department, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}
	if _, err := s.departments.FindByCode(ctx, payload.Code); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "department code already in use")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check department code")
	}

	department := &models.Department{Code: payload.Code, Name: payload.Name}
	if err := s.departments.Create(ctx, department); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create department")
	}
	return department, nil
}

// DeleteDepartment removes a department.
func (s *CatalogService) DeleteDepartment(ctx context.Context, id string) error {
	if err := s.departments.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete department")
	}
	return nil
}

// ListFixedSchedules returns every fixed schedule entry.
func (s *CatalogService) ListFixedSchedules(ctx context.Context) ([]models.FixedSchedule, error) {
	entries, err := s.fixed.All(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fixed schedules")
	}
	return entries, nil
}

// CreateFixedSchedule validates and persists a recurring block.
func (s *CatalogService) CreateFixedSchedule(ctx context.Context, payload dto.FixedSchedulePayload) (*models.FixedSchedule, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fixed schedule payload")
	}
	if err := validateFixedScheduleWindow(payload.DayOfWeek, payload.StartTime, payload.EndTime); err != nil {
		return nil, err
	}

	entry := &models.FixedSchedule{
		Name:         payload.Name,
		DayOfWeek:    strings.ToUpper(strings.TrimSpace(payload.DayOfWeek)),
		StartTime:    payload.StartTime,
		EndTime:      payload.EndTime,
		AllowClasses: payload.AllowClasses,
	}
	if err := s.fixed.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create fixed schedule")
	}
	return entry, nil
}

// DeleteFixedSchedule removes a fixed schedule entry.
func (s *CatalogService) DeleteFixedSchedule(ctx context.Context, id string) error {
	if err := s.fixed.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "fixed schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete fixed schedule")
	}
	return nil
}

// ImportFixedSchedules bulk-loads fixed schedules from CSV content.
func (s *CatalogService) ImportFixedSchedules(ctx context.Context, payload []byte) (*dto.ImportSummary, error) {
	var rows []dto.FixedScheduleCSVRow
	if err := gocsv.UnmarshalBytes(payload, &rows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to parse fixed schedules csv")
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "csv contains no rows")
	}

	summary := &dto.ImportSummary{}
	for i, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: name is required", i+1))
			continue
		}
		if err := validateFixedScheduleWindow(row.DayOfWeek, row.StartTime, row.EndTime); err != nil {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: %s", i+1, appErrors.FromError(err).Message))
			continue
		}

		entry := &models.FixedSchedule{
			Name:         name,
			DayOfWeek:    strings.ToUpper(strings.TrimSpace(row.DayOfWeek)),
			StartTime:    row.StartTime,
			EndTime:      row.EndTime,
			AllowClasses: row.AllowClasses,
		}
		if err := s.fixed.Create(ctx, entry); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import fixed schedule")
		}
		summary.Imported++
	}

	s.logger.Info("fixed schedules imported", zap.Int("imported", summary.Imported), zap.Int("skipped", summary.Skipped))
	return summary, nil
}

func (s *CatalogService) ensureDepartmentExists(ctx context.Context, code string) error {
	if code == "" || s.departments == nil {
		return nil
	}
	if _, err := s.departments.FindByCode(ctx, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("department %s does not exist", code))
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}
	return nil
}

func validateFixedScheduleWindow(dayOfWeek, startTime, endTime string) error {
	if timetable.DayIndex(dayOfWeek) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day %q", dayOfWeek))
	}
	start, err := timetable.ParseClock(startTime)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid start time %q", startTime))
	}
	end, err := timetable.ParseClock(endTime)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid end time %q", endTime))
	}
	if end <= start {
		return appErrors.Clone(appErrors.ErrValidation, "end time must be after start time")
	}
	return nil
}

func splitTags(raw string) pq.StringArray {
	if strings.TrimSpace(raw) == "" {
		return pq.StringArray{}
	}
	parts := strings.Split(raw, ";")
	tags := make(pq.StringArray, 0, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
