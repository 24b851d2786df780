package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type stubRoomRepo struct {
	mu    sync.Mutex
	rooms map[string]*models.Room
}

func newStubRoomRepo() *stubRoomRepo {
	return &stubRoomRepo{rooms: make(map[string]*models.Room)}
}

func (s *stubRoomRepo) All(context.Context) ([]models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Room
	for _, room := range s.rooms {
		out = append(out, *room)
	}
	return out, nil
}

func (s *stubRoomRepo) List(_ context.Context, filter models.RoomFilter) ([]models.Room, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Room
	for _, room := range s.rooms {
		if filter.Department != "" && room.Department != filter.Department {
			continue
		}
		out = append(out, *room)
	}
	return out, len(out), nil
}

func (s *stubRoomRepo) FindByID(_ context.Context, id string) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *room
	return &copied, nil
}

func (s *stubRoomRepo) ExistsByName(_ context.Context, name, excludeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, room := range s.rooms {
		if room.Name == name && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubRoomRepo) Create(_ context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	copied := *room
	s.rooms[room.ID] = &copied
	return nil
}

func (s *stubRoomRepo) Update(_ context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.ID]; !ok {
		return sql.ErrNoRows
	}
	copied := *room
	s.rooms[room.ID] = &copied
	return nil
}

func (s *stubRoomRepo) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.rooms, id)
	return nil
}

type stubDepartmentRepo struct {
	mu          sync.Mutex
	departments map[string]*models.Department
}

func newStubDepartmentRepo(codes ...string) *stubDepartmentRepo {
	repo := &stubDepartmentRepo{departments: make(map[string]*models.Department)}
	for _, code := range codes {
		repo.departments[code] = &models.Department{ID: uuid.NewString(), Code: code, Name: code}
	}
	return repo
}

func (s *stubDepartmentRepo) All(context.Context) ([]models.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Department
	for _, department := range s.departments {
		out = append(out, *department)
	}
	return out, nil
}

func (s *stubDepartmentRepo) FindByCode(_ context.Context, code string) (*models.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	department, ok := s.departments[code]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *department
	return &copied, nil
}

func (s *stubDepartmentRepo) Create(_ context.Context, department *models.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if department.ID == "" {
		department.ID = uuid.NewString()
	}
	copied := *department
	s.departments[department.Code] = &copied
	return nil
}

func (s *stubDepartmentRepo) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for code, department := range s.departments {
		if department.ID == id {
			delete(s.departments, code)
			return nil
		}
	}
	return sql.ErrNoRows
}

type stubFixedRepo struct {
	mu      sync.Mutex
	entries map[string]*models.FixedSchedule
}

func newStubFixedRepo() *stubFixedRepo {
	return &stubFixedRepo{entries: make(map[string]*models.FixedSchedule)}
}

func (s *stubFixedRepo) All(context.Context) ([]models.FixedSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.FixedSchedule
	for _, entry := range s.entries {
		out = append(out, *entry)
	}
	return out, nil
}

func (s *stubFixedRepo) Create(_ context.Context, entry *models.FixedSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	copied := *entry
	s.entries[entry.ID] = &copied
	return nil
}

func (s *stubFixedRepo) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.entries, id)
	return nil
}

func newCatalogFixture(departmentCodes ...string) (*CatalogService, *stubRoomRepo, *stubFixedRepo) {
	rooms := newStubRoomRepo()
	fixed := newStubFixedRepo()
	svc := NewCatalogService(rooms, newStubDepartmentRepo(departmentCodes...), fixed, nil, nil)
	return svc, rooms, fixed
}

func TestCatalogServiceCreateRoom(t *testing.T) {
	svc, _, _ := newCatalogFixture("IPA")

	room, err := svc.CreateRoom(context.Background(), dto.RoomPayload{
		Name:       "Lab Kimia",
		Department: "IPA",
		Exclusive:  true,
		Tags:       []string{"lab"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, room.ID)
	assert.True(t, room.HasTag(models.TagLabCapable))
}

func TestCatalogServiceCreateRoomDuplicateName(t *testing.T) {
	svc, _, _ := newCatalogFixture("IPA")

	_, err := svc.CreateRoom(context.Background(), dto.RoomPayload{Name: "R-101"})
	require.NoError(t, err)

	_, err = svc.CreateRoom(context.Background(), dto.RoomPayload{Name: "R-101"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestCatalogServiceCreateRoomUnknownDepartment(t *testing.T) {
	svc, _, _ := newCatalogFixture("IPA")

	_, err := svc.CreateRoom(context.Background(), dto.RoomPayload{Name: "R-102", Department: "IPS"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCatalogServiceUpdateRoom(t *testing.T) {
	svc, _, _ := newCatalogFixture("IPA")

	room, err := svc.CreateRoom(context.Background(), dto.RoomPayload{Name: "R-101"})
	require.NoError(t, err)

	updated, err := svc.UpdateRoom(context.Background(), room.ID, dto.RoomPayload{Name: "R-101B", Department: "IPA", Priority: true})
	require.NoError(t, err)
	assert.Equal(t, "R-101B", updated.Name)
	assert.True(t, updated.Priority)
}

func TestCatalogServiceDeleteRoomNotFound(t *testing.T) {
	svc, _, _ := newCatalogFixture()

	err := svc.DeleteRoom(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCatalogServiceImportRooms(t *testing.T) {
	svc, rooms, _ := newCatalogFixture("IPA")

	csv := "name,department,exclusive,priority,tags\n" +
		"Lab Kimia,IPA,true,true,lab\n" +
		"R-201,,false,false,\n" +
		",IPA,false,false,\n"
	summary, err := svc.ImportRooms(context.Background(), []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, summary.Errors, 1)

	all, err := rooms.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCatalogServiceImportRoomsSkipsDuplicates(t *testing.T) {
	svc, _, _ := newCatalogFixture()

	_, err := svc.CreateRoom(context.Background(), dto.RoomPayload{Name: "R-301"})
	require.NoError(t, err)

	csv := "name,department,exclusive,priority,tags\nR-301,,false,false,\n"
	summary, err := svc.ImportRooms(context.Background(), []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)
}

func TestCatalogServiceCreateDepartment(t *testing.T) {
	svc, _, _ := newCatalogFixture()

	department, err := svc.CreateDepartment(context.Background(), dto.DepartmentPayload{Code: "MIPA", Name: "Matematika dan IPA"})
	require.NoError(t, err)
	assert.NotEmpty(t, department.ID)

	_, err = svc.CreateDepartment(context.Background(), dto.DepartmentPayload{Code: "MIPA", Name: "Duplicate"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestCatalogServiceCreateFixedSchedule(t *testing.T) {
	svc, _, _ := newCatalogFixture()

	entry, err := svc.CreateFixedSchedule(context.Background(), dto.FixedSchedulePayload{
		Name:      "Upacara",
		DayOfWeek: "monday",
		StartTime: "07:00",
		EndTime:   "08:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "MONDAY", entry.DayOfWeek)
}

func TestCatalogServiceCreateFixedScheduleInvalidWindow(t *testing.T) {
	svc, _, _ := newCatalogFixture()

	cases := []dto.FixedSchedulePayload{
		{Name: "Bad day", DayOfWeek: "FUNDAY", StartTime: "07:00", EndTime: "08:00"},
		{Name: "Bad clock", DayOfWeek: "MONDAY", StartTime: "7am", EndTime: "08:00"},
		{Name: "Inverted", DayOfWeek: "MONDAY", StartTime: "09:00", EndTime: "08:00"},
	}
	for _, payload := range cases {
		_, err := svc.CreateFixedSchedule(context.Background(), payload)
		require.Error(t, err, payload.Name)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
}

func TestCatalogServiceImportFixedSchedules(t *testing.T) {
	svc, _, fixed := newCatalogFixture()

	csv := "name,day_of_week,start_time,end_time,allow_classes\n" +
		"Upacara,MONDAY,07:00,08:00,false\n" +
		"Istirahat,FUNDAY,10:00,10:30,false\n"
	summary, err := svc.ImportFixedSchedules(context.Background(), []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)

	all, err := fixed.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
