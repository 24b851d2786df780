package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type catalogManagerMock struct {
	capturedRoom  dto.RoomPayload
	capturedCSV   []byte
	createRoomErr error
}

func (m *catalogManagerMock) ListRooms(context.Context, models.RoomFilter) ([]models.Room, *models.Pagination, error) {
	return []models.Room{{ID: "room-1", Name: "R-101"}}, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, nil
}

func (m *catalogManagerMock) GetRoom(context.Context, string) (*models.Room, error) {
	return &models.Room{ID: "room-1", Name: "R-101"}, nil
}

func (m *catalogManagerMock) CreateRoom(_ context.Context, payload dto.RoomPayload) (*models.Room, error) {
	m.capturedRoom = payload
	if m.createRoomErr != nil {
		return nil, m.createRoomErr
	}
	return &models.Room{ID: "room-1", Name: payload.Name}, nil
}

func (m *catalogManagerMock) UpdateRoom(_ context.Context, _ string, payload dto.RoomPayload) (*models.Room, error) {
	m.capturedRoom = payload
	return &models.Room{ID: "room-1", Name: payload.Name}, nil
}

func (m *catalogManagerMock) DeleteRoom(context.Context, string) error { return nil }

func (m *catalogManagerMock) ImportRooms(_ context.Context, payload []byte) (*dto.ImportSummary, error) {
	m.capturedCSV = payload
	return &dto.ImportSummary{Imported: 2, Skipped: 1}, nil
}

func (m *catalogManagerMock) ListDepartments(context.Context) ([]models.Department, error) {
	return []models.Department{{ID: "dep-1", Code: "MIPA"}}, nil
}

func (m *catalogManagerMock) CreateDepartment(_ context.Context, payload dto.DepartmentPayload) (*models.Department, error) {
	return &models.Department{ID: "dep-1", Code: payload.Code, Name: payload.Name}, nil
}

func (m *catalogManagerMock) DeleteDepartment(context.Context, string) error { return nil }

func (m *catalogManagerMock) ListFixedSchedules(context.Context) ([]models.FixedSchedule, error) {
	return []models.FixedSchedule{{ID: "fix-1", Name: "Upacara"}}, nil
}

func (m *catalogManagerMock) CreateFixedSchedule(_ context.Context, payload dto.FixedSchedulePayload) (*models.FixedSchedule, error) {
	return &models.FixedSchedule{ID: "fix-1", Name: payload.Name, DayOfWeek: payload.DayOfWeek}, nil
}

func (m *catalogManagerMock) DeleteFixedSchedule(context.Context, string) error { return nil }

func (m *catalogManagerMock) ImportFixedSchedules(_ context.Context, payload []byte) (*dto.ImportSummary, error) {
	m.capturedCSV = payload
	return &dto.ImportSummary{Imported: 1}, nil
}

func newCatalogTestContext(t *testing.T, method, target, contentType string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	c.Request = req
	return c, w
}

func TestCatalogHandlerCreateRoom(t *testing.T) {
	mockSvc := &catalogManagerMock{}
	h := &CatalogHandler{service: mockSvc}

	payload := []byte(`{"name":"Lab Kimia","departmentCode":"IPA","exclusive":true,"tags":["lab"]}`)
	c, w := newCatalogTestContext(t, http.MethodPost, "/rooms", "application/json", payload)

	h.CreateRoom(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "Lab Kimia", mockSvc.capturedRoom.Name)
	require.True(t, mockSvc.capturedRoom.Exclusive)
}

func TestCatalogHandlerCreateRoomConflict(t *testing.T) {
	mockSvc := &catalogManagerMock{createRoomErr: appErrors.Clone(appErrors.ErrConflict, "room name already in use")}
	h := &CatalogHandler{service: mockSvc}

	c, w := newCatalogTestContext(t, http.MethodPost, "/rooms", "application/json", []byte(`{"name":"R-101"}`))

	h.CreateRoom(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestCatalogHandlerCreateRoomBadJSON(t *testing.T) {
	h := &CatalogHandler{service: &catalogManagerMock{}}

	c, w := newCatalogTestContext(t, http.MethodPost, "/rooms", "application/json", []byte(`{"name":`))

	h.CreateRoom(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogHandlerListRooms(t *testing.T) {
	h := &CatalogHandler{service: &catalogManagerMock{}}

	c, w := newCatalogTestContext(t, http.MethodGet, "/rooms?page=1&pageSize=20", "application/json", nil)

	h.ListRooms(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data       []models.Room      `json:"data"`
		Pagination *models.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	require.NotNil(t, envelope.Pagination)
}

func TestCatalogHandlerImportRooms(t *testing.T) {
	mockSvc := &catalogManagerMock{}
	h := &CatalogHandler{service: mockSvc}

	csv := "name,department,exclusive,priority,tags\nLab Kimia,IPA,true,true,lab\n"
	c, w := newCatalogTestContext(t, http.MethodPost, "/rooms/import", "text/csv", []byte(csv))

	h.ImportRooms(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []byte(csv), mockSvc.capturedCSV)
}

func TestCatalogHandlerImportRoomsEmptyBody(t *testing.T) {
	h := &CatalogHandler{service: &catalogManagerMock{}}

	c, w := newCatalogTestContext(t, http.MethodPost, "/rooms/import", "text/csv", nil)

	h.ImportRooms(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogHandlerCreateFixedSchedule(t *testing.T) {
	h := &CatalogHandler{service: &catalogManagerMock{}}

	payload := []byte(`{"name":"Upacara","dayOfWeek":"MONDAY","startTime":"07:00","endTime":"08:00"}`)
	c, w := newCatalogTestContext(t, http.MethodPost, "/fixed-schedules", "application/json", payload)

	h.CreateFixedSchedule(c)

	require.Equal(t, http.StatusCreated, w.Code)
}

func TestCatalogHandlerDeleteRoom(t *testing.T) {
	h := &CatalogHandler{service: &catalogManagerMock{}}

	c, w := newCatalogTestContext(t, http.MethodDelete, "/rooms/room-1", "application/json", nil)
	c.Params = gin.Params{{Key: "id", Value: "room-1"}}

	h.DeleteRoom(c)
	c.Writer.WriteHeaderNow()

	require.Equal(t, http.StatusNoContent, w.Code)
}
