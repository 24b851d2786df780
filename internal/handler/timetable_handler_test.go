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

type timetableRunnerMock struct {
	captured   dto.StartRunRequest
	startResp  *dto.RunResponse
	startErr   error
	getResp    *dto.RunResponse
	getErr     error
	cancelErr  error
	deleteErr  error
	exportBody []byte
}

func (m *timetableRunnerMock) StartRun(_ context.Context, req dto.StartRunRequest) (*dto.RunResponse, error) {
	m.captured = req
	return m.startResp, m.startErr
}

func (m *timetableRunnerMock) GetRun(context.Context, string) (*dto.RunResponse, error) {
	return m.getResp, m.getErr
}

func (m *timetableRunnerMock) Progress(context.Context, string) (*models.RunProgress, error) {
	return &models.RunProgress{RunID: "run-1", Processed: 2, Total: 4, Status: models.RunStatusRunning}, nil
}

func (m *timetableRunnerMock) List(context.Context, dto.RunListQuery) ([]models.TimetableRun, *models.Pagination, error) {
	return []models.TimetableRun{{ID: "run-1", Status: models.RunStatusCompleted}}, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, nil
}

func (m *timetableRunnerMock) Cancel(context.Context, string) error {
	return m.cancelErr
}

func (m *timetableRunnerMock) Delete(context.Context, string) error {
	return m.deleteErr
}

func (m *timetableRunnerMock) Export(context.Context, string, string) ([]byte, string, string, error) {
	return m.exportBody, "text/csv", "timetable-run-1.csv", nil
}

func newTimetableTestContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestTimetableHandlerStartSync(t *testing.T) {
	mockSvc := &timetableRunnerMock{startResp: &dto.RunResponse{RunID: "run-1", Status: models.RunStatusCompleted}}
	h := &TimetableHandler{service: mockSvc}

	payload := []byte(`{"requests":[{"subject":"Math","departmentCode":"MIPA","instructor":"Siti","classType":"lecture","durationHours":2}],"seed":42}`)
	c, w := newTimetableTestContext(t, http.MethodPost, "/timetable/runs", payload)

	h.Start(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, mockSvc.captured.Requests, 1)
	require.NotNil(t, mockSvc.captured.Seed)
	require.EqualValues(t, 42, *mockSvc.captured.Seed)
}

func TestTimetableHandlerStartAsyncAccepted(t *testing.T) {
	mockSvc := &timetableRunnerMock{startResp: &dto.RunResponse{RunID: "run-1", Status: models.RunStatusPending}}
	h := &TimetableHandler{service: mockSvc}

	c, w := newTimetableTestContext(t, http.MethodPost, "/timetable/runs", []byte(`{"async":true}`))

	h.Start(c)

	require.Equal(t, http.StatusAccepted, w.Code)
}

func TestTimetableHandlerStartBadJSON(t *testing.T) {
	h := &TimetableHandler{service: &timetableRunnerMock{}}

	c, w := newTimetableTestContext(t, http.MethodPost, "/timetable/runs", []byte(`{"requests":`))

	h.Start(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimetableHandlerStartServiceError(t *testing.T) {
	mockSvc := &timetableRunnerMock{startErr: appErrors.Clone(appErrors.ErrValidation, "no class requests to schedule")}
	h := &TimetableHandler{service: mockSvc}

	c, w := newTimetableTestContext(t, http.MethodPost, "/timetable/runs", []byte(`{}`))

	h.Start(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimetableHandlerGet(t *testing.T) {
	mockSvc := &timetableRunnerMock{getResp: &dto.RunResponse{RunID: "run-1", Status: models.RunStatusCompleted}}
	h := &TimetableHandler{service: mockSvc}

	c, w := newTimetableTestContext(t, http.MethodGet, "/timetable/runs/run-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "run-1"}}

	h.Get(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data dto.RunResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "run-1", envelope.Data.RunID)
}

func TestTimetableHandlerGetNotFound(t *testing.T) {
	mockSvc := &timetableRunnerMock{getErr: appErrors.Clone(appErrors.ErrNotFound, "run not found")}
	h := &TimetableHandler{service: mockSvc}

	c, w := newTimetableTestContext(t, http.MethodGet, "/timetable/runs/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	h.Get(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTimetableHandlerProgress(t *testing.T) {
	h := &TimetableHandler{service: &timetableRunnerMock{}}

	c, w := newTimetableTestContext(t, http.MethodGet, "/timetable/runs/run-1/progress", nil)
	c.Params = gin.Params{{Key: "id", Value: "run-1"}}

	h.Progress(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data models.RunProgress `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, 2, envelope.Data.Processed)
	require.Equal(t, 4, envelope.Data.Total)
}

func TestTimetableHandlerList(t *testing.T) {
	h := &TimetableHandler{service: &timetableRunnerMock{}}

	c, w := newTimetableTestContext(t, http.MethodGet, "/timetable/runs?status=completed", nil)

	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data       []models.TimetableRun `json:"data"`
		Pagination *models.Pagination    `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	require.NotNil(t, envelope.Pagination)
}

func TestTimetableHandlerCancelConflict(t *testing.T) {
	mockSvc := &timetableRunnerMock{cancelErr: appErrors.Clone(appErrors.ErrConflict, "run is completed, nothing to cancel")}
	h := &TimetableHandler{service: mockSvc}

	c, w := newTimetableTestContext(t, http.MethodPost, "/timetable/runs/run-1/cancel", nil)
	c.Params = gin.Params{{Key: "id", Value: "run-1"}}

	h.Cancel(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestTimetableHandlerDelete(t *testing.T) {
	h := &TimetableHandler{service: &timetableRunnerMock{}}

	c, w := newTimetableTestContext(t, http.MethodDelete, "/timetable/runs/run-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "run-1"}}

	h.Delete(c)
	c.Writer.WriteHeaderNow()

	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestTimetableHandlerExport(t *testing.T) {
	mockSvc := &timetableRunnerMock{exportBody: []byte("Day,Start,End,Subject,Instructor,Room\n")}
	h := &TimetableHandler{service: mockSvc}

	c, w := newTimetableTestContext(t, http.MethodGet, "/timetable/runs/run-1/export?format=csv", nil)
	c.Params = gin.Params{{Key: "id", Value: "run-1"}}

	h.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	require.Contains(t, w.Header().Get("Content-Disposition"), "timetable-run-1.csv")
	require.Contains(t, w.Body.String(), "Subject")
}
