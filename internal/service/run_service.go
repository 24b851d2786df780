package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/events"
	"github.com/noah-isme/sma-timetable-api/pkg/export"
	"github.com/noah-isme/sma-timetable-api/pkg/jobs"
)

type runRepository interface {
	Create(ctx context.Context, run *models.TimetableRun) error
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.RunStatus, requested, placed int, meta types.JSONText) error
	FindByID(ctx context.Context, id string) (*models.TimetableRun, error)
	List(ctx context.Context, status string, page, pageSize int) ([]models.TimetableRun, int, error)
	InsertSessions(ctx context.Context, exec sqlx.ExtContext, sessions []models.ScheduledSession) error
	ListSessions(ctx context.Context, runID string) ([]models.ScheduledSession, error)
	Delete(ctx context.Context, id string) error
}

type roomCatalogReader interface {
	All(ctx context.Context) ([]models.Room, error)
}

type fixedScheduleReader interface {
	All(ctx context.Context) ([]models.FixedSchedule, error)
}

type classRequestSource interface {
	All(ctx context.Context) ([]models.ClassRequest, error)
}

// ResultCache stores rendered run results. Implemented by the Redis-backed
// cache repository; a nil cache disables result caching.
type ResultCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RunEventPublisher announces completed runs to downstream consumers.
type RunEventPublisher interface {
	PublishRunCompleted(ctx context.Context, event events.RunCompletedEvent) error
}

type runTxProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type runMetricsRecorder interface {
	ObserveRun(status string, placed, unscheduled int, duration time.Duration)
	RecordCacheOperation(hit bool)
}

// RunServiceConfig governs run intake and execution behaviour.
type RunServiceConfig struct {
	Week         timetable.Week
	MaxBatchSize int
	Workers      int
	QueueBuffer  int
	CacheEnabled bool
	ResultTTL    time.Duration
}

// RunService orchestrates timetable runs: intake validation, synchronous and
// queued execution, persistence, progress tracking and result delivery.
type RunService struct {
	runs      runRepository
	rooms     roomCatalogReader
	fixed     fixedScheduleReader
	requests  classRequestSource
	cache     ResultCache
	publisher RunEventPublisher
	tx        runTxProvider
	metrics   runMetricsRecorder
	validator *validator.Validate
	logger    *zap.Logger

	week         timetable.Week
	maxBatchSize int
	cacheEnabled bool
	resultTTL    time.Duration

	queue   *jobs.Queue
	tracker *runTracker
}

// NewRunService wires run dependencies. Cache and publisher may be nil, the
// matching features are then disabled.
func NewRunService(
	runs runRepository,
	rooms roomCatalogReader,
	fixed fixedScheduleReader,
	requests classRequestSource,
	cache ResultCache,
	publisher RunEventPublisher,
	tx runTxProvider,
	metrics runMetricsRecorder,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg RunServiceConfig,
) *RunService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(cfg.Week.Days) == 0 {
		cfg.Week = timetable.DefaultWeek()
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = 512
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 10 * time.Minute
	}

	s := &RunService{
		runs:         runs,
		rooms:        rooms,
		fixed:        fixed,
		requests:     requests,
		cache:        cache,
		publisher:    publisher,
		tx:           tx,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
		week:         cfg.Week,
		maxBatchSize: cfg.MaxBatchSize,
		cacheEnabled: cfg.CacheEnabled && cache != nil,
		resultTTL:    cfg.ResultTTL,
		tracker:      newRunTracker(),
	}
	s.queue = jobs.NewQueue("timetable-runs", s.handleRunJob, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.QueueBuffer,
		Logger:     logger,
	})
	return s
}

// StartWorkers begins background run consumption.
func (s *RunService) StartWorkers(ctx context.Context) {
	s.queue.Start(ctx)
}

// StopWorkers drains the background workers.
func (s *RunService) StopWorkers() {
	s.queue.Stop()
}

type runJob struct {
	RunID    string
	Batch    []models.ClassRequest
	Rejected []models.RejectedRequest
	Seed     int64
}

type runMeta struct {
	Unscheduled []models.ClassRequest    `json:"unscheduled"`
	Rejected    []models.RejectedRequest `json:"rejected"`
	Stats       dto.RunStats             `json:"stats"`
}

// StartRun validates the batch, creates the run record and either executes it
// inline or hands it to the worker queue. An empty inline payload schedules
// the stored class-request catalog.
func (s *RunService) StartRun(ctx context.Context, req dto.StartRunRequest) (*dto.RunResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid run payload")
	}

	batch, err := s.resolveBatch(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(batch) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no class requests to schedule")
	}
	if len(batch) > s.maxBatchSize {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("batch exceeds maximum of %d requests", s.maxBatchSize))
	}

	valid, rejected := timetable.SplitValid(batch, s.week)

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	run := &models.TimetableRun{Status: models.RunStatusPending, Requested: len(batch)}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create run")
	}
	s.tracker.SetProgress(models.RunProgress{
		RunID:     run.ID,
		Total:     len(valid),
		Status:    models.RunStatusPending,
		UpdatedAt: time.Now().UTC(),
	})

	if req.Async {
		job := jobs.Job{
			ID:      uuid.NewString(),
			Type:    "run.execute",
			Payload: runJob{RunID: run.ID, Batch: valid, Rejected: rejected, Seed: seed},
		}
		if err := s.queue.Enqueue(job); err != nil {
			s.tracker.Remove(run.ID)
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue run")
		}
		return &dto.RunResponse{RunID: run.ID, Status: models.RunStatusPending}, nil
	}

	return s.execute(ctx, runJob{RunID: run.ID, Batch: valid, Rejected: rejected, Seed: seed})
}

func (s *RunService) resolveBatch(ctx context.Context, req dto.StartRunRequest) ([]models.ClassRequest, error) {
	if len(req.Requests) > 0 {
		batch := make([]models.ClassRequest, 0, len(req.Requests))
		for _, item := range req.Requests {
			id := item.ID
			if id == "" {
				id = uuid.NewString()
			}
			batch = append(batch, models.ClassRequest{
				ID:            id,
				Subject:       item.Subject,
				Department:    item.Department,
				Instructor:    item.Instructor,
				ClassType:     models.ClassType(item.ClassType),
				DurationHours: item.DurationHours,
			})
		}
		return batch, nil
	}

	if s.requests == nil {
		return nil, nil
	}
	stored, err := s.requests.All(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class requests")
	}
	return stored, nil
}

func (s *RunService) handleRunJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(runJob)
	if !ok {
		return fmt.Errorf("unexpected payload for job %s", job.ID)
	}
	_, err := s.execute(ctx, payload)
	return err
}

// execute runs the placement pipeline for one run and persists the outcome.
func (s *RunService) execute(ctx context.Context, job runJob) (*dto.RunResponse, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.tracker.SetCancel(job.RunID, cancel)
	defer s.tracker.ClearCancel(job.RunID)

	started := time.Now()

	if err := s.runs.UpdateStatus(ctx, nil, job.RunID, models.RunStatusRunning, len(job.Batch)+len(job.Rejected), 0, nil); err != nil {
		return nil, s.failRun(ctx, job.RunID, err, "failed to mark run running")
	}
	s.tracker.SetProgress(models.RunProgress{
		RunID:     job.RunID,
		Total:     len(job.Batch),
		Status:    models.RunStatusRunning,
		UpdatedAt: time.Now().UTC(),
	})

	rooms, err := s.rooms.All(ctx)
	if err != nil {
		return nil, s.failRun(ctx, job.RunID, err, "failed to load room catalog")
	}
	if len(rooms) == 0 {
		err := appErrors.Clone(appErrors.ErrPreconditionFailed, "no rooms defined, nothing can be scheduled")
		return nil, s.failRun(ctx, job.RunID, err, "empty room catalog")
	}
	fixed, err := s.fixed.All(ctx)
	if err != nil {
		return nil, s.failRun(ctx, job.RunID, err, "failed to load fixed schedules")
	}

	rng := rand.New(rand.NewSource(job.Seed))
	resolver := timetable.NewRoomResolver(rooms, rng)
	detector := timetable.NewConflictDetector(timetable.NewBlockRegistry(fixed))
	engine := timetable.NewEngine(s.week, resolver, detector, rng)
	runner := timetable.NewRunner(engine, rng, func(processed, total int, label string) {
		s.tracker.SetProgress(models.RunProgress{
			RunID:     job.RunID,
			Processed: processed,
			Total:     total,
			Current:   label,
			Status:    models.RunStatusRunning,
			UpdatedAt: time.Now().UTC(),
		})
	})

	var result *timetable.Result
	status := models.RunStatusCompleted
	if len(job.Batch) == 0 {
		result = &timetable.Result{}
	} else {
		result, err = runner.Run(runCtx, job.Batch)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				status = models.RunStatusCancelled
			} else {
				return nil, s.failRun(ctx, job.RunID, err, "placement failed")
			}
		}
	}

	sessions := make([]models.ScheduledSession, 0, len(result.Sessions))
	for _, session := range result.Sessions {
		sessions = append(sessions, models.ScheduledSession{
			RunID:        job.RunID,
			RequestID:    session.RequestID,
			Subject:      session.Subject,
			DayOfWeek:    session.Day,
			StartMinutes: session.Start,
			EndMinutes:   session.End,
			StartTime:    timetable.FormatMinutes(session.Start),
			EndTime:      timetable.FormatMinutes(session.End),
			RoomID:       session.RoomID,
			Instructor:   session.Instructor,
		})
	}

	requested := len(job.Batch) + len(job.Rejected)
	meta := runMeta{
		Unscheduled: result.Unscheduled,
		Rejected:    job.Rejected,
		Stats: dto.RunStats{
			Requested:   requested,
			Placed:      len(sessions),
			Unscheduled: len(result.Unscheduled),
			Rejected:    len(job.Rejected),
			DurationMs:  time.Since(started).Milliseconds(),
			Seed:        job.Seed,
		},
	}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return nil, s.failRun(ctx, job.RunID, err, "failed to encode run metadata")
	}

	if err := s.persist(ctx, job.RunID, status, requested, sessions, types.JSONText(metaBytes)); err != nil {
		return nil, s.failRun(ctx, job.RunID, err, "failed to persist run result")
	}

	s.tracker.SetProgress(models.RunProgress{
		RunID:     job.RunID,
		Processed: len(job.Batch),
		Total:     len(job.Batch),
		Status:    status,
		UpdatedAt: time.Now().UTC(),
	})

	response := &dto.RunResponse{
		RunID:       job.RunID,
		Status:      status,
		Sessions:    sessions,
		Unscheduled: result.Unscheduled,
		Rejected:    job.Rejected,
		Stats:       &meta.Stats,
	}

	if s.cacheEnabled {
		if err := s.cache.Set(ctx, runCacheKey(job.RunID), response, s.resultTTL); err != nil {
			s.logger.Warn("failed to cache run result", zap.String("run_id", job.RunID), zap.Error(err))
		}
	}
	if s.publisher != nil {
		event := events.RunCompletedEvent{
			RunID:       job.RunID,
			Status:      string(status),
			Requested:   requested,
			Placed:      len(sessions),
			Unscheduled: len(result.Unscheduled),
			CompletedAt: time.Now().UTC(),
		}
		if err := s.publisher.PublishRunCompleted(ctx, event); err != nil {
			s.logger.Warn("failed to publish run event", zap.String("run_id", job.RunID), zap.Error(err))
		}
	}

	if s.metrics != nil {
		s.metrics.ObserveRun(string(status), len(sessions), len(result.Unscheduled), time.Since(started))
	}

	s.logger.Info("timetable run finished",
		zap.String("run_id", job.RunID),
		zap.String("status", string(status)),
		zap.Int("requested", requested),
		zap.Int("placed", len(sessions)),
		zap.Int("unscheduled", len(result.Unscheduled)),
		zap.Int("rejected", len(job.Rejected)))

	return response, nil
}

func (s *RunService) persist(ctx context.Context, runID string, status models.RunStatus, requested int, sessions []models.ScheduledSession, meta types.JSONText) error {
	if s.tx == nil {
		if err := s.runs.InsertSessions(ctx, nil, sessions); err != nil {
			return err
		}
		return s.runs.UpdateStatus(ctx, nil, runID, status, requested, len(sessions), meta)
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run transaction: %w", err)
	}
	if err := s.runs.InsertSessions(ctx, tx, sessions); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := s.runs.UpdateStatus(ctx, tx, runID, status, requested, len(sessions), meta); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run transaction: %w", err)
	}
	return nil
}

func (s *RunService) failRun(ctx context.Context, runID string, cause error, message string) error {
	s.logger.Error("timetable run failed", zap.String("run_id", runID), zap.Error(cause))
	if err := s.runs.UpdateStatus(ctx, nil, runID, models.RunStatusFailed, 0, 0, nil); err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.logger.Error("failed to mark run failed", zap.String("run_id", runID), zap.Error(err))
	}
	s.tracker.SetProgress(models.RunProgress{
		RunID:     runID,
		Status:    models.RunStatusFailed,
		UpdatedAt: time.Now().UTC(),
	})
	var appErr *appErrors.Error
	if errors.As(cause, &appErr) {
		return cause
	}
	return appErrors.Wrap(cause, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

// GetRun returns a stored run with its sessions and reported failures.
func (s *RunService) GetRun(ctx context.Context, runID string) (*dto.RunResponse, error) {
	if runID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "run id is required")
	}

	if s.cacheEnabled {
		var cached dto.RunResponse
		err := s.cache.Get(ctx, runCacheKey(runID), &cached)
		if err == nil {
			if s.metrics != nil {
				s.metrics.RecordCacheOperation(true)
			}
			return &cached, nil
		}
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(false)
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("run cache lookup failed", zap.String("run_id", runID), zap.Error(err))
		}
	}

	run, err := s.runs.FindByID(ctx, runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "run not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load run")
	}

	response := &dto.RunResponse{RunID: run.ID, Status: run.Status}
	if run.Status == models.RunStatusPending || run.Status == models.RunStatusRunning {
		return response, nil
	}

	sessions, err := s.runs.ListSessions(ctx, runID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load run sessions")
	}
	response.Sessions = sessions

	if len(run.Meta) > 0 {
		var meta runMeta
		if err := json.Unmarshal(run.Meta, &meta); err != nil {
			s.logger.Warn("failed to decode run metadata", zap.String("run_id", runID), zap.Error(err))
		} else {
			response.Unscheduled = meta.Unscheduled
			response.Rejected = meta.Rejected
			response.Stats = &meta.Stats
		}
	}

	if s.cacheEnabled && run.Status == models.RunStatusCompleted {
		if err := s.cache.Set(ctx, runCacheKey(runID), response, s.resultTTL); err != nil {
			s.logger.Warn("failed to cache run result", zap.String("run_id", runID), zap.Error(err))
		}
	}
	return response, nil
}

// Progress reports live progress for a run. Finished runs fall back to the
// stored record.
func (s *RunService) Progress(ctx context.Context, runID string) (*models.RunProgress, error) {
	if progress, ok := s.tracker.Progress(runID); ok {
		return &progress, nil
	}

	run, err := s.runs.FindByID(ctx, runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "run not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load run")
	}
	return &models.RunProgress{
		RunID:     run.ID,
		Processed: run.Placed,
		Total:     run.Requested,
		Status:    run.Status,
		UpdatedAt: run.UpdatedAt,
	}, nil
}

// List returns stored runs with pagination metadata.
func (s *RunService) List(ctx context.Context, query dto.RunListQuery) ([]models.TimetableRun, *models.Pagination, error) {
	runs, total, err := s.runs.List(ctx, query.Status, query.Page, query.PageSize)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list runs")
	}
	page := query.Page
	if page < 1 {
		page = 1
	}
	size := query.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return runs, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Cancel requests cooperative cancellation of a run in flight.
func (s *RunService) Cancel(ctx context.Context, runID string) error {
	if runID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "run id is required")
	}
	if s.tracker.Cancel(runID) {
		return nil
	}

	run, err := s.runs.FindByID(ctx, runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "run not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load run")
	}
	return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("run is %s, nothing to cancel", run.Status))
}

// Delete removes a finished run and its sessions.
func (s *RunService) Delete(ctx context.Context, runID string) error {
	if runID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "run id is required")
	}
	if progress, ok := s.tracker.Progress(runID); ok {
		if progress.Status == models.RunStatusRunning || progress.Status == models.RunStatusPending {
			return appErrors.Clone(appErrors.ErrConflict, "run is still in progress")
		}
	}

	if err := s.runs.Delete(ctx, runID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "run not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete run")
	}
	s.tracker.Remove(runID)
	if s.cacheEnabled {
		if err := s.cache.Delete(ctx, runCacheKey(runID)); err != nil {
			s.logger.Warn("failed to evict run cache", zap.String("run_id", runID), zap.Error(err))
		}
	}
	return nil
}

// Export renders a finished run as CSV or PDF.
func (s *RunService) Export(ctx context.Context, runID, format string) ([]byte, string, string, error) {
	response, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, "", "", err
	}
	if response.Status == models.RunStatusPending || response.Status == models.RunStatusRunning {
		return nil, "", "", appErrors.Clone(appErrors.ErrConflict, "run has not finished yet")
	}

	dataset := export.Dataset{
		Headers: []string{"Day", "Start", "End", "Subject", "Instructor", "Room"},
	}
	for _, session := range response.Sessions {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Day":        timetable.DayName(session.DayOfWeek),
			"Start":      session.StartTime,
			"End":        session.EndTime,
			"Subject":    session.Subject,
			"Instructor": session.Instructor,
			"Room":       session.RoomID,
		})
	}

	switch format {
	case "csv", "":
		payload, err := export.RenderCSV(dataset)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", fmt.Sprintf("timetable-%s.csv", runID), nil
	case "pdf":
		payload, err := export.RenderPDF(dataset, "Weekly Timetable")
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", fmt.Sprintf("timetable-%s.pdf", runID), nil
	default:
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func runCacheKey(runID string) string {
	return "timetable:run:" + runID
}

// --- Run tracker ---

// runTracker keeps live progress and cancellation handles for in-flight runs.
type runTracker struct {
	mu       sync.RWMutex
	progress map[string]models.RunProgress
	cancels  map[string]context.CancelFunc
}

func newRunTracker() *runTracker {
	return &runTracker{
		progress: make(map[string]models.RunProgress),
		cancels:  make(map[string]context.CancelFunc),
	}
}

func (t *runTracker) SetProgress(progress models.RunProgress) {
	t.mu.Lock()
	t.progress[progress.RunID] = progress
	t.mu.Unlock()
}

func (t *runTracker) Progress(runID string) (models.RunProgress, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	progress, ok := t.progress[runID]
	return progress, ok
}

func (t *runTracker) SetCancel(runID string, cancel context.CancelFunc) {
	t.mu.Lock()
	t.cancels[runID] = cancel
	t.mu.Unlock()
}

func (t *runTracker) ClearCancel(runID string) {
	t.mu.Lock()
	delete(t.cancels, runID)
	t.mu.Unlock()
}

func (t *runTracker) Cancel(runID string) bool {
	t.mu.RLock()
	cancel, ok := t.cancels[runID]
	t.mu.RUnlock()
	if ok {
		cancel()
	}
	return ok
}

func (t *runTracker) Remove(runID string) {
	t.mu.Lock()
	delete(t.progress, runID)
	delete(t.cancels, runID)
	t.mu.Unlock()
}
