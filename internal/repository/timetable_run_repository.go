package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// TimetableRunRepository persists runs and their scheduled sessions.
type TimetableRunRepository struct {
	db *sqlx.DB
}

// NewTimetableRunRepository constructs repository.
func NewTimetableRunRepository(db *sqlx.DB) *TimetableRunRepository {
	return &TimetableRunRepository{db: db}
}

func (r *TimetableRunRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create inserts a run record.
func (r *TimetableRunRepository) Create(ctx context.Context, run *models.TimetableRun) error {
	if run == nil {
		return fmt.Errorf("run payload is nil")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Status == "" {
		run.Status = models.RunStatusPending
	}
	if len(run.Meta) == 0 {
		run.Meta = types.JSONText(`{}`)
	}
	now := time.Now().UTC()
	if run.CreatedAt.IsZero() {
		run.CreatedAt = now
	}
	run.UpdatedAt = now

	const query = `
INSERT INTO timetable_runs (id, status, requested, placed, meta, created_at, updated_at)
VALUES (:id, :status, :requested, :placed, :meta, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("insert timetable run: %w", err)
	}
	return nil
}

// UpdateStatus updates status, counters and optionally meta of a run.
func (r *TimetableRunRepository) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.RunStatus, requested, placed int, meta types.JSONText) error {
	target := r.exec(exec)
	now := time.Now().UTC()

	var (
		query string
		args  []interface{}
	)
	if len(meta) > 0 {
		query = `UPDATE timetable_runs SET status = $1, requested = $2, placed = $3, meta = $4, updated_at = $5 WHERE id = $6`
		args = []interface{}{status, requested, placed, meta, now, id}
	} else {
		query = `UPDATE timetable_runs SET status = $1, requested = $2, placed = $3, updated_at = $4 WHERE id = $5`
		args = []interface{}{status, requested, placed, now, id}
	}
	result, err := target.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update timetable run status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("timetable run rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindByID loads a run by its identifier.
func (r *TimetableRunRepository) FindByID(ctx context.Context, id string) (*models.TimetableRun, error) {
	const query = `SELECT id, status, requested, placed, meta, created_at, updated_at FROM timetable_runs WHERE id = $1`
	var run models.TimetableRun
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		return nil, err
	}
	return &run, nil
}

// List returns stored runs, newest first, optionally filtered by status.
func (r *TimetableRunRepository) List(ctx context.Context, status string, page, pageSize int) ([]models.TimetableRun, int, error) {
	base := "FROM timetable_runs WHERE 1=1"
	var args []interface{}
	if status != "" {
		base += " AND status = $1"
		args = append(args, status)
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf("SELECT id, status, requested, placed, meta, created_at, updated_at %s ORDER BY created_at DESC LIMIT %d OFFSET %d", base, pageSize, offset)
	var runs []models.TimetableRun
	if err := r.db.SelectContext(ctx, &runs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list timetable runs: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count timetable runs: %w", err)
	}
	return runs, total, nil
}

// InsertSessions bulk-inserts the scheduled sessions of a run.
func (r *TimetableRunRepository) InsertSessions(ctx context.Context, exec sqlx.ExtContext, sessions []models.ScheduledSession) error {
	if len(sessions) == 0 {
		return nil
	}
	target := r.exec(exec)

	var (
		placeholders []string
		args         []interface{}
	)
	now := time.Now().UTC()
	for i := range sessions {
		if sessions[i].ID == "" {
			sessions[i].ID = uuid.NewString()
		}
		if sessions[i].CreatedAt.IsZero() {
			sessions[i].CreatedAt = now
		}
		base := i * 11
		placeholders = append(placeholders, fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10, base+11))
		s := sessions[i]
		args = append(args, s.ID, s.RunID, s.RequestID, s.Subject, s.DayOfWeek, s.StartMinutes, s.EndMinutes, s.StartTime, s.EndTime, s.RoomID, s.Instructor)
	}

	query := fmt.Sprintf(`INSERT INTO scheduled_sessions
(id, run_id, request_id, subject, day_of_week, start_minutes, end_minutes, start_time, end_time, room_id, instructor)
VALUES %s`, strings.Join(placeholders, ","))
	if _, err := target.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert scheduled sessions: %w", err)
	}
	return nil
}

// ListSessions returns the scheduled sessions of a run ordered by day and
// start time.
func (r *TimetableRunRepository) ListSessions(ctx context.Context, runID string) ([]models.ScheduledSession, error) {
	const query = `SELECT id, run_id, request_id, subject, day_of_week, start_minutes, end_minutes, start_time, end_time, room_id, instructor, created_at
FROM scheduled_sessions WHERE run_id = $1 ORDER BY day_of_week, start_minutes`
	var sessions []models.ScheduledSession
	if err := r.db.SelectContext(ctx, &sessions, query, runID); err != nil {
		return nil, fmt.Errorf("list scheduled sessions: %w", err)
	}
	return sessions, nil
}

// Delete removes a run and its sessions.
func (r *TimetableRunRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM scheduled_sessions WHERE run_id = $1`, id); err != nil {
		return fmt.Errorf("delete run sessions: %w", err)
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM timetable_runs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete timetable run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("timetable run rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
