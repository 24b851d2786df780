package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// FixedScheduleRepository handles persistence for administrator-defined
// recurring blocks.
type FixedScheduleRepository struct {
	db *sqlx.DB
}

// NewFixedScheduleRepository creates a new repository instance.
func NewFixedScheduleRepository(db *sqlx.DB) *FixedScheduleRepository {
	return &FixedScheduleRepository{db: db}
}

// All returns the full fixed-schedule catalog, the snapshot a run works from.
func (r *FixedScheduleRepository) All(ctx context.Context) ([]models.FixedSchedule, error) {
	const query = `SELECT id, name, day_of_week, start_time, end_time, allow_classes, created_at, updated_at
FROM fixed_schedules ORDER BY day_of_week, start_time`
	var entries []models.FixedSchedule
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list fixed schedules: %w", err)
	}
	return entries, nil
}

// Create persists a new fixed schedule.
func (r *FixedScheduleRepository) Create(ctx context.Context, entry *models.FixedSchedule) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	const query = `INSERT INTO fixed_schedules (id, name, day_of_week, start_time, end_time, allow_classes, created_at, updated_at)
VALUES (:id, :name, :day_of_week, :start_time, :end_time, :allow_classes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create fixed schedule: %w", err)
	}
	return nil
}

// Delete removes a fixed schedule record.
func (r *FixedScheduleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM fixed_schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete fixed schedule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("fixed schedule rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
