package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// ClassRequestRepository handles persistence for pending class requests.
type ClassRequestRepository struct {
	db *sqlx.DB
}

// NewClassRequestRepository creates a new repository instance.
func NewClassRequestRepository(db *sqlx.DB) *ClassRequestRepository {
	return &ClassRequestRepository{db: db}
}

// All returns every stored class request, the default batch for a run.
func (r *ClassRequestRepository) All(ctx context.Context) ([]models.ClassRequest, error) {
	const query = `SELECT id, subject, department_code, instructor, class_type, duration_hours, created_at, updated_at
FROM class_requests ORDER BY created_at`
	var requests []models.ClassRequest
	if err := r.db.SelectContext(ctx, &requests, query); err != nil {
		return nil, fmt.Errorf("list all class requests: %w", err)
	}
	return requests, nil
}

// List returns class requests matching filters with pagination metadata.
func (r *ClassRequestRepository) List(ctx context.Context, filter models.ClassRequestFilter) ([]models.ClassRequest, int, error) {
	base := "FROM class_requests WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department_code = $%d", len(args)+1))
		args = append(args, filter.Department)
	}
	if filter.Instructor != "" {
		conditions = append(conditions, fmt.Sprintf("instructor = $%d", len(args)+1))
		args = append(args, filter.Instructor)
	}
	if filter.ClassType != "" {
		conditions = append(conditions, fmt.Sprintf("class_type = $%d", len(args)+1))
		args = append(args, filter.ClassType)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, subject, department_code, instructor, class_type, duration_hours, created_at, updated_at %s ORDER BY created_at LIMIT %d OFFSET %d", base, size, offset)
	var requests []models.ClassRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list class requests: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count class requests: %w", err)
	}

	return requests, total, nil
}

// FindByID returns a class request by id.
func (r *ClassRequestRepository) FindByID(ctx context.Context, id string) (*models.ClassRequest, error) {
	const query = `SELECT id, subject, department_code, instructor, class_type, duration_hours, created_at, updated_at
FROM class_requests WHERE id = $1`
	var request models.ClassRequest
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		return nil, err
	}
	return &request, nil
}

// Create persists a new class request.
func (r *ClassRequestRepository) Create(ctx context.Context, request *models.ClassRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if request.CreatedAt.IsZero() {
		request.CreatedAt = now
	}
	request.UpdatedAt = now

	const query = `INSERT INTO class_requests (id, subject, department_code, instructor, class_type, duration_hours, created_at, updated_at)
VALUES (:id, :subject, :department_code, :instructor, :class_type, :duration_hours, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		return fmt.Errorf("create class request: %w", err)
	}
	return nil
}

// Delete removes a class request record.
func (r *ClassRequestRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM class_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete class request: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("class request rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Clear removes every stored class request.
func (r *ClassRequestRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM class_requests`); err != nil {
		return fmt.Errorf("clear class requests: %w", err)
	}
	return nil
}
