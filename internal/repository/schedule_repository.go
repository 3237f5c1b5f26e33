package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edustack/uni-schedule-api/internal/models"
)

// ScheduleRepository persists generation runs.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// CreateWithTx stores a new schedule using the provided transaction. The
// label carries a unique constraint; a duplicate surfaces as a driver error.
func (r *ScheduleRepository) CreateWithTx(ctx context.Context, exec sqlx.ExtContext, schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO schedules (id, label, created_at) VALUES (:id, :label, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, schedule); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// List returns all generation runs, newest first.
func (r *ScheduleRepository) List(ctx context.Context) ([]models.Schedule, error) {
	const query = `SELECT id, label, created_at FROM schedules ORDER BY created_at DESC`
	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

// FindByID loads a schedule by id.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	const query = `SELECT id, label, created_at FROM schedules WHERE id = $1`
	var schedule models.Schedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// ExistsByLabel reports whether a schedule with the label already exists.
func (r *ScheduleRepository) ExistsByLabel(ctx context.Context, label string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM schedules WHERE label = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, label); err != nil {
		return false, fmt.Errorf("check schedule label: %w", err)
	}
	return exists, nil
}
