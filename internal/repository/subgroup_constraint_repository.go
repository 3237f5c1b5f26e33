package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edustack/uni-schedule-api/internal/models"
)

// SubgroupConstraintRepository reads required subgroup counts.
type SubgroupConstraintRepository struct {
	db *sqlx.DB
}

// NewSubgroupConstraintRepository creates a new subgroup constraint repository.
func NewSubgroupConstraintRepository(db *sqlx.DB) *SubgroupConstraintRepository {
	return &SubgroupConstraintRepository{db: db}
}

// List returns all subgroup constraints ordered by id.
func (r *SubgroupConstraintRepository) List(ctx context.Context) ([]models.SubgroupConstraint, error) {
	const query = `SELECT id, schedule_id, group_id, course_id, subgroup_count FROM subgroup_constraints ORDER BY id ASC`
	var constraints []models.SubgroupConstraint
	if err := r.db.SelectContext(ctx, &constraints, query); err != nil {
		return nil, fmt.Errorf("list subgroup constraints: %w", err)
	}
	return constraints, nil
}
