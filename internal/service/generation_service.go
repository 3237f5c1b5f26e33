package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/edustack/uni-schedule-api/internal/dto"
	"github.com/edustack/uni-schedule-api/internal/models"
	"github.com/edustack/uni-schedule-api/internal/solver"
	appErrors "github.com/edustack/uni-schedule-api/pkg/errors"
	"github.com/edustack/uni-schedule-api/pkg/lock"
)

const generationLockKey = "schedule:generation:lock"

type instanceBuilder interface {
	Build(ctx context.Context) (*dto.SolverInstance, []string, error)
}

type solverGateway interface {
	Submit(ctx context.Context, req dto.SolveRequest) (string, error)
	AwaitResult(ctx context.Context, jobID string) (*dto.SolverJobResult, error)
}

type scheduleCreator interface {
	CreateWithTx(ctx context.Context, exec sqlx.ExtContext, schedule *models.Schedule) error
	ExistsByLabel(ctx context.Context, label string) (bool, error)
}

type assignmentWriter interface {
	BulkCreateWithTx(ctx context.Context, exec sqlx.ExtContext, assignments []models.Assignment) error
}

type subgroupConstraintLister interface {
	List(ctx context.Context) ([]models.SubgroupConstraint, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// GenerationService orchestrates one full generation run: build the solver
// instance, submit it, await the result, translate and persist it.
type GenerationService struct {
	builder     instanceBuilder
	solver      solverGateway
	schedules   scheduleCreator
	assignments assignmentWriter
	courses     courseLister
	timeslots   timeslotLister
	subgroups   subgroupConstraintLister
	tx          txProvider
	locker      lock.Mutex
	lockTTL     time.Duration
	validator   *validator.Validate
	logger      *zap.Logger
	metrics     *MetricsService
}

// GenerationConfig governs orchestrator behaviour.
type GenerationConfig struct {
	LockTTL time.Duration
}

// NewGenerationService wires the orchestrator's dependencies. Locker may be
// nil, in which case concurrent runs are not serialised.
func NewGenerationService(
	builder instanceBuilder,
	gateway solverGateway,
	schedules scheduleCreator,
	assignments assignmentWriter,
	courses courseLister,
	timeslots timeslotLister,
	subgroups subgroupConstraintLister,
	tx txProvider,
	locker lock.Mutex,
	validate *validator.Validate,
	logger *zap.Logger,
	metrics *MetricsService,
	cfg GenerationConfig,
) *GenerationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 10 * time.Minute
	}
	return &GenerationService{
		builder:     builder,
		solver:      gateway,
		schedules:   schedules,
		assignments: assignments,
		courses:     courses,
		timeslots:   timeslots,
		subgroups:   subgroups,
		tx:          tx,
		locker:      locker,
		lockTTL:     cfg.LockTTL,
		validator:   validate,
		logger:      logger,
		metrics:     metrics,
	}
}

// Generate runs the whole build, solve, translate and persist pipeline.
// Only submission failures and solver-reported failures surface as errors;
// an infeasible or empty result still creates the schedule and returns an
// empty assignment list.
func (s *GenerationService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	start := time.Now()

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}

	exists, err := s.schedules.ExistsByLabel(ctx, req.Label)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check schedule label")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a schedule with this label already exists")
	}

	if s.locker != nil {
		acquired, err := s.locker.Acquire(ctx, generationLockKey, s.lockTTL)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to acquire generation lock")
		}
		if !acquired {
			return nil, appErrors.Clone(appErrors.ErrGenerationLocked, "")
		}
		defer func() {
			if err := s.locker.Release(context.WithoutCancel(ctx), generationLockKey); err != nil {
				s.logger.Warn("failed to release generation lock", zap.Error(err))
			}
		}()
	}

	instance, warnings, err := s.builder.Build(ctx)
	if err != nil {
		s.observe(GenerationOutcomeError, start, 0, 0)
		return nil, err
	}
	warnings = append(warnings, s.subgroupWarnings(ctx)...)

	instance.Policy = req.Policy
	jobID, err := s.solver.Submit(ctx, dto.SolveRequest{Instance: *instance, Params: req.Params})
	if err != nil {
		s.observe(GenerationOutcomeSubmitFailed, start, 0, 0)
		return nil, appErrors.Wrap(err, appErrors.ErrSolverSubmit.Code, appErrors.ErrSolverSubmit.Status, "schedule generation failed at submission")
	}
	s.logger.Info("solver job submitted", zap.String("job_id", jobID), zap.String("label", req.Label))

	result, err := s.solver.AwaitResult(ctx, jobID)
	if err != nil {
		var solverErr *solver.Error
		if errors.As(err, &solverErr) {
			s.observe(GenerationOutcomeSolverFailed, start, 0, 0)
			// The detail goes into the message so callers see why the run died.
			return nil, appErrors.Wrap(err, appErrors.ErrSolverFailed.Code, appErrors.ErrSolverFailed.Status, "schedule generation failed at solve time: "+solverErr.Detail)
		}
		s.observe(GenerationOutcomeError, start, 0, 0)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to await solver result")
	}

	if result.Status == dto.SolverStatusInfeasible {
		warnings = append(warnings, "solver reported the instance as infeasible")
	}
	if len(result.Violations) > 0 {
		s.logger.Info("solver reported soft-constraint violations",
			zap.String("job_id", jobID),
			zap.Strings("violations", result.Violations))
	}

	assignments, translateWarnings, err := s.translate(ctx, result.Assignments)
	if err != nil {
		s.observe(GenerationOutcomeError, start, 0, 0)
		return nil, err
	}
	warnings = append(warnings, translateWarnings...)

	schedule, err := s.persist(ctx, req.Label, assignments)
	if err != nil {
		s.observe(GenerationOutcomeError, start, result.Stats.SolveTimeSec, 0)
		return nil, err
	}

	outcome := GenerationOutcomeSucceeded
	if len(assignments) == 0 {
		outcome = GenerationOutcomeEmpty
	}
	s.observe(outcome, start, result.Stats.SolveTimeSec, len(assignments))
	s.logger.Info("schedule generation finished",
		zap.String("schedule_id", schedule.ID),
		zap.String("label", schedule.Label),
		zap.String("solver_status", result.Status),
		zap.Int("assignments", len(assignments)),
		zap.Int("warnings", len(warnings)))

	return &dto.GenerateTimetableResponse{
		ScheduleID:  schedule.ID,
		Label:       schedule.Label,
		Assignments: assignments,
		Warnings:    warnings,
		Solver: dto.SolverSummary{
			Status:       result.Status,
			SolveTimeSec: result.Stats.SolveTimeSec,
			Objective:    result.Objective,
			Violations:   result.Violations,
		},
	}, nil
}

// subgroupWarnings surfaces constraints the translator does not honour yet.
// A read failure here is not fatal to the run.
func (s *GenerationService) subgroupWarnings(ctx context.Context) []string {
	if s.subgroups == nil {
		return nil
	}
	constraints, err := s.subgroups.List(ctx)
	if err != nil {
		s.logger.Warn("failed to load subgroup constraints", zap.Error(err))
		return nil
	}
	var warnings []string
	for _, constraint := range constraints {
		if constraint.SubgroupCount > 1 {
			warnings = append(warnings,
				"subgroup splitting is not applied for group "+constraint.GroupID+" course "+constraint.CourseID+"; all assignments use subgroup 1")
		}
	}
	return warnings
}

func (s *GenerationService) translate(ctx context.Context, records []dto.SolverAssignment) ([]models.Assignment, []string, error) {
	slots, err := s.timeslots.List(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timeslots for translation")
	}
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses for translation")
	}
	courseTypes := make(map[string]models.CourseType, len(courses))
	for _, course := range courses {
		courseTypes[course.ID] = course.CourseType
	}

	// ScheduleID is stamped later, inside the persistence transaction.
	assignments, warnings := translateAssignments("", records, DecodeTimeslotMap(slots), courseTypes, s.logger)
	return assignments, warnings, nil
}

// persist writes the schedule and its assignments as one atomic unit.
func (s *GenerationService) persist(ctx context.Context, label string, assignments []models.Assignment) (*models.Schedule, error) {
	if s.tx == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	schedule := &models.Schedule{Label: label}
	if err = s.schedules.CreateWithTx(ctx, tx, schedule); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule")
		return nil, err
	}

	for i := range assignments {
		assignments[i].ScheduleID = schedule.ID
	}
	if err = s.assignments.BulkCreateWithTx(ctx, tx, assignments); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist assignments")
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit generation transaction")
		return nil, err
	}
	return schedule, nil
}

func (s *GenerationService) observe(outcome string, start time.Time, solveTimeSec float64, persisted int) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveGeneration(outcome, time.Since(start), solveTimeSec, persisted)
}
