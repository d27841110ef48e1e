package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/herdbook/internal/analytics"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=report
type Repository interface {
	CreateJob(ctx context.Context, job *Job) error
	GetJob(ctx context.Context, id uuid.UUID) (*Job, error)
	// ClaimPending moves up to limit pending jobs to running and returns them.
	// Running jobs claimed before staleBefore are claimed again. Jobs locked by
	// a concurrent runner are skipped.
	ClaimPending(ctx context.Context, limit int, staleBefore time.Time) ([]*Job, error)
	FinishJob(ctx context.Context, job *Job) error
}

// Analytics is satisfied by *analytics.Service.
type Analytics interface {
	KPIs(ctx context.Context, filter analytics.Filter) (*analytics.KPIs, error)
	TimeSeries(ctx context.Context, filter analytics.Filter) ([]analytics.MonthBucket, error)
	ProfitAndLoss(ctx context.Context, filter analytics.Filter) (*analytics.ProfitAndLoss, error)
	Cohort(ctx context.Context, groupID string, filter analytics.Filter) (*analytics.CohortReport, error)
}

type Service struct {
	repo      Repository
	analytics Analytics
	lease     time.Duration
	now       func() time.Time
}

// NewService builds the job runner. A job left running for longer than lease
// is treated as abandoned and picked up again; lease never drops below the
// time a single batch may take.
func NewService(repo Repository, a Analytics, lease time.Duration) *Service {
	return &Service{
		repo:      repo,
		analytics: a,
		lease:     max(lease, runTimeout),
		now:       time.Now,
	}
}

func (s *Service) Enqueue(ctx context.Context, kind Kind, filter analytics.Filter, groupID *string) (*Job, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: kind %q", ErrInvalidJob, kind)
	}

	if kind == KindCohort && (groupID == nil || *groupID == "") {
		return nil, fmt.Errorf("%w: cohort jobs need a group", ErrInvalidJob)
	}

	if kind != KindCohort {
		groupID = nil
	}

	job := &Job{
		Kind:    kind,
		Filter:  filter,
		GroupID: groupID,
		Status:  StatusPending,
	}

	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("creating report job: %w", err)
	}

	return job, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Job, error) {
	return s.repo.GetJob(ctx, id)
}

// RunPending claims up to limit jobs and runs them one after the other. A job
// whose report fails is stored as failed. A job that cannot be stored stays
// running until its lease expires, and the rest of the batch still runs. It
// returns how many jobs were finished along with the joined storage errors.
func (s *Service) RunPending(ctx context.Context, limit int) (int, error) {
	jobs, err := s.repo.ClaimPending(ctx, limit, s.now().Add(-s.lease))
	if err != nil {
		return 0, fmt.Errorf("claiming report jobs: %w", err)
	}

	var (
		finished int
		errs     []error
	)

	for _, job := range jobs {
		result, err := s.run(ctx, job)
		if err != nil {
			slog.Error("failed to run report job", "job_id", job.ID, "kind", job.Kind, "error", err)

			job.Status = StatusFailed
			job.Error = err.Error()
		} else {
			job.Status = StatusDone
			job.Result = result
		}

		if err := s.repo.FinishJob(ctx, job); err != nil {
			errs = append(errs, fmt.Errorf("finishing report job %s: %w", job.ID, err))
			continue
		}

		finished++
	}

	return finished, errors.Join(errs...)
}

func (s *Service) run(ctx context.Context, job *Job) (json.RawMessage, error) {
	var (
		result any
		err    error
	)

	switch job.Kind {
	case KindKPIs:
		result, err = s.analytics.KPIs(ctx, job.Filter)
	case KindTimeSeries:
		result, err = s.analytics.TimeSeries(ctx, job.Filter)
	case KindProfitAndLoss:
		result, err = s.analytics.ProfitAndLoss(ctx, job.Filter)
	case KindCohort:
		if job.GroupID == nil {
			return nil, fmt.Errorf("%w: cohort job without group", ErrInvalidJob)
		}

		result, err = s.analytics.Cohort(ctx, *job.GroupID, job.Filter)
	default:
		return nil, fmt.Errorf("%w: kind %q", ErrInvalidJob, job.Kind)
	}

	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}

	return body, nil
}
