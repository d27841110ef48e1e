package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/herdbook/internal/report"
)

const jobColumns = `id, kind, filter, group_id, status, result, error, created_at, finished_at`

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateJob(ctx context.Context, job *report.Job) error {
	filter, err := json.Marshal(job.Filter)
	if err != nil {
		return fmt.Errorf("encoding filter: %w", err)
	}

	query := `
		INSERT INTO report_jobs (id, kind, filter, group_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at
	`

	job.ID = uuid.New()

	if err := s.db.QueryRowContext(ctx, query, job.ID, job.Kind, filter, job.GroupID, job.Status).Scan(&job.CreatedAt); err != nil {
		return fmt.Errorf("creating report job: %w", err)
	}

	return nil
}

func (s *Store) GetJob(ctx context.Context, id uuid.UUID) (*report.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM report_jobs WHERE id = $1`

	job, err := scanJob(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, report.ErrNotFound
		}

		return nil, fmt.Errorf("getting report job: %w", err)
	}

	return job, nil
}

func (s *Store) ClaimPending(ctx context.Context, limit int, staleBefore time.Time) ([]*report.Job, error) {
	query := `
		UPDATE report_jobs SET status = $1, claimed_at = NOW()
		WHERE id IN (
			SELECT id FROM report_jobs
			WHERE status = $2 OR (status = $1 AND claimed_at < $4)
			ORDER BY created_at
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + jobColumns

	rows, err := s.db.QueryContext(ctx, query, report.StatusRunning, report.StatusPending, limit, staleBefore)
	if err != nil {
		return nil, fmt.Errorf("claiming report jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*report.Job

	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning report job: %w", err)
		}

		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating report jobs: %w", err)
	}

	return jobs, nil
}

func (s *Store) FinishJob(ctx context.Context, job *report.Job) error {
	query := `
		UPDATE report_jobs
		SET status = $1, result = $2, error = NULLIF($3, ''), finished_at = NOW()
		WHERE id = $4
		RETURNING finished_at
	`

	var result []byte
	if len(job.Result) > 0 {
		result = job.Result
	}

	var finished sql.NullTime

	err := s.db.QueryRowContext(ctx, query, job.Status, result, job.Error, job.ID).Scan(&finished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return report.ErrNotFound
		}

		return fmt.Errorf("finishing report job: %w", err)
	}

	job.FinishedAt = &finished.Time

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*report.Job, error) {
	var (
		job      report.Job
		filter   []byte
		result   []byte
		errText  sql.NullString
		finished sql.NullTime
	)

	if err := row.Scan(&job.ID, &job.Kind, &filter, &job.GroupID, &job.Status, &result, &errText, &job.CreatedAt, &finished); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(filter, &job.Filter); err != nil {
		return nil, fmt.Errorf("decoding filter of job %s: %w", job.ID, err)
	}

	job.Result = result
	job.Error = errText.String

	if finished.Valid {
		job.FinishedAt = &finished.Time
	}

	return &job, nil
}
