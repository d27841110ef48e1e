package report

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/herdbook/internal/analytics"
)

var (
	ErrNotFound   = errors.New("report job not found")
	ErrInvalidJob = errors.New("invalid report job")
)

// Kind selects the analytics operation a job runs.
type Kind string

const (
	KindKPIs          Kind = "kpis"
	KindTimeSeries    Kind = "time_series"
	KindProfitAndLoss Kind = "profit_and_loss"
	KindCohort        Kind = "cohort"
)

func (k Kind) Valid() bool {
	switch k {
	case KindKPIs, KindTimeSeries, KindProfitAndLoss, KindCohort:
		return true
	}

	return false
}

type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Job is a report computed in the background. Result holds the JSON body the
// matching analytics endpoint would have returned.
type Job struct {
	ID         uuid.UUID
	Kind       Kind
	Filter     analytics.Filter
	GroupID    *string // cohort jobs only
	Status     Status
	Result     json.RawMessage
	Error      string
	CreatedAt  time.Time
	FinishedAt *time.Time
}
