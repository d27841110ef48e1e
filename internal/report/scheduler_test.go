package report_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/herdbook/internal/report"
)

type fakeRunner struct {
	limits []int
	err    error
}

func (f *fakeRunner) RunPending(_ context.Context, limit int) (int, error) {
	f.limits = append(f.limits, limit)
	return 0, f.err
}

func TestScheduler_RunOnce(t *testing.T) {
	runner := &fakeRunner{}
	s := report.NewScheduler(runner, 7)

	s.RunOnce()
	runner.err = errors.New("db down")
	s.RunOnce()

	assert.Equal(t, []int{7, 7}, runner.limits)
}

func TestScheduler_Schedule(t *testing.T) {
	s := report.NewScheduler(&fakeRunner{}, 1)

	assert.NoError(t, s.Schedule("@every 1m"))
	assert.Error(t, s.Schedule("not a schedule"))
}
