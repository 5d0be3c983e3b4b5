package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/temperature-heatmap/internal/temperature"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (c *countingRefresher) Refresh(ctx context.Context) (temperature.Snapshot, error) {
	c.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return temperature.Snapshot{}, errors.New("refresh without deadline")
	}
	return temperature.Snapshot{ID: "snap"}, c.err
}

func TestSchedulerRunsRefreshAfterInterval(t *testing.T) {
	r := &countingRefresher{}
	s := New(time.Second, r, nil)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Equal(t, int32(0), r.calls.Load(), "first run waits for the schedule")
	assert.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestSchedulerRunSurvivesFailures(t *testing.T) {
	r := &countingRefresher{err: errors.New("upstream down")}
	s := New(time.Hour, r, nil)

	s.run()
	s.run()
	assert.Equal(t, int32(2), r.calls.Load())
}
