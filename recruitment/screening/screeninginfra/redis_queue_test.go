package screeninginfra

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Abraxas-365/resumescan/internal/containertest"
	"github.com/Abraxas-365/resumescan/pkg/kernel"
	"github.com/Abraxas-365/resumescan/recruitment/screening"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analysisJob(id string, attempt int) *screening.AnalysisJob {
	return &screening.AnalysisJob{
		ID:           kernel.JobID(id),
		AnalysisID:   kernel.AnalysisID("a-" + id),
		UserID:       "u1",
		Roles:        []screening.Role{screening.RoleAccountant},
		AttemptCount: attempt,
		MaxAttempts:  screening.DefaultMaxAttempts,
	}
}

func decodeJob(t *testing.T, data []byte) screening.AnalysisJob {
	t.Helper()
	var job screening.AnalysisJob
	require.NoError(t, json.Unmarshal(data, &job))
	return job
}

func TestRedisQueue_EnqueueDequeue(t *testing.T) {
	q := NewRedisQueue(containertest.Redis(t), "test:analysis_jobs")
	ctx := context.Background()

	data, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	assert.Nil(t, data, "timeout yields no job")

	require.NoError(t, q.Enqueue(ctx, "j1", analysisJob("j1", 0)))
	require.NoError(t, q.Enqueue(ctx, "j2", analysisJob("j2", 0)))

	size, err := q.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), size)

	data, err = q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, kernel.JobID("j1"), decodeJob(t, data).ID, "first in, first out")

	data, err = q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, kernel.JobID("j2"), decodeJob(t, data).ID)
}

func TestRedisQueue_DelayedRetries(t *testing.T) {
	q := NewRedisQueue(containertest.Redis(t), "test:analysis_jobs")
	ctx := context.Background()

	require.NoError(t, q.EnqueueDelayed(ctx, "due", analysisJob("due", 1), -time.Second))
	require.NoError(t, q.EnqueueDelayed(ctx, "later", analysisJob("later", 1), time.Hour))
	// rescheduling replaces the earlier retry of the same job
	require.NoError(t, q.EnqueueDelayed(ctx, "due", analysisJob("due", 2), -time.Second))

	retrying, err := q.DelayedSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), retrying)

	moved, err := q.MoveDelayedToReady(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	moved, err = q.MoveDelayedToReady(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, moved)

	data, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	job := decodeJob(t, data)
	assert.Equal(t, kernel.JobID("due"), job.ID)
	assert.Equal(t, 2, job.AttemptCount)

	stats, err := q.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats["ready_jobs"])
	assert.Equal(t, int64(1), stats["retrying_jobs"])
}
