package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Abraxas-365/resumescan/pkg/kernel"
	"github.com/Abraxas-365/resumescan/recruitment/screening"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanQueue struct {
	ready chan []byte
	moved chan struct{}
}

func newChanQueue() *chanQueue {
	return &chanQueue{ready: make(chan []byte, 16), moved: make(chan struct{}, 16)}
}

func (q *chanQueue) Enqueue(_ context.Context, _ kernel.JobID, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	q.ready <- data
	return nil
}

func (q *chanQueue) Dequeue(ctx context.Context, timeout time.Duration) ([]byte, error) {
	select {
	case data := <-q.ready:
		return data, nil
	case <-time.After(timeout):
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *chanQueue) EnqueueDelayed(context.Context, kernel.JobID, any, time.Duration) error {
	return errors.New("not supported")
}

func (q *chanQueue) MoveDelayedToReady(context.Context) (int, error) {
	select {
	case q.moved <- struct{}{}:
	default:
	}
	return 0, nil
}

func (q *chanQueue) Size(context.Context) (int64, error) {
	return int64(len(q.ready)), nil
}

type recordingProcessor struct {
	mu   sync.Mutex
	jobs []kernel.JobID
	done chan struct{}
	err  error
}

func (p *recordingProcessor) ProcessJob(_ context.Context, job *screening.AnalysisJob) error {
	p.mu.Lock()
	p.jobs = append(p.jobs, job.ID)
	p.mu.Unlock()
	p.done <- struct{}{}
	return p.err
}

func newTestWorker(p JobProcessor, q screening.JobQueue, n int) *AnalysisWorker {
	w := NewAnalysisWorker(p, q, n)
	w.pollTimeout = 20 * time.Millisecond
	w.delayInterval = 10 * time.Millisecond
	return w
}

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}
}

func TestAnalysisWorker_ProcessesJobs(t *testing.T) {
	q := newChanQueue()
	p := &recordingProcessor{done: make(chan struct{}, 4), err: errors.New("boom")}
	w := newTestWorker(p, q, 2)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	require.NoError(t, q.Enqueue(ctx, "j1", screening.AnalysisJob{ID: "j1", AnalysisID: "a1"}))
	q.ready <- []byte("not json")
	require.NoError(t, q.Enqueue(ctx, "j2", screening.AnalysisJob{ID: "j2", AnalysisID: "a2"}))

	waitFor(t, p.done)
	waitFor(t, p.done)

	cancel()
	w.Wait()

	assert.ElementsMatch(t, []kernel.JobID{"j1", "j2"}, p.jobs)
}

func TestAnalysisWorker_MovesDelayedJobs(t *testing.T) {
	q := newChanQueue()
	w := newTestWorker(&recordingProcessor{done: make(chan struct{}, 1)}, q, 1)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	waitFor(t, q.moved)
	cancel()
	w.Wait()
}

func TestNewAnalysisWorker_AtLeastOne(t *testing.T) {
	w := NewAnalysisWorker(nil, newChanQueue(), 0)
	assert.Equal(t, 1, w.workers)
}
