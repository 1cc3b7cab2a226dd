package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Abraxas-365/resumescan/pkg/logx"
	"github.com/Abraxas-365/resumescan/recruitment/screening"
)

// JobProcessor runs one analysis job; screeningsrv.Service implements it
type JobProcessor interface {
	ProcessJob(ctx context.Context, job *screening.AnalysisJob) error
}

type AnalysisWorker struct {
	processor JobProcessor
	queue     screening.JobQueue
	workers   int

	pollTimeout   time.Duration
	delayInterval time.Duration

	wg sync.WaitGroup
}

func NewAnalysisWorker(processor JobProcessor, queue screening.JobQueue, workers int) *AnalysisWorker {
	if workers < 1 {
		workers = 1
	}
	return &AnalysisWorker{
		processor:     processor,
		queue:         queue,
		workers:       workers,
		pollTimeout:   5 * time.Second,
		delayInterval: 30 * time.Second,
	}
}

// Start launches the pool and the delayed job mover. They stop when ctx is cancelled.
func (w *AnalysisWorker) Start(ctx context.Context) {
	logx.Infof("Starting %d analysis workers", w.workers)

	w.wg.Add(w.workers + 1)
	go w.moveDelayedJobs(ctx)
	for i := 0; i < w.workers; i++ {
		go w.processJobs(ctx, i)
	}
}

// Wait blocks until every goroutine started by Start has returned
func (w *AnalysisWorker) Wait() {
	w.wg.Wait()
}

func (w *AnalysisWorker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	logx.Infof("Worker %d started", workerID)

	for {
		select {
		case <-ctx.Done():
			logx.Infof("Worker %d stopping", workerID)
			return
		default:
		}

		data, err := w.queue.Dequeue(ctx, w.pollTimeout)
		if err != nil {
			if ctx.Err() == nil {
				logx.Errorf("Worker %d dequeue error: %v", workerID, err)
				sleep(ctx, time.Second)
			}
			continue
		}
		if len(data) == 0 {
			continue
		}

		var job screening.AnalysisJob
		if err := json.Unmarshal(data, &job); err != nil {
			logx.Errorf("Worker %d unmarshal error: %v (data: %s)", workerID, err, string(data))
			continue
		}

		logx.Infof("Worker %d processing job %s for analysis %s", workerID, job.ID, job.AnalysisID)
		if err := w.processor.ProcessJob(ctx, &job); err != nil {
			logx.Errorf("Worker %d job %s failed: %v", workerID, job.ID, err)
		}
	}
}

func (w *AnalysisWorker) moveDelayedJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.delayInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := w.queue.MoveDelayedToReady(ctx)
			if err != nil {
				logx.Errorf("Failed to move delayed jobs: %v", err)
			} else if count > 0 {
				logx.Infof("Moved %d delayed jobs to ready queue", count)
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
