package screeningsrv

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Abraxas-365/resumescan/pkg/kernel"
	"github.com/Abraxas-365/resumescan/recruitment/screening"
)

type memRepo struct {
	mu       sync.Mutex
	items    map[kernel.AnalysisID]screening.Analysis
	similar  []screening.SimilarAnalysis
	gotScope *kernel.UserID

	// updates to this status fail, like a column rejecting the payload
	rejectStatus screening.AnalysisStatus
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[kernel.AnalysisID]screening.Analysis{}}
}

func (r *memRepo) Create(_ context.Context, a *screening.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[a.ID] = *a
	return nil
}

func (r *memRepo) Update(_ context.Context, a *screening.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[a.ID]; !ok {
		return screening.ErrAnalysisNotFound()
	}
	if r.rejectStatus != "" && a.Status == r.rejectStatus {
		return errors.New("pq: invalid byte sequence for encoding \"UTF8\": 0x00")
	}
	r.items[a.ID] = *a
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id kernel.AnalysisID) (*screening.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, screening.ErrAnalysisNotFound().WithDetail("analysis_id", id)
	}
	return &a, nil
}

func (r *memRepo) list(filter func(screening.Analysis) bool, p kernel.PaginationOptions) *kernel.Paginated[screening.Analysis] {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []screening.Analysis
	for _, a := range r.items {
		if filter(a) {
			all = append(all, a)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	start := min(p.Offset(), total)
	end := min(start+p.PageSize, total)
	return kernel.NewPaginated(all[start:end], p, total)
}

func (r *memRepo) ListByUser(_ context.Context, userID kernel.UserID, p kernel.PaginationOptions) (*kernel.Paginated[screening.Analysis], error) {
	return r.list(func(a screening.Analysis) bool { return a.UserID == userID }, p), nil
}

func (r *memRepo) List(_ context.Context, p kernel.PaginationOptions) (*kernel.Paginated[screening.Analysis], error) {
	return r.list(func(screening.Analysis) bool { return true }, p), nil
}

func (r *memRepo) Delete(_ context.Context, id kernel.AnalysisID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return screening.ErrAnalysisNotFound()
	}
	delete(r.items, id)
	return nil
}

func (r *memRepo) FindSimilar(_ context.Context, _ kernel.AnalysisID, userID *kernel.UserID, limit int) ([]screening.SimilarAnalysis, error) {
	r.gotScope = userID
	if len(r.similar) > limit {
		return r.similar[:limit], nil
	}
	return r.similar, nil
}

type queuedJob struct {
	payload []byte
	delay   time.Duration
}

type memQueue struct {
	mu      sync.Mutex
	ready   []queuedJob
	delayed []queuedJob
	fail    error
}

func (q *memQueue) Enqueue(_ context.Context, _ kernel.JobID, payload any) error {
	if q.fail != nil {
		return q.fail
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ready = append(q.ready, queuedJob{payload: data})
	return nil
}

func (q *memQueue) Dequeue(context.Context, time.Duration) ([]byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.ready) == 0 {
		return nil, nil
	}
	j := q.ready[0]
	q.ready = q.ready[1:]
	return j.payload, nil
}

func (q *memQueue) EnqueueDelayed(_ context.Context, _ kernel.JobID, payload any, delay time.Duration) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.delayed = append(q.delayed, queuedJob{payload: data, delay: delay})
	return nil
}

func (q *memQueue) MoveDelayedToReady(context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.delayed)
	q.ready = append(q.ready, q.delayed...)
	q.delayed = nil
	return n, nil
}

func (q *memQueue) Size(context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.ready)), nil
}

type memPublisher struct {
	mu     sync.Mutex
	events []screening.AnalysisEvent
}

func (p *memPublisher) PublishAnalysisFinished(_ context.Context, e screening.AnalysisEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

type failingScorer struct{ err error }

func (f failingScorer) Name() string { return "failing" }

func (f failingScorer) Score(context.Context, screening.Profile, []screening.Role) (screening.Results, error) {
	return nil, f.err
}
