package screening

import (
	"context"
	"time"

	"github.com/Abraxas-365/resumescan/pkg/kernel"
)

type Repository interface {
	// Create stores a new analysis
	Create(ctx context.Context, analysis *Analysis) error

	// Update overwrites status, extracted data and results
	Update(ctx context.Context, analysis *Analysis) error

	// GetByID retrieves an analysis by ID
	GetByID(ctx context.Context, id kernel.AnalysisID) (*Analysis, error)

	// ListByUser retrieves a user's analyses, newest first
	ListByUser(ctx context.Context, userID kernel.UserID, pagination kernel.PaginationOptions) (*kernel.Paginated[Analysis], error)

	// List retrieves every analysis, newest first
	List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[Analysis], error)

	// Delete deletes an analysis by ID
	Delete(ctx context.Context, id kernel.AnalysisID) error

	// FindSimilar returns completed analyses nearest to the given one by feature distance
	FindSimilar(ctx context.Context, id kernel.AnalysisID, userID *kernel.UserID, limit int) ([]SimilarAnalysis, error)
}

// JobQueue defines the interface for job queue operations
type JobQueue interface {
	// Enqueue adds a job to the queue
	Enqueue(ctx context.Context, jobID kernel.JobID, payload any) error

	// Dequeue gets a job from the queue (blocking with timeout). A timeout returns nil data and nil error.
	Dequeue(ctx context.Context, timeout time.Duration) ([]byte, error)

	// EnqueueDelayed schedules a job for later processing (for retries)
	EnqueueDelayed(ctx context.Context, jobID kernel.JobID, payload any, delay time.Duration) error

	// MoveDelayedToReady moves delayed jobs that are ready to the main queue
	MoveDelayedToReady(ctx context.Context) (int, error)

	// Size returns the number of ready jobs
	Size(ctx context.Context) (int64, error)
}

// EventPublisher announces finished analyses to other systems
type EventPublisher interface {
	PublishAnalysisFinished(ctx context.Context, event AnalysisEvent) error
}

type AnalysisEvent struct {
	AnalysisID    kernel.AnalysisID `json:"analysis_id"`
	UserID        kernel.UserID     `json:"user_id"`
	Status        AnalysisStatus    `json:"status"`
	Method        string            `json:"method,omitempty"`
	SuitableRoles []Role            `json:"suitable_roles"`
	Results       Results           `json:"results,omitempty"`
	Error         string            `json:"error,omitempty"`
	OccurredAt    time.Time         `json:"occurred_at"`
}

func NewAnalysisEvent(a *Analysis) AnalysisEvent {
	suitable := a.Results.SuitableRoles()
	return AnalysisEvent{
		AnalysisID:    a.ID,
		UserID:        a.UserID,
		Status:        a.Status,
		Method:        a.Method,
		SuitableRoles: suitable,
		Results:       a.Results,
		Error:         a.ErrorMessage,
		OccurredAt:    time.Now(),
	}
}
