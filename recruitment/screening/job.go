package screening

import (
	"time"

	"github.com/Abraxas-365/resumescan/pkg/kernel"
)

const DefaultMaxAttempts = 3

// AnalysisJob is the queue payload for background analysis
type AnalysisJob struct {
	ID         kernel.JobID      `json:"id"`
	AnalysisID kernel.AnalysisID `json:"analysis_id"`
	UserID     kernel.UserID     `json:"user_id"`

	ResumePath          kernel.StoragePath `json:"resume_path"`
	ResumeFileName      string             `json:"resume_file_name"`
	ResumeContentType   string             `json:"resume_content_type,omitempty"`
	CoverLetterPath     kernel.StoragePath `json:"cover_letter_path,omitempty"`
	CoverLetterFileName string             `json:"cover_letter_file_name,omitempty"`
	Roles               []Role             `json:"roles"`

	AttemptCount int        `json:"attempt_count"`
	MaxAttempts  int        `json:"max_attempts"`
	CreatedAt    time.Time  `json:"created_at"`
	NextRetryAt  *time.Time `json:"next_retry_at,omitempty"`
}

// RetryDelay is 2^attempt minutes
func (j *AnalysisJob) RetryDelay() time.Duration {
	return time.Duration(1<<uint(j.AttemptCount)) * time.Minute
}

func (j *AnalysisJob) CanRetry() bool {
	return j.AttemptCount < j.MaxAttempts
}
