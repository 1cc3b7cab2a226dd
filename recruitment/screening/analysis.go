package screening

import (
	"time"

	"github.com/Abraxas-365/resumescan/pkg/kernel"
)

type AnalysisStatus string

const (
	AnalysisStatusPending    AnalysisStatus = "pending"
	AnalysisStatusProcessing AnalysisStatus = "processing"
	AnalysisStatusCompleted  AnalysisStatus = "completed"
	AnalysisStatusFailed     AnalysisStatus = "failed"
)

// Analysis is one resume screened against a set of roles
type Analysis struct {
	ID     kernel.AnalysisID `db:"id" json:"id"`
	UserID kernel.UserID     `db:"user_id" json:"user_id"`
	Status AnalysisStatus    `db:"status" json:"status"`

	ResumeFileName      string             `db:"resume_file_name" json:"resume_file_name"`
	ResumePath          kernel.StoragePath `db:"resume_path" json:"-"`
	CoverLetterFileName string             `db:"cover_letter_file_name" json:"cover_letter_file_name,omitempty"`
	CoverLetterPath     kernel.StoragePath `db:"cover_letter_path" json:"-"`

	Roles       []Role         `db:"roles" json:"roles"`
	Fields      ResumeFields   `db:"fields" json:"fields,omitempty"`
	CoverLetter string         `db:"cover_letter" json:"cover_letter,omitempty"`
	Results     Results        `db:"results" json:"results,omitempty"`
	Features    *FeatureVector `db:"features" json:"features,omitempty"`
	Method      string         `db:"method" json:"method,omitempty"`

	AttemptCount int    `db:"attempt_count" json:"attempt_count"`
	ErrorMessage string `db:"error_message" json:"error_message,omitempty"`

	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// IsFinished reports whether the analysis reached a terminal status
func (a *Analysis) IsFinished() bool {
	return a.Status == AnalysisStatusCompleted || a.Status == AnalysisStatusFailed
}

// IsOwnedBy checks whether the user created the analysis
func (a *Analysis) IsOwnedBy(userID kernel.UserID) bool {
	return a.UserID == userID
}

// Start moves a pending analysis to processing. A processing analysis may be
// started again when a retry picks it up.
func (a *Analysis) Start() error {
	if a.IsFinished() {
		return ErrInvalidStatusTransition().
			WithDetail("current_status", a.Status).
			WithDetail("new_status", AnalysisStatusProcessing)
	}
	a.Status = AnalysisStatusProcessing
	a.AttemptCount++
	a.UpdatedAt = time.Now()
	return nil
}

// Complete stores the scoring outcome
func (a *Analysis) Complete(profile Profile, results Results, method string) error {
	if a.IsFinished() {
		return ErrInvalidStatusTransition().
			WithDetail("current_status", a.Status).
			WithDetail("new_status", AnalysisStatusCompleted)
	}
	now := time.Now()
	features := BuildFeatures(profile)
	a.Fields = profile.Fields
	a.CoverLetter = profile.CoverLetter
	a.Results = results
	a.Features = &features
	a.Method = method
	a.Status = AnalysisStatusCompleted
	a.ErrorMessage = ""
	a.CompletedAt = &now
	a.UpdatedAt = now
	return nil
}

// Fail marks the analysis as permanently failed
func (a *Analysis) Fail(reason string) error {
	if a.IsFinished() {
		return ErrInvalidStatusTransition().
			WithDetail("current_status", a.Status).
			WithDetail("new_status", AnalysisStatusFailed)
	}
	now := time.Now()
	a.Status = AnalysisStatusFailed
	a.ErrorMessage = reason
	a.CompletedAt = &now
	a.UpdatedAt = now
	return nil
}

// Requeue puts a processing analysis back to pending for a retry
func (a *Analysis) Requeue(reason string) {
	a.Status = AnalysisStatusPending
	a.ErrorMessage = reason
	a.UpdatedAt = time.Now()
}

func (a *Analysis) Profile() Profile {
	return Profile{Fields: a.Fields, CoverLetter: a.CoverLetter}
}
