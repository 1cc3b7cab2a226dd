package screening

import (
	"time"

	"github.com/Abraxas-365/resumescan/pkg/kernel"
)

// MaxFileSize bounds each uploaded file
const MaxFileSize = 10 * 1024 * 1024

// UploadedFile is a file received from a client
type UploadedFile struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Data        []byte `json:"-"`
}

func (f *UploadedFile) IsEmpty() bool {
	return f == nil || len(f.Data) == 0
}

// Actor is the authenticated caller of a service operation
type Actor struct {
	UserID  kernel.UserID
	IsAdmin bool
}

// CanAccess checks ownership, admins can access everything
func (a Actor) CanAccess(analysis *Analysis) bool {
	return a.IsAdmin || analysis.IsOwnedBy(a.UserID)
}

// AnalyzeRequest - DTO for screening a resume
type AnalyzeRequest struct {
	UserID      kernel.UserID `json:"user_id"`
	Resume      *UploadedFile `json:"resume"`
	CoverLetter *UploadedFile `json:"cover_letter,omitempty"`
	Roles       []string      `json:"roles"`
}

// AnalysisResponse - DTO for returning analysis data
type AnalysisResponse struct {
	ID                  kernel.AnalysisID `json:"id"`
	Status              AnalysisStatus    `json:"status"`
	ResumeFileName      string            `json:"resume_file_name"`
	CoverLetterFileName string            `json:"cover_letter_file_name,omitempty"`
	Roles               []Role            `json:"roles"`
	Fields              ResumeFields      `json:"fields,omitempty"`
	CoverLetter         string            `json:"cover_letter,omitempty"`
	Results             Results           `json:"results"`
	Method              string            `json:"method,omitempty"`
	AttemptCount        int               `json:"attempt_count,omitempty"`
	Error               string            `json:"error,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	CompletedAt         *time.Time        `json:"completed_at,omitempty"`
}

// AnalysisSummary - DTO for list views, without the extracted text
type AnalysisSummary struct {
	ID             kernel.AnalysisID `json:"id"`
	Status         AnalysisStatus    `json:"status"`
	ResumeFileName string            `json:"resume_file_name"`
	Roles          []Role            `json:"roles"`
	SuitableRoles  []Role            `json:"suitable_roles"`
	Method         string            `json:"method,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// AcceptedResponse - returned when an analysis is queued
type AcceptedResponse struct {
	AnalysisID kernel.AnalysisID `json:"analysis_id"`
	JobID      kernel.JobID      `json:"job_id"`
	Status     AnalysisStatus    `json:"status"`
	Message    string            `json:"message"`
}

// SimilarAnalysis pairs an analysis with its feature distance
type SimilarAnalysis struct {
	Analysis Analysis `json:"analysis"`
	Distance float64  `json:"distance"`
}

type SimilarAnalysisResponse struct {
	ID             kernel.AnalysisID `json:"id"`
	ResumeFileName string            `json:"resume_file_name"`
	SuitableRoles  []Role            `json:"suitable_roles"`
	Distance       float64           `json:"distance"`
}

// RoleInfo - DTO describing a selectable role
type RoleInfo struct {
	Name     Role   `json:"name"`
	HasRules bool   `json:"has_rules"`
	HasModel bool   `json:"has_model"`
	Scoring  string `json:"scoring"`
}

type PaginatedAnalysesResponse = kernel.Paginated[AnalysisSummary]

func (a *Analysis) ToResponse() *AnalysisResponse {
	results := a.Results
	if results == nil {
		results = Results{}
	}
	return &AnalysisResponse{
		ID:                  a.ID,
		Status:              a.Status,
		ResumeFileName:      a.ResumeFileName,
		CoverLetterFileName: a.CoverLetterFileName,
		Roles:               a.Roles,
		Fields:              a.Fields,
		CoverLetter:         a.CoverLetter,
		Results:             results,
		Method:              a.Method,
		AttemptCount:        a.AttemptCount,
		Error:               a.ErrorMessage,
		CreatedAt:           a.CreatedAt,
		CompletedAt:         a.CompletedAt,
	}
}

func (a Analysis) ToSummary() AnalysisSummary {
	suitable := a.Results.SuitableRoles()
	return AnalysisSummary{
		ID:             a.ID,
		Status:         a.Status,
		ResumeFileName: a.ResumeFileName,
		Roles:          a.Roles,
		SuitableRoles:  suitable,
		Method:         a.Method,
		CreatedAt:      a.CreatedAt,
	}
}
