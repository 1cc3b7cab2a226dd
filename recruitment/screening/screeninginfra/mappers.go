package screeninginfra

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Abraxas-365/resumescan/pkg/kernel"
	"github.com/Abraxas-365/resumescan/recruitment/screening"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

const analysisColumns = `
	id, user_id, status,
	resume_file_name, resume_path, cover_letter_file_name, cover_letter_path,
	roles, fields, cover_letter, results, features, method,
	attempt_count, error_message,
	created_at, updated_at, completed_at`

// analysisRow represents a row from the analyses table
type analysisRow struct {
	ID                  string         `db:"id"`
	UserID              string         `db:"user_id"`
	Status              string         `db:"status"`
	ResumeFileName      string         `db:"resume_file_name"`
	ResumePath          string         `db:"resume_path"`
	CoverLetterFileName string         `db:"cover_letter_file_name"`
	CoverLetterPath     string         `db:"cover_letter_path"`
	Roles               pq.StringArray `db:"roles"`
	Fields              []byte         `db:"fields"`
	CoverLetter         string         `db:"cover_letter"`
	Results             []byte         `db:"results"`
	Features            []byte         `db:"features"`
	Method              string         `db:"method"`
	AttemptCount        int            `db:"attempt_count"`
	ErrorMessage        string         `db:"error_message"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
	CompletedAt         sql.NullTime   `db:"completed_at"`
}

type similarRow struct {
	analysisRow
	Distance float64 `db:"distance"`
}

// ToDomain converts an analysisRow to a screening.Analysis domain model
func (r *analysisRow) ToDomain() (*screening.Analysis, error) {
	a := &screening.Analysis{
		ID:                  kernel.AnalysisID(r.ID),
		UserID:              kernel.UserID(r.UserID),
		Status:              screening.AnalysisStatus(r.Status),
		ResumeFileName:      r.ResumeFileName,
		ResumePath:          kernel.StoragePath(r.ResumePath),
		CoverLetterFileName: r.CoverLetterFileName,
		CoverLetterPath:     kernel.StoragePath(r.CoverLetterPath),
		CoverLetter:         r.CoverLetter,
		Method:              r.Method,
		AttemptCount:        r.AttemptCount,
		ErrorMessage:        r.ErrorMessage,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}

	a.Roles = make([]screening.Role, len(r.Roles))
	for i, role := range r.Roles {
		a.Roles[i] = screening.Role(role)
	}

	if r.CompletedAt.Valid {
		t := r.CompletedAt.Time
		a.CompletedAt = &t
	}

	// Unmarshal JSONB fields
	if len(r.Fields) > 0 {
		if err := json.Unmarshal(r.Fields, &a.Fields); err != nil {
			return nil, fmt.Errorf("failed to unmarshal fields: %w", err)
		}
	}

	if len(r.Results) > 0 {
		if err := json.Unmarshal(r.Results, &a.Results); err != nil {
			return nil, fmt.Errorf("failed to unmarshal results: %w", err)
		}
	}

	if len(r.Features) > 0 {
		var fv screening.FeatureVector
		if err := json.Unmarshal(r.Features, &fv); err != nil {
			return nil, fmt.Errorf("failed to unmarshal features: %w", err)
		}
		a.Features = &fv
	}

	return a, nil
}

// analysisParams holds the encoded column values shared by insert and update
type analysisParams struct {
	roles         pq.StringArray
	fields        []byte
	results       []byte
	features      []byte
	featureVector any
}

func encodeAnalysis(a *screening.Analysis) (*analysisParams, error) {
	p := &analysisParams{roles: pq.StringArray(screening.RoleStrings(a.Roles))}

	fields := a.Fields
	if fields == nil {
		fields = screening.ResumeFields{}
	}
	var err error
	if p.fields, err = json.Marshal(fields); err != nil {
		return nil, fmt.Errorf("marshal fields: %w", err)
	}

	results := a.Results
	if results == nil {
		results = screening.Results{}
	}
	if p.results, err = json.Marshal(results); err != nil {
		return nil, fmt.Errorf("marshal results: %w", err)
	}

	if a.Features != nil {
		if p.features, err = json.Marshal(a.Features); err != nil {
			return nil, fmt.Errorf("marshal features: %w", err)
		}
		p.featureVector = pgvector.NewVector(a.Features.Values())
	}
	return p, nil
}

func rowsToDomain(rows []analysisRow) ([]screening.Analysis, error) {
	out := make([]screening.Analysis, 0, len(rows))
	for i := range rows {
		a, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, nil
}
