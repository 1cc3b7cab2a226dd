package screeninginfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Abraxas-365/resumescan/pkg/errx"
	"github.com/Abraxas-365/resumescan/pkg/kernel"
	"github.com/Abraxas-365/resumescan/recruitment/screening"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PostgresAnalysisRepository struct {
	db *sqlx.DB
}

func NewPostgresAnalysisRepository(db *sqlx.DB) *PostgresAnalysisRepository {
	return &PostgresAnalysisRepository{db: db}
}

var _ screening.Repository = (*PostgresAnalysisRepository)(nil)

// ============================================================================
// CRUD Operations
// ============================================================================

// Create creates a new analysis
func (r *PostgresAnalysisRepository) Create(ctx context.Context, a *screening.Analysis) error {
	query := `
		INSERT INTO analyses (
			id, user_id, status,
			resume_file_name, resume_path, cover_letter_file_name, cover_letter_path,
			roles, fields, cover_letter, results, features, feature_vector, method,
			attempt_count, error_message,
			created_at, updated_at, completed_at
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7,
			$8, $9, $10, $11, $12, $13, $14,
			$15, $16,
			$17, $18, $19
		)`

	p, err := encodeAnalysis(a)
	if err != nil {
		return screening.ErrInvalidRequest().
			WithDetail("analysis_id", a.ID).
			WithDetail("error", err.Error())
	}

	_, err = r.db.ExecContext(ctx, query,
		a.ID, a.UserID, a.Status,
		a.ResumeFileName, a.ResumePath, a.CoverLetterFileName, a.CoverLetterPath,
		p.roles, p.fields, a.CoverLetter, p.results, nullableJSON(p.features), p.featureVector, a.Method,
		a.AttemptCount, a.ErrorMessage,
		a.CreatedAt, a.UpdatedAt, a.CompletedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return errx.Wrap(err, "analysis owner does not exist", errx.TypeValidation).
				WithDetail("user_id", a.UserID)
		}
		return errx.Wrap(err, "failed to insert analysis", errx.TypeInternal).
			WithDetail("analysis_id", a.ID)
	}
	return nil
}

// Update updates status, extracted data and results of an analysis
func (r *PostgresAnalysisRepository) Update(ctx context.Context, a *screening.Analysis) error {
	query := `
		UPDATE analyses SET
			status = $1,
			fields = $2,
			cover_letter = $3,
			results = $4,
			features = $5,
			feature_vector = $6,
			method = $7,
			attempt_count = $8,
			error_message = $9,
			updated_at = $10,
			completed_at = $11
		WHERE id = $12`

	p, err := encodeAnalysis(a)
	if err != nil {
		return screening.ErrInvalidRequest().
			WithDetail("analysis_id", a.ID).
			WithDetail("error", err.Error())
	}

	result, err := r.db.ExecContext(ctx, query,
		a.Status, p.fields, a.CoverLetter, p.results, nullableJSON(p.features), p.featureVector,
		a.Method, a.AttemptCount, a.ErrorMessage, a.UpdatedAt, a.CompletedAt,
		a.ID,
	)
	if err != nil {
		return errx.Wrap(err, "failed to update analysis", errx.TypeInternal).
			WithDetail("analysis_id", a.ID)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to update analysis", errx.TypeInternal)
	}
	if rows == 0 {
		return screening.ErrAnalysisNotFound().WithDetail("analysis_id", a.ID)
	}
	return nil
}

// GetByID retrieves an analysis by ID
func (r *PostgresAnalysisRepository) GetByID(ctx context.Context, id kernel.AnalysisID) (*screening.Analysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM analyses WHERE id = $1`

	var row analysisRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, screening.ErrAnalysisNotFound().WithDetail("analysis_id", id)
		}
		return nil, errx.Wrap(err, "failed to get analysis", errx.TypeInternal).
			WithDetail("analysis_id", id)
	}
	return row.ToDomain()
}

// ListByUser retrieves a user's analyses, newest first
func (r *PostgresAnalysisRepository) ListByUser(ctx context.Context, userID kernel.UserID, pagination kernel.PaginationOptions) (*kernel.Paginated[screening.Analysis], error) {
	return r.list(ctx, "WHERE user_id = $1", []any{userID}, pagination)
}

// List retrieves every analysis, newest first
func (r *PostgresAnalysisRepository) List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[screening.Analysis], error) {
	return r.list(ctx, "", nil, pagination)
}

func (r *PostgresAnalysisRepository) list(ctx context.Context, where string, args []any, pagination kernel.PaginationOptions) (*kernel.Paginated[screening.Analysis], error) {
	pagination = pagination.Normalize()

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM analyses `+where, args...); err != nil {
		return nil, errx.Wrap(err, "failed to count analyses", errx.TypeInternal)
	}

	n := len(args)
	query := `SELECT ` + analysisColumns + ` FROM analyses ` + where +
		` ORDER BY created_at DESC, id LIMIT $` + itoa(n+1) + ` OFFSET $` + itoa(n+2)

	var rows []analysisRow
	if err := r.db.SelectContext(ctx, &rows, query, append(args, pagination.PageSize, pagination.Offset())...); err != nil {
		return nil, errx.Wrap(err, "failed to list analyses", errx.TypeInternal)
	}

	items, err := rowsToDomain(rows)
	if err != nil {
		return nil, errx.Wrap(err, "failed to decode analyses", errx.TypeInternal)
	}
	return kernel.NewPaginated(items, pagination, total), nil
}

// Delete deletes an analysis by ID
func (r *PostgresAnalysisRepository) Delete(ctx context.Context, id kernel.AnalysisID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = $1`, id)
	if err != nil {
		return errx.Wrap(err, "failed to delete analysis", errx.TypeInternal).
			WithDetail("analysis_id", id)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to delete analysis", errx.TypeInternal)
	}
	if rows == 0 {
		return screening.ErrAnalysisNotFound().WithDetail("analysis_id", id)
	}
	return nil
}

// ============================================================================
// Similarity with pgvector
// ============================================================================

// FindSimilar orders completed analyses by euclidean distance between feature vectors
func (r *PostgresAnalysisRepository) FindSimilar(ctx context.Context, id kernel.AnalysisID, userID *kernel.UserID, limit int) ([]screening.SimilarAnalysis, error) {
	query := `
		SELECT ` + prefixed("a") + `, a.feature_vector <-> src.feature_vector AS distance
		FROM analyses a
		CROSS JOIN (SELECT feature_vector FROM analyses WHERE id = $1) src
		WHERE a.id <> $1
			AND a.status = 'completed'
			AND a.feature_vector IS NOT NULL
			AND src.feature_vector IS NOT NULL
			AND ($2::text IS NULL OR a.user_id = $2)
		ORDER BY distance, a.created_at DESC
		LIMIT $3`

	var scope any
	if userID != nil {
		scope = *userID
	}

	var rows []similarRow
	if err := r.db.SelectContext(ctx, &rows, query, id, scope, limit); err != nil {
		return nil, errx.Wrap(err, "failed to find similar analyses", errx.TypeInternal).
			WithDetail("analysis_id", id)
	}

	out := make([]screening.SimilarAnalysis, 0, len(rows))
	for i := range rows {
		a, err := rows[i].ToDomain()
		if err != nil {
			return nil, errx.Wrap(err, "failed to decode analysis", errx.TypeInternal)
		}
		out = append(out, screening.SimilarAnalysis{Analysis: *a, Distance: rows[i].Distance})
	}
	return out, nil
}

func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
