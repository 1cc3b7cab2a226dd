package screeninginfra

import (
	"database/sql"
	"testing"
	"time"

	"github.com/Abraxas-365/resumescan/recruitment/screening"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeAnalysis_RoundTripsThroughRow(t *testing.T) {
	profile := screening.Profile{Fields: screening.ResumeFields{
		screening.FieldEducation:       "Master’s",
		screening.FieldExperienceYears: "5",
	}}
	fv := screening.BuildFeatures(profile)
	a := &screening.Analysis{
		ID:       "a1",
		Roles:    []screening.Role{screening.RoleAccountant},
		Fields:   profile.Fields,
		Results:  screening.Results{screening.NewResult(screening.RoleAccountant, screening.MethodRules, 100, true)},
		Features: &fv,
	}

	p, err := encodeAnalysis(a)
	require.NoError(t, err)
	assert.Equal(t, pgvector.NewVector(fv.Values()), p.featureVector)

	now := time.Now()
	row := analysisRow{
		ID:          "a1",
		Status:      string(screening.AnalysisStatusCompleted),
		Roles:       p.roles,
		Fields:      p.fields,
		Results:     p.results,
		Features:    p.features,
		CompletedAt: sql.NullTime{Time: now, Valid: true},
	}
	got, err := row.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, a.Roles, got.Roles)
	assert.Equal(t, a.Fields, got.Fields)
	assert.Equal(t, a.Results, got.Results)
	assert.Equal(t, fv, *got.Features)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, now, *got.CompletedAt)
}

func TestEncodeAnalysis_PendingHasNoVector(t *testing.T) {
	p, err := encodeAnalysis(&screening.Analysis{ID: "a1"})
	require.NoError(t, err)
	assert.Nil(t, p.featureVector)
	assert.Nil(t, p.features)
	assert.JSONEq(t, `{}`, string(p.fields))
	assert.JSONEq(t, `[]`, string(p.results))
}

func TestPrefixed(t *testing.T) {
	cols := prefixed("a")
	assert.Contains(t, cols, "a.id, a.user_id")
	assert.Contains(t, cols, "a.completed_at")
	assert.NotContains(t, cols, "\n")
}
