package screening

import (
	"testing"

	"github.com/Abraxas-365/resumescan/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPending() *Analysis {
	return &Analysis{
		ID:     kernel.NewAnalysisID("a1"),
		UserID: kernel.NewUserID("u1"),
		Status: AnalysisStatusPending,
		Roles:  []Role{RoleAccountant},
	}
}

func TestAnalysis_Lifecycle(t *testing.T) {
	a := newPending()
	require.NoError(t, a.Start())
	assert.Equal(t, AnalysisStatusProcessing, a.Status)
	assert.Equal(t, 1, a.AttemptCount)

	p := profileFrom(sampleResume)
	results := Results{NewResult(RoleAccountant, MethodRules, 100, true)}
	require.NoError(t, a.Complete(p, results, MethodRules))

	assert.True(t, a.IsFinished())
	assert.NotNil(t, a.CompletedAt)
	require.NotNil(t, a.Features)
	assert.Equal(t, 7.0, a.Features.ExperienceYears)
	assert.Equal(t, "34", a.Fields.Get(FieldAge))

	err := a.Start()
	assert.True(t, isCode(err, CodeInvalidStatusTransition))
	assert.True(t, isCode(a.Fail("late"), CodeInvalidStatusTransition))
}

func TestAnalysis_RetryThenFail(t *testing.T) {
	a := newPending()
	require.NoError(t, a.Start())
	a.Requeue("file_read_failed")
	assert.Equal(t, AnalysisStatusPending, a.Status)

	require.NoError(t, a.Start())
	assert.Equal(t, 2, a.AttemptCount)
	require.NoError(t, a.Fail("file_read_failed"))
	assert.Equal(t, AnalysisStatusFailed, a.Status)
	assert.Equal(t, "file_read_failed", a.ErrorMessage)
}

func TestAnalysis_Responses(t *testing.T) {
	a := newPending()
	resp := a.ToResponse()
	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)

	a.Results = Results{
		NewResult(RoleAccountant, MethodRules, 100, true),
		NewResult(RoleChemicalEngineer, MethodRules, 0, false),
	}
	summary := a.ToSummary()
	assert.Equal(t, []Role{RoleAccountant}, summary.SuitableRoles)

	event := NewAnalysisEvent(a)
	assert.Equal(t, a.ID, event.AnalysisID)
	assert.Equal(t, []Role{RoleAccountant}, event.SuitableRoles)
}

func TestAnalysisJob_Retry(t *testing.T) {
	job := &AnalysisJob{MaxAttempts: DefaultMaxAttempts}
	job.AttemptCount = 1
	assert.Equal(t, 2*60.0, job.RetryDelay().Seconds())
	assert.True(t, job.CanRetry())
	job.AttemptCount = 3
	assert.False(t, job.CanRetry())
}

func TestNewResult_Rounding(t *testing.T) {
	r := NewResult(RoleAccountant, MethodRules, 66.6666, true)
	assert.Equal(t, 66.67, r.Percentage)
	assert.Equal(t, LabelSuitable, r.Label)

	assert.Equal(t, 100.0, NewResult(RoleAccountant, MethodLLM, 120, true).Percentage)
}
