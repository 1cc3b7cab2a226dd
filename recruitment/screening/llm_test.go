package screening

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClassifier struct {
	out map[Role]Assessment
	err error
}

func (f *fakeClassifier) Classify(context.Context, Profile, []Role) (map[Role]Assessment, error) {
	return f.out, f.err
}

func TestLLMScorer(t *testing.T) {
	classifier := &fakeClassifier{out: map[Role]Assessment{
		RoleAccountant:       {Percentage: 72.456, Reason: "strong finance background"},
		RoleChemicalEngineer: {Percentage: 140},
	}}
	scorer := NewLLMScorer(classifier, nil)

	p := profileFrom("Experience (Years): 3\nEducation: PhD")
	results, err := scorer.Score(context.Background(), p, []Role{RoleAccountant, RoleChemicalEngineer, "Astronaut"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, MethodLLM, results[0].Method)
	assert.Equal(t, 72.46, results[0].Percentage)
	assert.True(t, results[0].Suitable)
	assert.Equal(t, "strong finance background", results[0].Reason)

	// out of range falls back to the rules
	assert.Equal(t, MethodRules, results[1].Method)
	assert.Equal(t, 100.0, results[1].Percentage)

	assert.Equal(t, MethodRules, results[2].Method)
	assert.Equal(t, []string{MethodLLM, MethodRules}, results.Methods())
}

func TestLLMScorer_ClassifierDown(t *testing.T) {
	scorer := NewLLMScorer(&fakeClassifier{err: errors.New("503")}, nil)

	results, err := scorer.Score(context.Background(), profileFrom("Experience (Years): 1"), []Role{RoleChemicalEngineer})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, MethodRules, results[0].Method)
	assert.False(t, results[0].Suitable)
	assert.Contains(t, results[0].Reason, "503")
}

func TestLLMScorer_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scorer := NewLLMScorer(&fakeClassifier{err: context.Canceled}, nil)
	_, err := scorer.Score(ctx, Profile{}, []Role{RoleAccountant})
	assert.ErrorIs(t, err, context.Canceled)
}
