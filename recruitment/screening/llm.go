package screening

import (
	"context"
	"fmt"
	"math"
)

// Assessment is a remote classifier's verdict for one role
type Assessment struct {
	Percentage float64 `json:"percentage"`
	Reason     string  `json:"reason"`
}

// RoleClassifier asks an external model to rate a profile per role
type RoleClassifier interface {
	Classify(ctx context.Context, profile Profile, roles []Role) (map[Role]Assessment, error)
}

// LLMScorer takes percentages from a RoleClassifier. Roles the classifier
// skips or scores out of range fall back to rules, and so does the whole
// request when the classifier fails.
type LLMScorer struct {
	classifier RoleClassifier
	fallback   *RuleScorer
}

func NewLLMScorer(classifier RoleClassifier, fallback *RuleScorer) *LLMScorer {
	if fallback == nil {
		fallback = NewRuleScorer()
	}
	return &LLMScorer{classifier: classifier, fallback: fallback}
}

func (s *LLMScorer) Name() string { return MethodLLM }

func (s *LLMScorer) Roles() []Role { return s.fallback.Roles() }

func (s *LLMScorer) Score(ctx context.Context, profile Profile, roles []Role) (Results, error) {
	assessments, err := s.classifier.Classify(ctx, profile, roles)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		results, _ := s.fallback.Score(ctx, profile, roles)
		for i := range results {
			results[i].Reason = fmt.Sprintf("classifier unavailable: %v", err)
		}
		return results, nil
	}

	results := make(Results, 0, len(roles))
	for _, role := range roles {
		a, ok := assessments[role]
		if !ok || math.IsNaN(a.Percentage) || a.Percentage < 0 || a.Percentage > 100 {
			results = append(results, s.fallback.ScoreRole(profile, role))
			continue
		}
		pct := roundPercentage(a.Percentage)
		r := NewResult(role, MethodLLM, pct, pct >= SuitableThreshold)
		r.Reason = a.Reason
		results = append(results, r)
	}
	return results, nil
}
