package screening

import "context"

// Scorer rates a profile against each requested role
type Scorer interface {
	Name() string
	Score(ctx context.Context, profile Profile, roles []Role) (Results, error)
}

// RoleCatalog reports the roles a scorer has dedicated logic for
type RoleCatalog interface {
	Roles() []Role
}

// NewScorer picks the scorer for a scoring mode. model is required for
// "model" and classifier for "llm".
func NewScorer(mode string, model *Model, classifier RoleClassifier) (Scorer, error) {
	rules := NewRuleScorer()
	switch mode {
	case "", MethodRules:
		return rules, nil
	case MethodModel:
		if model == nil {
			return nil, ErrModelInvalid().WithDetail("reason", "no model loaded")
		}
		return NewModelScorer(model, rules), nil
	case MethodLLM:
		if classifier == nil {
			return nil, ErrScoringFailed().WithDetail("reason", "no classifier configured")
		}
		return NewLLMScorer(classifier, rules), nil
	default:
		return nil, ErrScoringFailed().WithDetail("reason", "unknown scoring mode").WithDetail("mode", mode)
	}
}
