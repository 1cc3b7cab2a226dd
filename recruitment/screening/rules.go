package screening

import (
	"context"
	"fmt"
	"strings"
)

// Criterion is one pass/fail check used by the rule scorer
type Criterion struct {
	Name  string
	Check func(p Profile) (bool, string)
}

// RuleScorer scores each role as the share of its criteria that are met
type RuleScorer struct {
	order []Role
	rules map[Role][]Criterion
}

func NewRuleScorer() *RuleScorer {
	s := &RuleScorer{rules: map[Role][]Criterion{}}
	s.Add(RoleAccountant, Criterion{
		Name:  "education",
		Check: educationIn("Bachelor's Degree", "Master's Degree"),
	})
	s.Add(RoleChemicalEngineer, Criterion{
		Name:  "experience",
		Check: experienceAbove(2),
	})
	return s
}

// Add appends criteria for a role, registering the role if new
func (s *RuleScorer) Add(role Role, criteria ...Criterion) {
	if _, ok := s.rules[role]; !ok {
		s.order = append(s.order, role)
	}
	s.rules[role] = append(s.rules[role], criteria...)
}

func (s *RuleScorer) Name() string { return MethodRules }

func (s *RuleScorer) Roles() []Role {
	out := make([]Role, len(s.order))
	copy(out, s.order)
	return out
}

func (s *RuleScorer) Knows(role Role) bool {
	_, ok := s.rules[role]
	return ok
}

func (s *RuleScorer) Score(_ context.Context, profile Profile, roles []Role) (Results, error) {
	results := make(Results, 0, len(roles))
	for _, role := range roles {
		results = append(results, s.ScoreRole(profile, role))
	}
	return results, nil
}

// ScoreRole scores a single role. Roles without criteria score 0%.
func (s *RuleScorer) ScoreRole(profile Profile, role Role) Result {
	criteria := s.rules[role]
	met := 0
	outcomes := make([]CriterionResult, 0, len(criteria))
	for _, c := range criteria {
		ok, detail := c.Check(profile)
		if ok {
			met++
		}
		outcomes = append(outcomes, CriterionResult{Name: c.Name, Met: ok, Detail: detail})
	}

	percentage := 0.0
	if len(criteria) > 0 {
		percentage = float64(met) / float64(len(criteria)) * 100
	}
	r := NewResult(role, MethodRules, percentage, roundPercentage(percentage) >= SuitableThreshold)
	r.Criteria = outcomes
	return r
}

// normalizeApostrophes folds typographic quotes so either spelling matches
func normalizeApostrophes(s string) string {
	return strings.NewReplacer("’", "'", "‘", "'", "`", "'").Replace(s)
}

func educationIn(accepted ...string) func(Profile) (bool, string) {
	want := make(map[string]struct{}, len(accepted))
	for _, a := range accepted {
		want[strings.ToLower(normalizeApostrophes(a))] = struct{}{}
	}
	return func(p Profile) (bool, string) {
		edu := p.Fields.Education()
		_, ok := want[strings.ToLower(normalizeApostrophes(strings.TrimSpace(edu)))]
		if edu == "" {
			return false, "education not found"
		}
		return ok, fmt.Sprintf("education %q", edu)
	}
}

func experienceAbove(years int) func(Profile) (bool, string) {
	return func(p Profile) (bool, string) {
		got := p.Fields.ExperienceYears()
		return got > years, fmt.Sprintf("%d years, need more than %d", got, years)
	}
}
