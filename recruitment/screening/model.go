package screening

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/Abraxas-365/resumescan/pkg/errx"
	"gopkg.in/yaml.v3"
)

const defaultModelThreshold = 0.5

// Model is a pre-trained logistic classifier per role. It is only loaded here, never trained.
type Model struct {
	Version  string             `yaml:"version"`
	Features []ModelFeature     `yaml:"features"`
	Roles    map[Role]RoleModel `yaml:"roles"`

	scales map[string]float64
}

// ModelFeature divides a raw feature by Scale before weighting
type ModelFeature struct {
	Name  string  `yaml:"name"`
	Scale float64 `yaml:"scale"`
}

type RoleModel struct {
	Bias          float64            `yaml:"bias"`
	Weights       map[string]float64 `yaml:"weights"`
	Threshold     float64            `yaml:"threshold"`
	Keywords      []string           `yaml:"keywords"`
	KeywordWeight float64            `yaml:"keyword_weight"`
}

func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrModelInvalid().WithDetail("path", path).WithCause(err)
	}
	m, err := ParseModel(data)
	if err != nil {
		if e, ok := errx.As(err); ok {
			return nil, e.WithDetail("path", path)
		}
		return nil, err
	}
	return m, nil
}

func ParseModel(data []byte) (*Model, error) {
	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, ErrModelInvalid().WithCause(err)
	}
	if len(m.Roles) == 0 {
		return nil, ErrModelInvalid().WithDetail("reason", "model defines no roles")
	}

	m.scales = make(map[string]float64, len(m.Features))
	for _, f := range m.Features {
		if !isFeatureName(f.Name) {
			return nil, ErrModelInvalid().WithDetail("reason", "unknown feature").WithDetail("feature", f.Name)
		}
		if f.Scale < 0 {
			return nil, ErrModelInvalid().WithDetail("reason", "negative scale").WithDetail("feature", f.Name)
		}
		m.scales[f.Name] = f.Scale
	}

	for role, rm := range m.Roles {
		for name := range rm.Weights {
			if !isFeatureName(name) {
				return nil, ErrModelInvalid().
					WithDetail("reason", "unknown feature in weights").
					WithDetail("role", role).
					WithDetail("feature", name)
			}
		}
		if rm.Threshold == 0 {
			rm.Threshold = defaultModelThreshold
		}
		if rm.Threshold <= 0 || rm.Threshold >= 1 {
			return nil, ErrModelInvalid().WithDetail("reason", "threshold must be in (0,1)").WithDetail("role", role)
		}
		m.Roles[role] = rm
	}
	return &m, nil
}

// RoleNames returns the model's roles sorted by name
func (m *Model) RoleNames() []Role {
	out := make([]Role, 0, len(m.Roles))
	for r := range m.Roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Predict returns the probability that the profile suits the role
func (m *Model) Predict(role Role, p Profile) (float64, bool) {
	rm, ok := m.Roles[role]
	if !ok {
		return 0, false
	}
	fv := BuildFeatures(p)
	z := rm.Bias
	for name, w := range rm.Weights {
		v, _ := fv.Get(name)
		if s := m.scales[name]; s > 0 {
			v /= s
		}
		z += w * v
	}
	z += rm.KeywordWeight * float64(keywordHits(p, rm.Keywords))
	return sigmoid(z), true
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// ModelScorer uses the model for the roles it knows and rules for the rest
type ModelScorer struct {
	model    *Model
	fallback *RuleScorer
}

func NewModelScorer(model *Model, fallback *RuleScorer) *ModelScorer {
	if fallback == nil {
		fallback = NewRuleScorer()
	}
	return &ModelScorer{model: model, fallback: fallback}
}

func (s *ModelScorer) Name() string { return MethodModel }

func (s *ModelScorer) Roles() []Role {
	return mergeRoles(s.fallback.Roles(), s.model.RoleNames())
}

// ModelRoles lists the roles scored by the model itself
func (s *ModelScorer) ModelRoles() []Role {
	return s.model.RoleNames()
}

func (s *ModelScorer) Score(_ context.Context, profile Profile, roles []Role) (Results, error) {
	results := make(Results, 0, len(roles))
	for _, role := range roles {
		prob, ok := s.model.Predict(role, profile)
		if !ok {
			results = append(results, s.fallback.ScoreRole(profile, role))
			continue
		}
		threshold := s.model.Roles[role].Threshold
		r := NewResult(role, MethodModel, prob*100, prob >= threshold)
		r.Reason = fmt.Sprintf("model %s: p=%.3f threshold=%.2f", s.model.Version, prob, threshold)
		results = append(results, r)
	}
	return results, nil
}

func mergeRoles(lists ...[]Role) []Role {
	seen := map[Role]struct{}{}
	var out []Role
	for _, l := range lists {
		for _, r := range l {
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}
