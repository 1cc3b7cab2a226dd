package screening

import "math"

type Label string

const (
	LabelSuitable    Label = "Suitable"
	LabelNotSuitable Label = "Not Suitable"
)

const (
	MethodRules = "rules"
	MethodModel = "model"
	MethodLLM   = "llm"
)

// SuitableThreshold is the percentage at which a rules score counts as suitable
const SuitableThreshold = 50.0

type CriterionResult struct {
	Name   string `json:"name"`
	Met    bool   `json:"met"`
	Detail string `json:"detail,omitempty"`
}

type Result struct {
	Role       Role              `json:"role"`
	Suitable   bool              `json:"suitable"`
	Label      Label             `json:"label"`
	Percentage float64           `json:"percentage"`
	Method     string            `json:"method"`
	Criteria   []CriterionResult `json:"criteria,omitempty"`
	Reason     string            `json:"reason,omitempty"`
}

type Results []Result

// NewResult rounds the percentage to two decimals and sets the label
func NewResult(role Role, method string, percentage float64, suitable bool) Result {
	label := LabelNotSuitable
	if suitable {
		label = LabelSuitable
	}
	return Result{
		Role:       role,
		Suitable:   suitable,
		Label:      label,
		Percentage: roundPercentage(percentage),
		Method:     method,
	}
}

func roundPercentage(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	p = math.Max(0, math.Min(100, p))
	return math.Round(p*100) / 100
}

func (rs Results) ForRole(role Role) (Result, bool) {
	for _, r := range rs {
		if r.Role == role {
			return r, true
		}
	}
	return Result{}, false
}

func (rs Results) SuitableRoles() []Role {
	out := make([]Role, 0, len(rs))
	for _, r := range rs {
		if r.Suitable {
			out = append(out, r.Role)
		}
	}
	return out
}

// Methods lists the distinct scoring methods used, in result order
func (rs Results) Methods() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range rs {
		if _, ok := seen[r.Method]; ok {
			continue
		}
		seen[r.Method] = struct{}{}
		out = append(out, r.Method)
	}
	return out
}
