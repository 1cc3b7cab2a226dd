package screening

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// Field is the label of a value pulled out of the resume text
type Field string

const (
	FieldAge                  Field = "Age"
	FieldExperienceYears      Field = "Experience (Years)"
	FieldEducation            Field = "Education"
	FieldSkills               Field = "Skills"
	FieldCertifications       Field = "Certifications"
	FieldRegion               Field = "Region"
	FieldLanguagesSpoken      Field = "Languages Spoken"
	FieldPreviousJobRole      Field = "Previous Job Role"
	FieldLocation             Field = "Location"
	FieldEducationInstitution Field = "Education Institution"
)

// ws matches what resume text treats as whitespace, including NBSP and the
// other Unicode separators, so "Age:\u00a030" still yields 30
const ws = `[\s\v\p{Z}\x{1c}-\x{1f}\x{85}]*`

func labelled(label, value string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(label) + `:` + ws + `(` + value + `)`)
}

// fieldPatterns is applied in order; the first match of each pattern wins
var fieldPatterns = []struct {
	field   Field
	pattern *regexp.Regexp
}{
	{FieldAge, labelled("Age", `\p{Nd}+`)},
	{FieldExperienceYears, labelled("Experience (Years)", `\p{Nd}+`)},
	{FieldEducation, labelled("Education", `.+`)},
	{FieldSkills, labelled("Skills", `.+`)},
	{FieldCertifications, labelled("Certifications", `.+`)},
	{FieldRegion, labelled("Region", `.+`)},
	{FieldLanguagesSpoken, labelled("Languages Spoken", `.+`)},
	{FieldPreviousJobRole, labelled("Previous Job Role", `.+`)},
	{FieldLocation, labelled("Location", `.+`)},
	{FieldEducationInstitution, labelled("Education Institution", `.+`)},
}

// AllFields lists every extracted field in extraction order
func AllFields() []Field {
	out := make([]Field, len(fieldPatterns))
	for i, fp := range fieldPatterns {
		out[i] = fp.field
	}
	return out
}

// ResumeFields always holds every field; missing values are ""
type ResumeFields map[Field]string

// ExtractFields applies the field patterns to resume text
func ExtractFields(text string) ResumeFields {
	fields := make(ResumeFields, len(fieldPatterns))
	for _, fp := range fieldPatterns {
		value := ""
		if m := fp.pattern.FindStringSubmatch(text); m != nil {
			value = strings.TrimFunc(m[1], isSpace)
		}
		fields[fp.field] = value
	}
	return fields
}

func (f ResumeFields) Get(field Field) string {
	return f[field]
}

// Age returns the parsed age and whether one was present
func (f ResumeFields) Age() (int, bool) {
	return parseDigits(f[FieldAge])
}

// ExperienceYears is 0 when the value is missing or not a number.
// Values too large for an int count as math.MaxInt.
func (f ResumeFields) ExperienceYears() int {
	n, _ := parseDigits(f[FieldExperienceYears])
	return n
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || unicode.In(r, unicode.Z) || (r >= 0x1c && r <= 0x1f)
}

// parseDigits reads a run of decimal digits from any script, saturating at math.MaxInt
func parseDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		d, ok := digitValue(r)
		if !ok {
			return 0, false
		}
		if n > (math.MaxInt-d)/10 {
			n = math.MaxInt
			continue
		}
		n = n*10 + d
	}
	return n, true
}

// digitValue relies on every Nd run being made of whole 0-9 blocks in order
func digitValue(r rune) (int, bool) {
	if r >= '0' && r <= '9' {
		return int(r - '0'), true
	}
	if !unicode.Is(unicode.Nd, r) {
		return 0, false
	}
	start := r
	for unicode.Is(unicode.Nd, start-1) {
		start--
	}
	return int(r-start) % 10, true
}

func (f ResumeFields) Education() string {
	return f[FieldEducation]
}

func (f ResumeFields) SkillList() []string {
	return splitList(f[FieldSkills])
}

func (f ResumeFields) CertificationList() []string {
	return splitList(f[FieldCertifications])
}

func (f ResumeFields) LanguageList() []string {
	return splitList(f[FieldLanguagesSpoken])
}

func splitList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		key := strings.ToLower(p)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Profile is everything scorers look at for one candidate
type Profile struct {
	Fields      ResumeFields `json:"fields"`
	CoverLetter string       `json:"cover_letter,omitempty"`
}
