package screening

import (
	"strings"
)

// FeatureDimensions is the length of FeatureVector.Values and of the stored vector column
const FeatureDimensions = 8

const (
	FeatureExperienceYears     = "experience_years"
	FeatureAge                 = "age"
	FeatureEducationLevel      = "education_level"
	FeatureSkillsCount         = "skills_count"
	FeatureCertificationsCount = "certifications_count"
	FeatureLanguagesCount      = "languages_count"
	FeatureHasPreviousRole     = "has_previous_role"
	FeatureCoverLetterWords    = "cover_letter_words"
)

var featureNames = [FeatureDimensions]string{
	FeatureExperienceYears,
	FeatureAge,
	FeatureEducationLevel,
	FeatureSkillsCount,
	FeatureCertificationsCount,
	FeatureLanguagesCount,
	FeatureHasPreviousRole,
	FeatureCoverLetterWords,
}

func FeatureNames() []string {
	return featureNames[:]
}

func isFeatureName(name string) bool {
	for _, n := range featureNames {
		if n == name {
			return true
		}
	}
	return false
}

// FeatureVector is the numeric view of a profile fed to the model
type FeatureVector struct {
	ExperienceYears     float64 `json:"experience_years"`
	Age                 float64 `json:"age"`
	EducationLevel      float64 `json:"education_level"`
	SkillsCount         float64 `json:"skills_count"`
	CertificationsCount float64 `json:"certifications_count"`
	LanguagesCount      float64 `json:"languages_count"`
	HasPreviousRole     float64 `json:"has_previous_role"`
	CoverLetterWords    float64 `json:"cover_letter_words"`
}

func BuildFeatures(p Profile) FeatureVector {
	age, _ := p.Fields.Age()
	fv := FeatureVector{
		ExperienceYears:     float64(p.Fields.ExperienceYears()),
		Age:                 float64(age),
		EducationLevel:      float64(EducationLevel(p.Fields.Education())),
		SkillsCount:         float64(len(p.Fields.SkillList())),
		CertificationsCount: float64(len(p.Fields.CertificationList())),
		LanguagesCount:      float64(len(p.Fields.LanguageList())),
		CoverLetterWords:    float64(len(strings.Fields(p.CoverLetter))),
	}
	if strings.TrimSpace(p.Fields.Get(FieldPreviousJobRole)) != "" {
		fv.HasPreviousRole = 1
	}
	return fv
}

// Get returns a feature by name
func (fv FeatureVector) Get(name string) (float64, bool) {
	values := fv.Values()
	for i, n := range featureNames {
		if n == name {
			return float64(values[i]), true
		}
	}
	return 0, false
}

// Values is the vector in FeatureNames order
func (fv FeatureVector) Values() []float32 {
	return []float32{
		float32(fv.ExperienceYears),
		float32(fv.Age),
		float32(fv.EducationLevel),
		float32(fv.SkillsCount),
		float32(fv.CertificationsCount),
		float32(fv.LanguagesCount),
		float32(fv.HasPreviousRole),
		float32(fv.CoverLetterWords),
	}
}

// EducationLevel maps a free-text education value to an ordinal:
// 0 unknown, 1 high school, 2 associate or diploma, 3 bachelor, 4 master, 5 doctorate.
func EducationLevel(education string) int {
	e := strings.ToLower(education)
	switch {
	case e == "":
		return 0
	case strings.Contains(e, "phd"), strings.Contains(e, "ph.d"), strings.Contains(e, "doctor"):
		return 5
	case strings.Contains(e, "master"), strings.Contains(e, "mba"), strings.Contains(e, "msc"):
		return 4
	case strings.Contains(e, "bachelor"), strings.Contains(e, "bsc"), strings.Contains(e, "b.s"):
		return 3
	case strings.Contains(e, "associate"), strings.Contains(e, "diploma"):
		return 2
	case strings.Contains(e, "high school"), strings.Contains(e, "secondary"):
		return 1
	default:
		return 0
	}
}

// keywordHits counts distinct keywords present in the skills, previous role and cover letter
func keywordHits(p Profile, keywords []string) int {
	if len(keywords) == 0 {
		return 0
	}
	haystack := strings.ToLower(strings.Join([]string{
		p.Fields.Get(FieldSkills),
		p.Fields.Get(FieldCertifications),
		p.Fields.Get(FieldPreviousJobRole),
		p.CoverLetter,
	}, "\n"))
	hits := 0
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" && strings.Contains(haystack, k) {
			hits++
		}
	}
	return hits
}
