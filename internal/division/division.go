package division

import (
	"fmt"
	"sort"
	"strings"

	"github.com/talentpipe/cv-ranker/internal/evaluation"
)

// Criterion names used by the built-in presets.
const (
	CriterionExperience     = "Experience"
	CriterionSkills         = "Skills"
	CriterionEducation      = "Education"
	CriterionCertifications = "Certifications"
)

// Preset is a division-specific weighting scheme. Criteria are listed in
// descending weight order, so the first entry is the tie-breaking criterion
// in batch ranking.
type Preset struct {
	Division  string
	Threshold float64
	Strict    bool
	Criteria  []evaluation.CriterionConfig
}

// Config builds a fresh evaluation config from the preset. Each call returns
// an independent copy so callers can adjust it without touching the preset.
func (p Preset) Config() *evaluation.Config {
	criteria := make([]evaluation.CriterionConfig, len(p.Criteria))
	copy(criteria, p.Criteria)

	return &evaluation.Config{
		ID:        "division:" + p.Division,
		Name:      fmt.Sprintf("%s division preset", p.Division),
		Division:  p.Division,
		Criteria:  criteria,
		Threshold: p.Threshold,
		Strict:    p.Strict,
	}
}

func weights(experience, skills, education, certifications float64) []evaluation.CriterionConfig {
	criteria := []evaluation.CriterionConfig{
		{Name: CriterionExperience, Weight: experience},
		{Name: CriterionSkills, Weight: skills},
		{Name: CriterionEducation, Weight: education},
		{Name: CriterionCertifications, Weight: certifications},
	}
	sort.SliceStable(criteria, func(i, j int) bool { return criteria[i].Weight > criteria[j].Weight })
	return criteria
}

var presets = map[string]Preset{
	"insurance_operations": {Division: "insurance_operations", Threshold: 80, Strict: true, Criteria: weights(0.40, 0.15, 0.20, 0.25)},
	"investment":           {Division: "investment", Threshold: 80, Strict: true, Criteria: weights(0.35, 0.15, 0.20, 0.30)},
	"technology":           {Division: "technology", Threshold: 70, Strict: false, Criteria: weights(0.25, 0.50, 0.15, 0.10)},
	"legal":                {Division: "legal", Threshold: 85, Strict: true, Criteria: weights(0.35, 0.15, 0.20, 0.30)},
	"hr":                   {Division: "hr", Threshold: 75, Strict: false, Criteria: weights(0.30, 0.30, 0.20, 0.20)},
	"sales":                {Division: "sales", Threshold: 70, Strict: false, Criteria: weights(0.40, 0.30, 0.10, 0.20)},
	"finance":              {Division: "finance", Threshold: 80, Strict: true, Criteria: weights(0.30, 0.15, 0.20, 0.35)},
	"customer_service":     {Division: "customer_service", Threshold: 65, Strict: false, Criteria: weights(0.35, 0.35, 0.15, 0.15)},
	"marketing":            {Division: "marketing", Threshold: 70, Strict: false, Criteria: weights(0.30, 0.40, 0.20, 0.10)},
	"executive":            {Division: "executive", Threshold: 85, Strict: true, Criteria: weights(0.50, 0.15, 0.25, 0.10)},
}

// defaultPreset applies when the division is unknown or empty.
var defaultPreset = Preset{
	Division:  "default",
	Threshold: 75,
	Strict:    false,
	Criteria:  weights(0.30, 0.30, 0.20, 0.20),
}

// Lookup returns the preset for a division name. The second return value
// reports whether the division is a known one; unknown divisions get the
// default preset.
func Lookup(name string) (Preset, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if preset, ok := presets[key]; ok {
		return preset, true
	}
	return defaultPreset, false
}

// Names returns the known division names in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
