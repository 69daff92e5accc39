package evaluation

// MatchLevel classifies an overall score into a coarse band.
type MatchLevel string

const (
	MatchExcellent MatchLevel = "excellent" // 90-100
	MatchGood      MatchLevel = "good"      // 75-89
	MatchModerate  MatchLevel = "moderate"  // 60-74
	MatchWeak      MatchLevel = "weak"      // 40-59
	MatchPoor      MatchLevel = "poor"      // 0-39
)

// MatchLevelFor returns the band for an overall score.
func MatchLevelFor(score float64) MatchLevel {
	switch {
	case score >= 90:
		return MatchExcellent
	case score >= 75:
		return MatchGood
	case score >= 60:
		return MatchModerate
	case score >= 40:
		return MatchWeak
	default:
		return MatchPoor
	}
}

// Recommendation is the hiring recommendation derived from the match level.
type Recommendation string

const (
	RecommendStrongYes Recommendation = "strong_yes"
	RecommendYes       Recommendation = "yes"
	RecommendMaybe     Recommendation = "maybe"
	RecommendNo        Recommendation = "no"
	RecommendStrongNo  Recommendation = "strong_no"
)

// InterviewPriority orders passing candidates for scheduling.
type InterviewPriority string

const (
	PriorityHigh   InterviewPriority = "high"
	PriorityMedium InterviewPriority = "medium"
	PriorityLow    InterviewPriority = "low"
)

// CandidateInput is the normalized candidate profile consumed by the scorer:
// a sub-score in [0,100] per criterion name, plus optional evidence lists.
// Sub-scores are produced upstream (an extraction provider or a hand-authored
// document); the scorer validates presence and range only.
type CandidateInput struct {
	ID   string `json:"id" mapstructure:"id"`
	Name string `json:"name,omitempty" mapstructure:"name"`

	Scores   map[string]int             `json:"scores" mapstructure:"scores"`
	Evidence map[string][]MatchEvidence `json:"evidence,omitempty" mapstructure:"evidence"`

	// Confidence records how much the upstream extraction trusts its own
	// output, in [0,1]. Zero means unreported.
	Confidence float64 `json:"confidence,omitempty" mapstructure:"confidence"`

	// Resume holds raw resume text for candidates that still need
	// extraction. The scorer ignores it.
	Resume string `json:"resume,omitempty" mapstructure:"resume"`
}

// RequirementSet identifies the job requirement set a candidate is scored
// against. The scorer uses it for identification and for the presence
// validation described in the scoring contract; requirement texts are
// informational.
type RequirementSet struct {
	JobID    string `json:"job_id,omitempty" mapstructure:"job_id"`
	Title    string `json:"title,omitempty" mapstructure:"title"`
	Division string `json:"division,omitempty" mapstructure:"division"`

	Requirements map[string][]string `json:"requirements,omitempty" mapstructure:"requirements"`
}

// CriterionEvaluation is the immutable per-criterion result. Weight is the
// normalized effective weight actually used in the aggregate.
type CriterionEvaluation struct {
	Name          string  `json:"name"`
	Weight        float64 `json:"weight"`
	Score         int     `json:"score"`
	WeightedScore float64 `json:"weighted_score"`
	Passed        bool    `json:"passed"`
	Required      bool    `json:"required,omitempty"`

	Explanation string          `json:"explanation,omitempty"`
	Evidence    []MatchEvidence `json:"evidence,omitempty"`
	Confidence  float64         `json:"confidence,omitempty"`
}

// CVJDEvaluation is the aggregate result of scoring one candidate against one
// requirement set. Instances are created once per scoring run and must not be
// mutated by callers.
type CVJDEvaluation struct {
	CandidateID string `json:"candidate_id"`
	JobID       string `json:"job_id,omitempty"`
	ConfigID    string `json:"config_id,omitempty"`

	OverallScore float64    `json:"overall_score"`
	Passed       bool       `json:"passed"`
	MatchLevel   MatchLevel `json:"match_level"`

	CriterionEvaluations []CriterionEvaluation `json:"criterion_evaluations"`

	MatchSummary string   `json:"match_summary"`
	Strengths    []string `json:"strengths"`
	Gaps         []string `json:"gaps"`

	Disqualified            bool     `json:"disqualified,omitempty"`
	DisqualificationReasons []string `json:"disqualification_reasons,omitempty"`

	Recommendation    Recommendation    `json:"recommendation"`
	InterviewPriority InterviewPriority `json:"interview_priority"`

	ExtractionConfidence float64 `json:"extraction_confidence"`
	MatchingConfidence   float64 `json:"matching_confidence"`
}

// CriterionScore returns the score recorded for the named criterion, or -1
// when the evaluation does not contain it.
func (e *CVJDEvaluation) CriterionScore(name string) int {
	for _, criterion := range e.CriterionEvaluations {
		if criterion.Name == name {
			return criterion.Score
		}
	}
	return -1
}
