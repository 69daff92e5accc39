package evaluation

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

const (
	// strengthScore is the minimum raw sub-score for a criterion to count
	// as a strength.
	strengthScore = 80
	// gapScore is the raw sub-score below which a criterion counts as a gap.
	gapScore = 50
	// highPriorityScore is the overall score at which a passing candidate
	// gets a high interview priority.
	highPriorityScore = 85.0
)

// Score evaluates one candidate against one requirement set under the given
// config and threshold. It is a pure function: repeated calls with the same
// inputs produce identical results, and no input is mutated.
//
// Weights are auto-normalized before scoring, so configs whose weights sum to
// any positive total are accepted. The overall score is rounded to one
// decimal with round-half-to-even. A candidate whose overall score equals the
// threshold passes.
func Score(candidate *CandidateInput, requirements *RequirementSet, cfg *Config, threshold float64) (*CVJDEvaluation, error) {
	if candidate == nil {
		return nil, errors.New("candidate is required")
	}
	if cfg == nil {
		return nil, errors.New("evaluation config is required")
	}
	if len(cfg.Criteria) == 0 {
		return nil, errors.New("evaluation config has no criteria")
	}

	weights, err := cfg.normalizedWeights()
	if err != nil {
		return nil, err
	}

	criteria := make([]CriterionEvaluation, 0, len(cfg.Criteria))
	overall := 0.0
	matchingConfidence := 0.0

	var disqualifications []string

	for i, criterion := range cfg.Criteria {
		raw, ok := candidate.Scores[criterion.Name]
		if !ok {
			return nil, &MissingCriterionError{CandidateID: candidate.ID, Criterion: criterion.Name}
		}
		if raw < 0 || raw > 100 {
			return nil, &OutOfRangeError{CandidateID: candidate.ID, Criterion: criterion.Name, Score: raw}
		}

		weight := weights[i]
		contribution := float64(raw) * weight
		overall += contribution

		confidence := evidenceConfidence(candidate.Evidence[criterion.Name])
		matchingConfidence += weight * confidence

		passed := raw >= criterion.MinimumScore
		if cfg.Strict && criterion.Required && !passed {
			disqualifications = append(disqualifications,
				fmt.Sprintf("required criterion %q scored %d, below minimum %d", criterion.Name, raw, criterion.MinimumScore))
		}

		criteria = append(criteria, CriterionEvaluation{
			Name:          criterion.Name,
			Weight:        weight,
			Score:         raw,
			WeightedScore: contribution,
			Passed:        passed,
			Required:      criterion.Required,
			Explanation:   fmt.Sprintf("%s: %d/100, contributing %.1f points", criterion.Name, raw, contribution),
			Evidence:      candidate.Evidence[criterion.Name],
			Confidence:    confidence,
		})
	}

	overall = roundHalfEven(overall)

	disqualified := len(disqualifications) > 0
	passed := overall >= threshold && !disqualified

	strengths := selectCriteria(criteria, func(c CriterionEvaluation) bool { return c.Score >= strengthScore }, false)
	gaps := selectCriteria(criteria, func(c CriterionEvaluation) bool { return c.Score < gapScore }, true)

	level := MatchLevelFor(overall)

	jobID := ""
	if requirements != nil {
		jobID = requirements.JobID
	}

	return &CVJDEvaluation{
		CandidateID:          candidate.ID,
		JobID:                jobID,
		ConfigID:             cfg.ID,
		OverallScore:         overall,
		Passed:               passed,
		MatchLevel:           level,
		CriterionEvaluations: criteria,
		MatchSummary:         fmt.Sprintf("%.1f/100 — %d strength(s), %d gap(s).", overall, len(strengths), len(gaps)),
		Strengths:            strengths,
		Gaps:                 gaps,

		Disqualified:            disqualified,
		DisqualificationReasons: disqualifications,

		Recommendation:    recommendationFor(level, disqualified),
		InterviewPriority: priorityFor(overall, passed),

		ExtractionConfidence: candidate.Confidence,
		MatchingConfidence:   matchingConfidence,
	}, nil
}

// roundHalfEven rounds to one decimal place using banker's rounding, so the
// result is reproducible across platforms.
func roundHalfEven(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}

// selectCriteria returns the names of criteria matching the predicate,
// ordered by their contribution to the overall score. Strengths are ordered
// best contributor first, gaps worst contributor first; ties break by name.
func selectCriteria(criteria []CriterionEvaluation, match func(CriterionEvaluation) bool, ascending bool) []string {
	picked := make([]CriterionEvaluation, 0, len(criteria))
	for _, criterion := range criteria {
		if match(criterion) {
			picked = append(picked, criterion)
		}
	}

	sort.Slice(picked, func(i, j int) bool {
		a, b := picked[i], picked[j]
		if a.WeightedScore != b.WeightedScore {
			if ascending {
				return a.WeightedScore < b.WeightedScore
			}
			return a.WeightedScore > b.WeightedScore
		}
		return a.Name < b.Name
	})

	names := make([]string, len(picked))
	for i, criterion := range picked {
		names[i] = criterion.Name
	}
	return names
}

// evidenceConfidence averages the reported evidence confidences for one
// criterion. Criteria without any reported confidence count as fully trusted,
// so hand-authored score documents are not penalized.
func evidenceConfidence(evidence []MatchEvidence) float64 {
	sum := 0.0
	reported := 0
	for _, item := range evidence {
		if item.Confidence > 0 {
			sum += item.Confidence
			reported++
		}
	}
	if reported == 0 {
		return 1.0
	}
	return sum / float64(reported)
}

func recommendationFor(level MatchLevel, disqualified bool) Recommendation {
	if disqualified {
		if level == MatchPoor {
			return RecommendStrongNo
		}
		return RecommendNo
	}

	switch level {
	case MatchExcellent:
		return RecommendStrongYes
	case MatchGood:
		return RecommendYes
	case MatchModerate:
		return RecommendMaybe
	case MatchWeak:
		return RecommendNo
	default:
		return RecommendStrongNo
	}
}

func priorityFor(overall float64, passed bool) InterviewPriority {
	switch {
	case passed && overall >= highPriorityScore:
		return PriorityHigh
	case passed:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
