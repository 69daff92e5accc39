package evaluation

import "fmt"

// MissingCriterionError reports a criterion required by the evaluation config
// for which the candidate supplied no sub-score.
type MissingCriterionError struct {
	CandidateID string
	Criterion   string
}

func (e *MissingCriterionError) Error() string {
	return fmt.Sprintf("candidate %q has no sub-score for criterion %q", e.CandidateID, e.Criterion)
}

// InvalidWeightError reports a weight set that cannot be normalized because
// the weights sum to zero or a negative value.
type InvalidWeightError struct {
	Sum float64
}

func (e *InvalidWeightError) Error() string {
	return fmt.Sprintf("criterion weights sum to %g, normalization is impossible", e.Sum)
}

// OutOfRangeError reports a raw sub-score outside [0,100].
type OutOfRangeError struct {
	CandidateID string
	Criterion   string
	Score       int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("candidate %q sub-score %d for criterion %q is outside [0,100]", e.CandidateID, e.Score, e.Criterion)
}
