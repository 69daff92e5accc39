package shortlist

import (
	"fmt"
	"strings"

	"github.com/talentpipe/cv-ranker/internal/evaluation"
)

type passedFilter struct{}

// NewPassed creates a filter that keeps only candidates whose overall score
// met the pass threshold.
func NewPassed() Filter {
	return &passedFilter{}
}

func (f *passedFilter) Name() string { return "passed" }

func (f *passedFilter) Disable(string) {}

func (f *passedFilter) IsEnabled() bool { return true }

func (f *passedFilter) Apply(evals []*evaluation.CVJDEvaluation) ([]*evaluation.CVJDEvaluation, Step, error) {
	initial := len(evals)
	kept := make([]*evaluation.CVJDEvaluation, 0, initial)
	for _, eval := range evals {
		if eval.Passed {
			kept = append(kept, eval)
		}
	}
	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

type disqualifiedFilter struct{}

// NewDisqualified creates a filter that removes candidates disqualified by a
// required criterion.
func NewDisqualified() Filter {
	return &disqualifiedFilter{}
}

func (f *disqualifiedFilter) Name() string { return "disqualified" }

func (f *disqualifiedFilter) Disable(string) {}

func (f *disqualifiedFilter) IsEnabled() bool { return true }

func (f *disqualifiedFilter) Apply(evals []*evaluation.CVJDEvaluation) ([]*evaluation.CVJDEvaluation, Step, error) {
	initial := len(evals)
	kept := make([]*evaluation.CVJDEvaluation, 0, initial)
	for _, eval := range evals {
		if !eval.Disqualified {
			kept = append(kept, eval)
		}
	}
	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

type minCriterionFilter struct {
	disabled  bool
	reason    string
	criterion string
	minimum   int
}

// NewMinCriterion creates a filter that removes candidates scoring below the
// minimum on the named criterion. An empty criterion name disables the
// filter.
func NewMinCriterion(criterion string, minimum int) Filter {
	f := &minCriterionFilter{criterion: strings.TrimSpace(criterion), minimum: minimum}
	if f.criterion == "" {
		f.Disable("no criterion configured")
	}
	return f
}

func (f *minCriterionFilter) Name() string { return "min_criterion" }

func (f *minCriterionFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *minCriterionFilter) IsEnabled() bool { return !f.disabled }

func (f *minCriterionFilter) Apply(evals []*evaluation.CVJDEvaluation) ([]*evaluation.CVJDEvaluation, Step, error) {
	initial := len(evals)
	if f.minimum < 0 || f.minimum > 100 {
		return nil, Step{}, fmt.Errorf("minimum %d is outside [0,100]", f.minimum)
	}

	kept := make([]*evaluation.CVJDEvaluation, 0, initial)
	for _, eval := range evals {
		score := eval.CriterionScore(f.criterion)
		if score < 0 {
			return nil, Step{}, fmt.Errorf("criterion %q is not part of the evaluation", f.criterion)
		}
		if score >= f.minimum {
			kept = append(kept, eval)
		}
	}
	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

type topNFilter struct {
	disabled bool
	reason   string
	n        int
}

// NewTopN creates a filter that keeps the first n entries of the ranked list.
// A non-positive n disables the filter.
func NewTopN(n int) Filter {
	f := &topNFilter{n: n}
	if n <= 0 {
		f.Disable("no limit configured")
	}
	return f
}

func (f *topNFilter) Name() string { return "top_n" }

func (f *topNFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *topNFilter) IsEnabled() bool { return !f.disabled }

func (f *topNFilter) Apply(evals []*evaluation.CVJDEvaluation) ([]*evaluation.CVJDEvaluation, Step, error) {
	initial := len(evals)
	if f.n >= initial {
		return evals, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}
	kept := evals[:f.n]
	return kept, Step{Initial: initial, Dropped: initial - f.n, Left: f.n}, nil
}
