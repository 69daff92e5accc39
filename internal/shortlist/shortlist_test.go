package shortlist

import (
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/talentpipe/cv-ranker/internal/evaluation"
)

func makeEvals() []*evaluation.CVJDEvaluation {
	return []*evaluation.CVJDEvaluation{
		{
			CandidateID:  "c1",
			OverallScore: 92,
			Passed:       true,
			CriterionEvaluations: []evaluation.CriterionEvaluation{
				{Name: "Skills", Score: 95},
			},
		},
		{
			CandidateID:  "c2",
			OverallScore: 80,
			Passed:       true,
			Disqualified: true,
			CriterionEvaluations: []evaluation.CriterionEvaluation{
				{Name: "Skills", Score: 85},
			},
		},
		{
			CandidateID:  "c3",
			OverallScore: 70,
			Passed:       true,
			CriterionEvaluations: []evaluation.CriterionEvaluation{
				{Name: "Skills", Score: 55},
			},
		},
		{
			CandidateID:  "c4",
			OverallScore: 40,
			Passed:       false,
			CriterionEvaluations: []evaluation.CriterionEvaluation{
				{Name: "Skills", Score: 40},
			},
		},
	}
}

func ids(evals []*evaluation.CVJDEvaluation) []string {
	out := make([]string, 0, len(evals))
	for _, eval := range evals {
		out = append(out, eval.CandidateID)
	}
	return out
}

func TestRunFilterChain(t *testing.T) {
	t.Parallel()

	steps := []Filter{
		NewDisqualified(),
		NewPassed(),
		NewMinCriterion("Skills", 60),
	}

	left, err := Run(zap.NewNop(), steps, makeEvals())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(ids(left), []string{"c1"}) {
		t.Fatalf("expected only c1 to survive, got %v", ids(left))
	}
}

func TestRunSkipsDisabledFilters(t *testing.T) {
	t.Parallel()

	steps := []Filter{
		NewMinCriterion("", 60), // disabled, no criterion configured
		NewTopN(0),              // disabled, no limit configured
	}

	evals := makeEvals()
	left, err := Run(zap.NewNop(), steps, evals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(left) != len(evals) {
		t.Fatalf("disabled filters must not drop anyone, got %d of %d", len(left), len(evals))
	}
}

func TestPassedFilter(t *testing.T) {
	t.Parallel()

	left, step, err := NewPassed().Apply(makeEvals())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(ids(left), []string{"c1", "c2", "c3"}) {
		t.Fatalf("unexpected survivors: %v", ids(left))
	}

	expected := Step{Initial: 4, Dropped: 1, Left: 3}
	if step != expected {
		t.Fatalf("unexpected step: %+v", step)
	}
}

func TestDisqualifiedFilter(t *testing.T) {
	t.Parallel()

	left, step, err := NewDisqualified().Apply(makeEvals())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(ids(left), []string{"c1", "c3", "c4"}) {
		t.Fatalf("unexpected survivors: %v", ids(left))
	}

	if step.Dropped != 1 {
		t.Fatalf("expected one dropped, got %d", step.Dropped)
	}
}

func TestMinCriterionFilter(t *testing.T) {
	t.Parallel()

	t.Run("keeps scores at or above minimum", func(t *testing.T) {
		t.Parallel()

		left, _, err := NewMinCriterion("Skills", 85).Apply(makeEvals())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(ids(left), []string{"c1", "c2"}) {
			t.Fatalf("unexpected survivors: %v", ids(left))
		}
	})

	t.Run("unknown criterion errors", func(t *testing.T) {
		t.Parallel()

		if _, _, err := NewMinCriterion("Languages", 50).Apply(makeEvals()); err == nil {
			t.Fatalf("expected error for criterion not present in the evaluation")
		}
	})

	t.Run("minimum out of range errors", func(t *testing.T) {
		t.Parallel()

		if _, _, err := NewMinCriterion("Skills", 101).Apply(makeEvals()); err == nil {
			t.Fatalf("expected error for minimum above 100")
		}
	})
}

func TestTopNFilter(t *testing.T) {
	t.Parallel()

	left, step, err := NewTopN(2).Apply(makeEvals())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(ids(left), []string{"c1", "c2"}) {
		t.Fatalf("expected the first two entries, got %v", ids(left))
	}
	if step.Dropped != 2 {
		t.Fatalf("expected two dropped, got %d", step.Dropped)
	}

	left, _, err = NewTopN(10).Apply(makeEvals())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(left) != 4 {
		t.Fatalf("limit above length must keep everyone, got %d", len(left))
	}
}
