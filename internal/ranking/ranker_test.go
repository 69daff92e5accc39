package ranking

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/talentpipe/cv-ranker/internal/evaluation"
)

func rankingConfig() *evaluation.Config {
	return &evaluation.Config{
		ID: "test",
		Criteria: []evaluation.CriterionConfig{
			{Name: "Skills", Weight: 0.5},
			{Name: "Experience", Weight: 0.3},
			{Name: "Education", Weight: 0.2},
		},
	}
}

func newCandidate(id string, skills, experience, education int) *evaluation.CandidateInput {
	return &evaluation.CandidateInput{
		ID:     id,
		Scores: map[string]int{"Skills": skills, "Experience": experience, "Education": education},
	}
}

func rankedIDs(result *BatchEvaluationResult) []string {
	ids := make([]string, 0, len(result.Evaluations))
	for _, eval := range result.Evaluations {
		ids = append(ids, eval.CandidateID)
	}
	return ids
}

func TestRankTieBreaking(t *testing.T) {
	t.Parallel()

	// c2 and c3 both score 78.0 overall and 90 on the highest-weighted
	// criterion, so the candidate id decides. c3 is listed before c2 to
	// prove input order does not matter.
	candidates := []*evaluation.CandidateInput{
		newCandidate("c3", 90, 70, 60),
		newCandidate("c1", 90, 90, 90),
		newCandidate("c2", 90, 70, 60),
	}

	ranker := NewRanker(2, zap.NewNop())
	result, err := ranker.Rank(context.Background(), candidates, nil, rankingConfig(), 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(rankedIDs(result), []string{"c1", "c2", "c3"}) {
		t.Fatalf("unexpected ranking order: %v", rankedIDs(result))
	}
}

func TestRankSecondaryCriterionTieBreaking(t *testing.T) {
	t.Parallel()

	// Both score 75.0 overall, but "b" scores higher on Skills, the
	// highest-weighted criterion.
	candidates := []*evaluation.CandidateInput{
		newCandidate("a", 70, 80, 80), // 35 + 24 + 16 = 75
		newCandidate("b", 80, 70, 70), // 40 + 21 + 14 = 75
	}

	ranker := NewRanker(2, zap.NewNop())
	result, err := ranker.Rank(context.Background(), candidates, nil, rankingConfig(), 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(rankedIDs(result), []string{"b", "a"}) {
		t.Fatalf("unexpected ranking order: %v", rankedIDs(result))
	}
}

func TestRankOrderIndependentOfInput(t *testing.T) {
	t.Parallel()

	candidates := []*evaluation.CandidateInput{
		newCandidate("alpha", 40, 90, 10),
		newCandidate("bravo", 95, 60, 70),
		newCandidate("charlie", 70, 70, 70),
		newCandidate("delta", 95, 60, 70),
	}

	permutations := [][]int{
		{0, 1, 2, 3},
		{3, 2, 1, 0},
		{2, 0, 3, 1},
	}

	ranker := NewRanker(4, zap.NewNop())

	var first []string
	for _, perm := range permutations {
		input := make([]*evaluation.CandidateInput, len(perm))
		for i, idx := range perm {
			input[i] = candidates[idx]
		}

		result, err := ranker.Rank(context.Background(), input, nil, rankingConfig(), 60)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		ids := rankedIDs(result)
		if first == nil {
			first = ids
			continue
		}
		if !reflect.DeepEqual(first, ids) {
			t.Fatalf("order changed with input permutation: %v vs %v", first, ids)
		}
	}
}

func TestRankPartialFailureIsolation(t *testing.T) {
	t.Parallel()

	candidates := []*evaluation.CandidateInput{
		newCandidate("ok1", 90, 80, 70),
		newCandidate("bad", 150, 80, 70),
		newCandidate("ok2", 60, 60, 60),
	}

	ranker := NewRanker(2, zap.NewNop())
	result, err := ranker.Rank(context.Background(), candidates, nil, rankingConfig(), 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Evaluations) != 2 {
		t.Fatalf("expected 2 evaluations, got %d", len(result.Evaluations))
	}

	if len(result.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(result.Failures))
	}

	failure := result.Failures[0]
	if failure.CandidateID != "bad" {
		t.Fatalf("expected failure for candidate bad, got %s", failure.CandidateID)
	}

	var outOfRange *evaluation.OutOfRangeError
	if !errors.As(failure.Err, &outOfRange) {
		t.Fatalf("expected OutOfRangeError, got %v", failure.Err)
	}

	for _, eval := range result.Evaluations {
		if eval.CandidateID == "bad" {
			t.Fatalf("failed candidate must not appear in the ranked list")
		}
	}
}

func TestRankMissingCriterionGoesToFailures(t *testing.T) {
	t.Parallel()

	noEducation := &evaluation.CandidateInput{
		ID:     "partial",
		Scores: map[string]int{"Skills": 90, "Experience": 70},
	}
	candidates := []*evaluation.CandidateInput{
		newCandidate("complete", 80, 80, 80),
		noEducation,
	}

	ranker := NewRanker(0, zap.NewNop())
	result, err := ranker.Rank(context.Background(), candidates, nil, rankingConfig(), 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Failures) != 1 || result.Failures[0].CandidateID != "partial" {
		t.Fatalf("expected a single failure for candidate partial, got %+v", result.Failures)
	}

	var missing *evaluation.MissingCriterionError
	if !errors.As(result.Failures[0].Err, &missing) {
		t.Fatalf("expected MissingCriterionError, got %v", result.Failures[0].Err)
	}
}

func TestRankInvalidConfigAbortsBatch(t *testing.T) {
	t.Parallel()

	cfg := &evaluation.Config{Criteria: []evaluation.CriterionConfig{
		{Name: "Skills", Weight: 0},
	}}

	ranker := NewRanker(1, zap.NewNop())
	_, err := ranker.Rank(context.Background(), []*evaluation.CandidateInput{newCandidate("c1", 50, 50, 50)}, nil, cfg, 60)

	var invalid *evaluation.InvalidWeightError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidWeightError, got %v", err)
	}
}

func TestRankCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	candidates := make([]*evaluation.CandidateInput, 100)
	for i := range candidates {
		candidates[i] = newCandidate(string(rune('a'+i%26))+"x", 50, 50, 50)
	}

	ranker := NewRanker(1, zap.NewNop())
	_, err := ranker.Rank(ctx, candidates, nil, rankingConfig(), 60)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRankCarriesJobID(t *testing.T) {
	t.Parallel()

	requirements := &evaluation.RequirementSet{JobID: "job-7", Title: "Backend Engineer"}

	ranker := NewRanker(1, zap.NewNop())
	result, err := ranker.Rank(context.Background(), []*evaluation.CandidateInput{newCandidate("c1", 80, 80, 80)}, requirements, rankingConfig(), 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.JobID != "job-7" {
		t.Fatalf("expected job id job-7, got %s", result.JobID)
	}
	if result.Evaluations[0].JobID != "job-7" {
		t.Fatalf("expected evaluation job id job-7, got %s", result.Evaluations[0].JobID)
	}
}
