package ranking

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/talentpipe/cv-ranker/internal/evaluation"
)

// Failure records one candidate that could not be scored.
type Failure struct {
	CandidateID string
	Err         error
}

// BatchEvaluationResult is the ranked output over multiple candidates for one
// requirement set. Evaluations are ordered by the total ordering described on
// Ranker.Rank; Failures are ordered by candidate ID.
type BatchEvaluationResult struct {
	JobID       string
	Evaluations []*evaluation.CVJDEvaluation
	Failures    []Failure
}

// Ranker scores batches of candidates concurrently. Scoring is pure and
// CPU-only, so candidates fan out across a fixed pool of workers with no
// shared mutable state; results are gathered and sorted once all workers
// finish.
type Ranker struct {
	concurrency int
	logger      *zap.Logger
}

// NewRanker creates a Ranker with the given worker count. A non-positive
// count falls back to the number of CPUs.
func NewRanker(concurrency int, logger *zap.Logger) *Ranker {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{concurrency: concurrency, logger: logger}
}

type job struct {
	index     int
	candidate *evaluation.CandidateInput
}

type outcome struct {
	eval *evaluation.CVJDEvaluation
	err  error
}

// Rank scores every candidate against the requirement set and returns them in
// a deterministic total order: overall score descending, then the score of
// the highest-weighted criterion descending, then candidate ID ascending.
// The ordering is independent of the input order.
//
// A candidate that fails to score is recorded in Failures and never aborts
// the batch. An invalid config aborts the whole batch, since no candidate
// could score under it. Cancelling the context abandons the batch before
// gathering.
func (r *Ranker) Rank(ctx context.Context, candidates []*evaluation.CandidateInput, requirements *evaluation.RequirementSet, cfg *evaluation.Config, threshold float64) (*BatchEvaluationResult, error) {
	if cfg == nil {
		return nil, errors.New("evaluation config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	jobs := make(chan job)
	outcomes := make([]outcome, len(candidates))

	var wg sync.WaitGroup
	for i := 0; i < r.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				eval, err := evaluation.Score(j.candidate, requirements, cfg, threshold)
				outcomes[j.index] = outcome{eval: eval, err: err}
			}
		}()
	}

	cancelled := false
feed:
	for i, candidate := range candidates {
		select {
		case jobs <- job{index: i, candidate: candidate}:
		case <-ctx.Done():
			cancelled = true
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled {
		return nil, ctx.Err()
	}

	result := &BatchEvaluationResult{}
	if requirements != nil {
		result.JobID = requirements.JobID
	}

	for i, out := range outcomes {
		if out.err != nil {
			result.Failures = append(result.Failures, Failure{
				CandidateID: candidates[i].ID,
				Err:         out.err,
			})
			continue
		}
		result.Evaluations = append(result.Evaluations, out.eval)
	}

	sortEvaluations(result.Evaluations, cfg.HighestWeighted())
	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].CandidateID < result.Failures[j].CandidateID
	})

	r.logger.Info("batch ranking completed",
		zap.Int("candidates", len(candidates)),
		zap.Int("ranked", len(result.Evaluations)),
		zap.Int("failed", len(result.Failures)),
	)

	return result, nil
}

// sortEvaluations applies the total ordering. keyCriterion is the name of the
// highest-weighted criterion; its per-candidate score is the secondary key.
func sortEvaluations(evals []*evaluation.CVJDEvaluation, keyCriterion string) {
	sort.Slice(evals, func(i, j int) bool {
		a, b := evals[i], evals[j]
		if a.OverallScore != b.OverallScore {
			return a.OverallScore > b.OverallScore
		}
		as, bs := a.CriterionScore(keyCriterion), b.CriterionScore(keyCriterion)
		if as != bs {
			return as > bs
		}
		return a.CandidateID < b.CandidateID
	})
}
