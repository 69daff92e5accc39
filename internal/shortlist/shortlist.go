package shortlist

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/talentpipe/cv-ranker/internal/evaluation"
)

// Filter represents a single shortlisting step applied to a ranked list of
// evaluations. Filters never reorder the list; they only drop entries.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Apply(evals []*evaluation.CVJDEvaluation) ([]*evaluation.CVJDEvaluation, Step, error)
}

// Step describes the result of executing a shortlisting step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Run executes the supplied filters sequentially and returns the remaining
// evaluations. Disabled filters are skipped and logged.
func Run(logger *zap.Logger, steps []Filter, evals []*evaluation.CVJDEvaluation) ([]*evaluation.CVJDEvaluation, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			logger.Info("shortlist filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(evals)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		logger.Info("shortlist filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		evals = next
	}

	return evals, nil
}
