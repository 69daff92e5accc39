// Package extract defines the boundary to upstream extraction providers that
// turn raw resume text into per-criterion sub-scores. Providers are external,
// retryable services; the scoring core never depends on this package and
// consumes only the resulting profile.
package extract

import (
	"context"

	"github.com/talentpipe/cv-ranker/internal/evaluation"
)

// Profile is the structured output of an extraction run: one sub-score in
// [0,100] per requested criterion, optional evidence, and the provider's own
// confidence in the extraction.
type Profile struct {
	Scores     map[string]int
	Evidence   map[string][]evaluation.MatchEvidence
	Confidence float64
}

// Provider extracts a profile from raw resume text for the given criterion
// names.
type Provider interface {
	Extract(ctx context.Context, criteria []string, resume string) (*Profile, error)
}
