package evaluation

// MatchEvidence is a single piece of support for a criterion score: a span
// from the CV, a span from the job description, and a rationale. Evidence is
// descriptive only; the scorer carries it through untouched and never feeds
// it back into the arithmetic.
type MatchEvidence struct {
	CVSpan string `json:"cv_span,omitempty" mapstructure:"cv_span"`
	JDSpan string `json:"jd_span,omitempty" mapstructure:"jd_span"`
	Reason string `json:"reason,omitempty" mapstructure:"reason"`

	// Impact is in [-1,1]; negative values mark penalizing evidence.
	Impact float64 `json:"impact,omitempty" mapstructure:"impact"`
	// Confidence is in [0,1]. Zero means the upstream extractor did not
	// report one.
	Confidence float64 `json:"confidence,omitempty" mapstructure:"confidence"`
}
