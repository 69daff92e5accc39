package evaluation

import (
	"fmt"
	"strings"
)

// DefaultThreshold is the overall pass threshold used when the caller
// does not supply one.
const DefaultThreshold = 60.0

// weightEpsilon is the tolerance for checking that normalized weights sum to 1.
const weightEpsilon = 1e-6

// CriterionConfig describes a single evaluation axis.
type CriterionConfig struct {
	Name        string  `json:"name" mapstructure:"name"`
	Weight      float64 `json:"weight" mapstructure:"weight"`
	Description string  `json:"description,omitempty" mapstructure:"description"`

	// Required marks the criterion as disqualifying in strict mode when it
	// scores below MinimumScore.
	Required     bool `json:"required,omitempty" mapstructure:"required"`
	MinimumScore int  `json:"minimum_score,omitempty" mapstructure:"minimum-score"`
}

// Config is the complete evaluation configuration for one scoring run: an
// ordered list of criteria with weights, the pass threshold, and the strict
// flag. Callers load it once and pass it by reference; nothing mutates it.
type Config struct {
	ID       string            `json:"id,omitempty" mapstructure:"id"`
	Name     string            `json:"name,omitempty" mapstructure:"name"`
	Division string            `json:"division,omitempty" mapstructure:"division"`
	Criteria []CriterionConfig `json:"criteria" mapstructure:"criteria"`

	Threshold float64 `json:"threshold,omitempty" mapstructure:"threshold"`
	Strict    bool    `json:"strict,omitempty" mapstructure:"strict"`
}

// Validate checks structural invariants that normalization cannot repair:
// at least one criterion, unique non-empty names, non-negative weights with a
// positive sum, and minimum scores within range.
func (c *Config) Validate() error {
	if len(c.Criteria) == 0 {
		return fmt.Errorf("evaluation config requires at least one criterion")
	}

	seen := make(map[string]struct{}, len(c.Criteria))
	sum := 0.0
	for _, criterion := range c.Criteria {
		name := strings.TrimSpace(criterion.Name)
		if name == "" {
			return fmt.Errorf("criterion name must not be empty")
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("duplicate criterion name %q", name)
		}
		seen[name] = struct{}{}

		if criterion.Weight < 0 {
			return &InvalidWeightError{Sum: criterion.Weight}
		}
		if criterion.MinimumScore < 0 || criterion.MinimumScore > 100 {
			return fmt.Errorf("criterion %q minimum score %d is outside [0,100]", name, criterion.MinimumScore)
		}
		sum += criterion.Weight
	}

	if sum <= 0 {
		return &InvalidWeightError{Sum: sum}
	}

	return nil
}

// normalizedWeights returns the effective weight per criterion, in config
// order. Weights are divided by their sum so hand-authored configs with
// floating point round-off (or deliberate over-unity sums) score identically
// to an exact config.
func (c *Config) normalizedWeights() ([]float64, error) {
	sum := 0.0
	for _, criterion := range c.Criteria {
		if criterion.Weight < 0 {
			return nil, &InvalidWeightError{Sum: criterion.Weight}
		}
		sum += criterion.Weight
	}
	if sum <= 0 {
		return nil, &InvalidWeightError{Sum: sum}
	}

	weights := make([]float64, len(c.Criteria))
	for i, criterion := range c.Criteria {
		weights[i] = criterion.Weight / sum
	}
	return weights, nil
}

// PassThreshold returns the configured threshold, falling back to
// DefaultThreshold when unset.
func (c *Config) PassThreshold() float64 {
	if c.Threshold <= 0 {
		return DefaultThreshold
	}
	return c.Threshold
}

// HighestWeighted returns the name of the criterion with the largest weight.
// Among equal weights the first one in config order wins, which keeps batch
// tie-breaking deterministic.
func (c *Config) HighestWeighted() string {
	best := ""
	bestWeight := -1.0
	for _, criterion := range c.Criteria {
		if criterion.Weight > bestWeight {
			best = criterion.Name
			bestWeight = criterion.Weight
		}
	}
	return best
}
