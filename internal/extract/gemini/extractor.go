package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/talentpipe/cv-ranker/internal/evaluation"
	"github.com/talentpipe/cv-ranker/internal/extract"
	"github.com/talentpipe/cv-ranker/internal/logger"
	"github.com/talentpipe/cv-ranker/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Extractor turns raw resume text into per-criterion sub-scores by prompting
// Gemini and parsing its JSON answer. Malformed answers and transport errors
// are retried with a fixed backoff.
type Extractor struct {
	generator  contentGenerator
	maxRetries int
	maxLogLen  int
	logger     *zap.Logger
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

// retryBackoff is the fixed pause between extraction attempts.
var retryBackoff = 2 * time.Second

func NewExtractor(generator contentGenerator, maxRetries, maxLogLength int, log *zap.Logger) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Extractor{
		generator:  generator,
		maxRetries: maxRetries,
		maxLogLen:  maxLogLength,
		logger:     log,
	}
}

// Extract prompts the model for a profile covering the given criteria.
func (e *Extractor) Extract(ctx context.Context, criteria []string, resume string) (*extract.Profile, error) {
	if len(criteria) == 0 {
		return nil, fmt.Errorf("at least one criterion is required")
	}
	if strings.TrimSpace(resume) == "" {
		return nil, fmt.Errorf("resume text is required")
	}

	prompt := buildPrompt(criteria, resume)

	e.logger.Debug("gemini extraction request",
		zap.Int("criteria", len(criteria)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, e.maxLogLen)),
	)

	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			if err := utils.WaitFor(ctx, retryBackoff); err != nil {
				return nil, err
			}
			e.logger.Debug("retrying gemini extraction", zap.Int("attempt", attempt))
		}

		raw, err := e.generator.GenerateContent(ctx, prompt)
		if err != nil {
			lastErr = err
			continue
		}

		e.logger.Debug("gemini extraction response",
			zap.Int("response_length", utf8.RuneCountInString(raw)),
			zap.String("response_preview", logger.TruncateForLog(raw, e.maxLogLen)),
		)

		profile, err := parseProfile(raw, criteria)
		if err != nil {
			lastErr = err
			continue
		}

		return profile, nil
	}

	return nil, fmt.Errorf("gemini extraction failed after %d attempt(s): %w", e.maxRetries+1, lastErr)
}

func buildPrompt(criteria []string, resume string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Criteria:\n{{CRITERIA}}\n\nResume:\n{{RESUME}}\n\nJSON Response:"
	}

	var list strings.Builder
	for _, name := range criteria {
		list.WriteString("- ")
		list.WriteString(name)
		list.WriteString("\n")
	}

	prompt := strings.ReplaceAll(template, "{{CRITERIA}}", strings.TrimSpace(list.String()))
	prompt = strings.ReplaceAll(prompt, "{{RESUME}}", strings.TrimSpace(resume))
	return prompt
}

func parseProfile(raw string, criteria []string) (*extract.Profile, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	rawScores, ok := data["scores"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("gemini response has no scores object")
	}

	scores := make(map[string]int, len(criteria))
	for _, name := range criteria {
		value, ok := rawScores[name]
		if !ok {
			return nil, fmt.Errorf("gemini response is missing criterion %q", name)
		}
		score := coerceFloat(value)
		if math.IsNaN(score) {
			return nil, fmt.Errorf("gemini response score for %q is not numeric", name)
		}
		scores[name] = clampScore(int(math.Round(score)))
	}

	confidence := coerceFloat(data["confidence"])
	if math.IsNaN(confidence) || confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	evidence, err := decodeEvidence(data["evidence"])
	if err != nil {
		return nil, err
	}

	return &extract.Profile{
		Scores:     scores,
		Evidence:   evidence,
		Confidence: confidence,
	}, nil
}

func decodeEvidence(raw any) (map[string][]evaluation.MatchEvidence, error) {
	if raw == nil {
		return nil, nil
	}

	var evidence map[string][]evaluation.MatchEvidence
	cfg := &mapstructure.DecoderConfig{
		Result:           &evidence,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode evidence: %w", err)
	}
	return evidence, nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}
