package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/talentpipe/cv-ranker/internal/candidate"
	"github.com/talentpipe/cv-ranker/internal/division"
	"github.com/talentpipe/cv-ranker/internal/evaluation"
	"github.com/talentpipe/cv-ranker/internal/extract"
	"github.com/talentpipe/cv-ranker/internal/extract/gemini"
	"github.com/talentpipe/cv-ranker/internal/logger"
	"github.com/talentpipe/cv-ranker/internal/ranking"
	"github.com/talentpipe/cv-ranker/internal/secrets"
	"github.com/talentpipe/cv-ranker/internal/shortlist"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptExit          = "Exit"
	PromptShowRanking   = "Show full ranking"
	PromptShowShortlist = "Show shortlist"
	PromptRankingToFile = "Dump ranking to file"
	PromptExcludeGaps   = "Exclude candidates with gaps"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowShortlist, PromptShowRanking, PromptRankingToFile, PromptExcludeGaps, PromptExit},
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Score every candidate in the candidates file and print the ranked shortlist",
	Run: func(cmd *cobra.Command, _ []string) {
		rank(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().BoolP("non-interactive", "y", false, "print the shortlist and exit without prompting")
	rankCmd.Flags().StringP("candidates-file", "c", "", "json file with the job and its candidates")
	rankCmd.Flags().String("division", "", "division preset to score with (see the divisions command)")
}

// rank is the main command for the cli.
func rank(cmd *cobra.Command) {
	ctx := context.Background()

	// Both rank and score expose these flags; bind at run time so the
	// invoked command wins.
	viper.BindPFlag("candidates-file", cmd.Flags().Lookup("candidates-file"))
	viper.BindPFlag("division", cmd.Flags().Lookup("division"))

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the cv-ranker", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.CandidatesFile == "" {
		logger.Fatal("a candidates file is required under candidates-file to score anyone")
	}

	candidates, err := candidate.FromFile(config.CandidatesFile)
	if err != nil {
		logger.Fatal("loading candidates", zap.Error(err))
	}

	logger.Info("loading candidates", zap.Int("count", candidates.Len()))

	if candidates.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates in file"))
		return
	}

	evalConfig := resolveEvaluationConfig(config, candidates, logger)
	if err := evalConfig.Validate(); err != nil {
		logger.Fatal("validating evaluation config", zap.Error(err))
	}

	threshold := config.Threshold
	if threshold <= 0 {
		threshold = evalConfig.PassThreshold()
	}

	logger.Info("scoring setup",
		zap.String("config", evalConfig.ID),
		zap.Float64("threshold", threshold),
		zap.Bool("strict", evalConfig.Strict),
	)

	if err := extractPending(ctx, config, candidates, evalConfig, logger); err != nil {
		logger.Fatal("extracting candidate profiles", zap.Error(err))
	}

	ranker := ranking.NewRanker(config.Concurrency, logger)

	result, err := ranker.Rank(ctx, candidates.Items, candidates.Job, evalConfig, threshold)
	if err != nil {
		logger.Fatal("ranking failed", zap.Error(err))
	}

	for _, failure := range result.Failures {
		logger.Warn("candidate could not be scored",
			zap.String("candidate_id", failure.CandidateID),
			zap.Error(failure.Err),
		)
	}

	if len(result.Evaluations) == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates could be scored"))
		return
	}

	shortlisted, err := shortlist.Run(logger, prepareShortlist(config), result.Evaluations)
	if err != nil {
		logger.Fatal("shortlisting failed", zap.Error(err))
	}

	action := PromptShowShortlist
	for {
		var err error
		if cmd.Flag("non-interactive").Value.String() == "false" {
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		logger.Info("current shortlist", zap.Int("count", len(shortlisted)))

		if err := handleAction(action, logger, result, shortlisted, candidates); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}

		if cmd.Flag("non-interactive").Value.String() == "true" {
			return
		}
	}
}

func handleAction(action string, logger *zap.Logger, result *ranking.BatchEvaluationResult, shortlisted []*evaluation.CVJDEvaluation, candidates *candidate.Candidates) error {
	switch action {
	case PromptShowShortlist:
		printEvaluations(shortlisted)
		return nil
	case PromptShowRanking:
		printEvaluations(result.Evaluations)
		return nil
	case PromptRankingToFile:
		filename, err := ranking.DumpToTmpFile(result)
		if err != nil {
			return fmt.Errorf("dump ranking to file: %w", err)
		}
		logger.Info("dumping ranking to file", zap.String("filename", filename))
		return nil
	case PromptExcludeGaps:
		withGaps := make([]string, 0)
		for _, eval := range result.Evaluations {
			if len(eval.Gaps) > 0 {
				withGaps = append(withGaps, eval.CandidateID)
			}
		}
		removed := candidates.Exclude(withGaps)
		logger.Info("excluded candidates with gaps", zap.Strings("candidate_ids", removed))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func printEvaluations(evals []*evaluation.CVJDEvaluation) {
	for i, eval := range evals {
		fmt.Printf("%d. %s: %s [%s, %s priority]\n",
			i+1, eval.CandidateID, eval.MatchSummary, eval.Recommendation, eval.InterviewPriority)
	}
}

// resolveEvaluationConfig picks the scoring config: an explicit one from the
// config file wins, otherwise the division preset named on the command line
// or in the candidates document.
func resolveEvaluationConfig(config *Config, candidates *candidate.Candidates, logger *zap.Logger) *evaluation.Config {
	if config.Evaluation != nil && len(config.Evaluation.Criteria) > 0 {
		return config.Evaluation
	}

	name := config.Division
	if name == "" && candidates.Job != nil {
		name = candidates.Job.Division
	}

	preset, known := division.Lookup(name)
	if name != "" && !known {
		logger.Warn("unknown division, using the default preset",
			zap.String("division", name),
			zap.Strings("known divisions", division.Names()),
		)
	}

	return preset.Config()
}

func prepareShortlist(config *Config) []shortlist.Filter {
	steps := []shortlist.Filter{
		shortlist.NewDisqualified(),
		shortlist.NewPassed(),
	}

	if config.Shortlist == nil {
		return steps
	}

	return append(steps,
		shortlist.NewMinCriterion(config.Shortlist.MinCriterion, config.Shortlist.MinScore),
		shortlist.NewTopN(config.Shortlist.Top),
	)
}

// extractPending scores raw resumes through the extraction provider for
// candidates that came without sub-scores.
func extractPending(ctx context.Context, config *Config, candidates *candidate.Candidates, evalConfig *evaluation.Config, log *zap.Logger) error {
	pending := candidates.NeedingExtraction()
	if len(pending) == 0 {
		return nil
	}

	if config.Extract == nil || !config.Extract.Enabled {
		ids := make([]string, 0, len(pending))
		for _, item := range pending {
			ids = append(ids, item.ID)
		}
		log.Warn("candidates carry raw resumes but extraction is disabled, they will fail scoring",
			zap.Strings("candidate_ids", ids),
		)
		return nil
	}

	provider, err := newExtractProvider(ctx, config.Extract, log)
	if err != nil {
		return fmt.Errorf("building extraction provider: %w", err)
	}

	criteria := make([]string, 0, len(evalConfig.Criteria))
	for _, criterion := range evalConfig.Criteria {
		criteria = append(criteria, criterion.Name)
	}

	for _, item := range pending {
		profile, err := provider.Extract(ctx, criteria, item.Resume)
		if err != nil {
			return fmt.Errorf("candidate %s: %w", item.ID, err)
		}

		item.Scores = profile.Scores
		item.Evidence = profile.Evidence
		item.Confidence = profile.Confidence

		log.Info("extracted candidate profile",
			zap.String("candidate_id", item.ID),
			zap.Float64("confidence", profile.Confidence),
		)
	}

	return nil
}

func newExtractProvider(ctx context.Context, cfg *ExtractConfig, log *zap.Logger) (extract.Provider, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported extraction provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when extraction is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set extract.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	extractorLogger := logger.WithFields(log, logger.ProviderFields("gemini", generator.Model())...)

	return gemini.NewExtractor(generator, cfg.Gemini.MaxRetries, cfg.Gemini.MaxLogLength, extractorLogger), nil
}
