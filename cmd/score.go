package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/talentpipe/cv-ranker/internal/candidate"
	"github.com/talentpipe/cv-ranker/internal/evaluation"
	"github.com/talentpipe/cv-ranker/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var scoreCmd = &cobra.Command{
	Use:   "score [candidate-id]",
	Short: "Score a single candidate from the candidates file and print the full evaluation",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		score(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("candidates-file", "c", "", "json file with the job and its candidates")
	scoreCmd.Flags().String("division", "", "division preset to score with (see the divisions command)")
}

func score(cmd *cobra.Command, candidateID string) {
	ctx := context.Background()

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

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.CandidatesFile == "" {
		logger.Fatal("a candidates file is required under candidates-file")
	}

	candidates, err := candidate.FromFile(config.CandidatesFile)
	if err != nil {
		logger.Fatal("loading candidates", zap.Error(err))
	}

	selected := candidates.FindByID(candidateID)
	if selected == nil {
		logger.Fatal("candidate with given id not found",
			zap.Strings("existing candidate ids", candidates.IDs()),
			zap.String("candidate id", candidateID),
		)
	}

	evalConfig := resolveEvaluationConfig(config, candidates, logger)
	if err := evalConfig.Validate(); err != nil {
		logger.Fatal("validating evaluation config", zap.Error(err))
	}

	threshold := config.Threshold
	if threshold <= 0 {
		threshold = evalConfig.PassThreshold()
	}

	if err := extractPending(ctx, config, &candidate.Candidates{Items: []*evaluation.CandidateInput{selected}}, evalConfig, logger); err != nil {
		logger.Fatal("extracting candidate profile", zap.Error(err))
	}

	result, err := evaluation.Score(selected, candidates.Job, evalConfig, threshold)
	if err != nil {
		logger.Fatal("scoring failed", zap.Error(err))
	}

	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Fatal("rendering evaluation", zap.Error(err))
	}

	fmt.Println(string(pretty))
}
