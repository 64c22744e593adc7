package cli

import (
	"context"
	"fmt"

	"talentrank/internal/common"
	"talentrank/internal/feedback"
	"talentrank/internal/match"
	"talentrank/internal/ranking"
	"talentrank/internal/types"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rankCmd = &cobra.Command{
	Use:   "rank [profile-file] [candidates-file]",
	Short: "Rank a batch of candidates against a requirement profile",
	Long: `Rank a batch of candidates against a requirement profile, best match
first. With --with-feedback each candidate's past interview history is
fetched from the feedback store and folded into the final ordering: a
strong_hire on the latest interview lifts the score, a no_hire lowers it
and flags the candidate.

Both inputs are JSON files. The candidates file is either a bare array of
candidate records or an object with a "candidates" field.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if rankConfig.OutputFormat == "" {
			rankConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(rankConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runRank,
}

var (
	rankConfig       common.CommandConfig
	rankWithFeedback bool
)

func init() {
	rankCmd.Flags().StringVarP(&rankConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	rankCmd.Flags().StringVar(&rankConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	rankCmd.Flags().BoolVar(&rankWithFeedback, "with-feedback", false, "Enrich the ranking with interview feedback from the feedback store")
	rankCmd.Flags().Int("workers", 0, "Parallel feedback lookups per batch (default from config)")
	rankCmd.Flags().Duration("timeout", 0, "Deadline for the whole ranking request (default from config)")

	// Bind flags to viper config keys
	bindFlag := func(key, flagName string) {
		if err := viper.BindPFlag(key, rankCmd.Flags().Lookup(flagName)); err != nil {
			panic(err)
		}
	}

	bindFlag("ranking.maxConcurrency", "workers")
	bindFlag("ranking.timeout", "timeout")

	_ = rankCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

type rankInput struct {
	Profile    types.RequirementProfile
	Candidates []types.CandidateRecord
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	tables, err := cfg.LoadTables(logger)
	if err != nil {
		return fmt.Errorf("failed to load scoring tables: %w", err)
	}
	engine, err := match.NewEngine(tables)
	if err != nil {
		return fmt.Errorf("failed to create match engine: %w", err)
	}

	var provider ranking.HistoryProvider
	if rankWithFeedback {
		client, err := feedback.NewClient(cfg.Feedback, logger)
		if err != nil {
			return fmt.Errorf("failed to create feedback client: %w", err)
		}
		provider = client
	}

	service, err := ranking.NewService(engine, provider, cfg.Ranking, logger)
	if err != nil {
		return fmt.Errorf("failed to create ranking service: %w", err)
	}

	createInput := func(contents []string) (rankInput, error) {
		if len(contents) != 2 {
			return rankInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		profile, err := common.ParseProfile(contents[0])
		if err != nil {
			return rankInput{}, err
		}
		candidates, err := common.ParseCandidates(contents[1])
		if err != nil {
			return rankInput{}, err
		}
		return rankInput{Profile: profile, Candidates: candidates}, nil
	}

	logDetails := func(input rankInput, cfg common.CommandConfig) {
		logger.Info("Ranking candidates",
			"candidates", len(input.Candidates),
			"required_skills", len(input.Profile.Skills),
			"with_feedback", rankWithFeedback,
			"output_format", cfg.OutputFormat)
	}

	rankOperation := func(ctx context.Context, input rankInput) ([]types.RankedResult, error) {
		return service.Rank(ctx, input.Profile, input.Candidates, rankWithFeedback)
	}

	rankConfig.MaxFileSize = int64(cfg.App.MaxFileSize)
	err = common.RunFileCommand(
		cmd.Context(),
		logger,
		rankConfig,
		args,
		createInput,
		rankOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to rank candidates: %w", err)
	}
	logger.Info("Candidates ranked successfully")
	return nil
}
