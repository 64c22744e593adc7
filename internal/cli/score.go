package cli

import (
	"context"
	"fmt"

	"talentrank/internal/common"
	"talentrank/internal/match"
	"talentrank/internal/types"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [profile-file] [candidate-file]",
	Short: "Score a single candidate against a requirement profile",
	Long: `Score one candidate against a requirement profile and print the full
match breakdown: skills, experience, location and title sub-scores plus the
weighted overall score.

Both inputs are JSON files. The profile names the required skills (in
priority order), the minimum years of experience, the target title and the
preferred location.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if scoreConfig.OutputFormat == "" {
			scoreConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(scoreConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runScore,
}

var scoreConfig common.CommandConfig

func init() {
	scoreCmd.Flags().StringVarP(&scoreConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	scoreCmd.Flags().StringVar(&scoreConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = scoreCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

type scoreInput struct {
	Profile   types.RequirementProfile
	Candidate types.CandidateRecord
}

func runScore(cmd *cobra.Command, args []string) error {
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

	createInput := func(contents []string) (scoreInput, error) {
		if len(contents) != 2 {
			return scoreInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		profile, err := common.ParseProfile(contents[0])
		if err != nil {
			return scoreInput{}, err
		}
		candidate, err := common.ParseCandidate(contents[1])
		if err != nil {
			return scoreInput{}, err
		}
		return scoreInput{Profile: profile, Candidate: candidate}, nil
	}

	logDetails := func(input scoreInput, cfg common.CommandConfig) {
		logger.Info("Scoring candidate",
			"candidate_id", input.Candidate.ID,
			"required_skills", len(input.Profile.Skills),
			"output_format", cfg.OutputFormat)
	}

	scoreOperation := func(ctx context.Context, input scoreInput) (types.MatchBreakdown, error) {
		return engine.Score(input.Profile, input.Candidate)
	}

	scoreConfig.MaxFileSize = int64(cfg.App.MaxFileSize)
	err = common.RunFileCommand(
		cmd.Context(),
		logger,
		scoreConfig,
		args,
		createInput,
		scoreOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to score candidate: %w", err)
	}
	logger.Info("Candidate scored successfully")
	return nil
}
