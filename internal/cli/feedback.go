package cli

import (
	"context"
	"fmt"

	"talentrank/internal/common"
	"talentrank/internal/feedback"
	"talentrank/internal/types"

	"github.com/spf13/cobra"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Record and inspect interview feedback",
	Long: `Work with the interview feedback store: record the outcome of a
concluded interview or look up a candidate's full interview history.`,
}

var feedbackRecordCmd = &cobra.Command{
	Use:   "record [record-file]",
	Short: "Record the outcome of a concluded interview",
	Long: `Record one concluded interview in the feedback store. The input is a
JSON file with the candidate, the recommendation (strong_hire, hire, maybe
or no_hire) and a 0-100 score. A missing record ID is generated and a
missing interview date defaults to now.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if feedbackRecordConfig.OutputFormat == "" {
			feedbackRecordConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(feedbackRecordConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runFeedbackRecord,
}

var feedbackLookupCmd = &cobra.Command{
	Use:   "lookup [email-or-id]",
	Short: "Look up a candidate's interview history",
	Long: `Fetch a candidate's full interview history from the feedback store,
newest interview first, together with the score adjustment and red flag
derived from the latest recommendation. The argument is matched by email
when it contains an @, otherwise by candidate ID.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if feedbackLookupConfig.OutputFormat == "" {
			feedbackLookupConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(feedbackLookupConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runFeedbackLookup,
}

var (
	feedbackRecordConfig common.CommandConfig
	feedbackLookupConfig common.CommandConfig
)

func init() {
	feedbackRecordCmd.Flags().StringVarP(&feedbackRecordConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	feedbackRecordCmd.Flags().StringVar(&feedbackRecordConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	feedbackLookupCmd.Flags().StringVarP(&feedbackLookupConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	feedbackLookupCmd.Flags().StringVar(&feedbackLookupConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	feedbackCmd.AddCommand(feedbackRecordCmd)
	feedbackCmd.AddCommand(feedbackLookupCmd)
}

func runFeedbackRecord(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	client, err := feedback.NewClient(cfg.Feedback, logger)
	if err != nil {
		return fmt.Errorf("failed to create feedback client: %w", err)
	}

	createInput := func(contents []string) (types.FeedbackRecord, error) {
		if len(contents) != 1 {
			return types.FeedbackRecord{}, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return common.ParseFeedbackRecord(contents[0])
	}

	logDetails := func(record types.FeedbackRecord, cfg common.CommandConfig) {
		logger.Info("Recording interview feedback",
			"candidate_email", record.CandidateEmail,
			"recommendation", record.Recommendation,
			"output_format", cfg.OutputFormat)
	}

	recordOperation := func(ctx context.Context, record types.FeedbackRecord) (types.FeedbackRecord, error) {
		return client.Record(ctx, record)
	}

	feedbackRecordConfig.MaxFileSize = int64(cfg.App.MaxFileSize)
	err = common.RunFileCommand(
		cmd.Context(),
		logger,
		feedbackRecordConfig,
		args,
		createInput,
		recordOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}
	logger.Info("Feedback recorded successfully")
	return nil
}

func runFeedbackLookup(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	client, err := feedback.NewClient(cfg.Feedback, logger)
	if err != nil {
		return fmt.Errorf("failed to create feedback client: %w", err)
	}

	logger.Info("Looking up interview history",
		"candidate", args[0],
		"output_format", feedbackLookupConfig.OutputFormat)

	history, err := client.HistoryByID(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to look up interview history: %w", err)
	}

	outputHandler := common.NewOutputHandler(logger)
	if err := outputHandler.HandleOutput(history, feedbackLookupConfig); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
