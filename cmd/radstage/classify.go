package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Veraticus/radstage/internal/cli"
	"github.com/Veraticus/radstage/internal/common"
	"github.com/Veraticus/radstage/internal/config"
	"github.com/Veraticus/radstage/internal/dataset"
	"github.com/Veraticus/radstage/internal/engine"
	"github.com/Veraticus/radstage/internal/llm"
	"github.com/Veraticus/radstage/internal/notify"
	"github.com/Veraticus/radstage/internal/prompt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <experiment>",
		Short: "Classify every unclassified report in the validation queue",
		Long: `Classify every report under <dataset>/val that has no saved result in the
experiment directory yet. Reports already classified are skipped, so an
interrupted run picks up where it stopped.

Examples:
  radstage classify baseline
  radstage classify gpt4o --model gpt-4o --pacing 5s
  radstage classify quick --shots 3 --pacing 0`,
		Args: cobra.ExactArgs(1),
		RunE: runClassify,
	}

	cmd.Flags().String("model", llm.DefaultModel.String(), "generative model identifier (see 'radstage models')")
	cmd.Flags().Duration("pacing", engine.DefaultPacing, "pause between backend calls (0 disables)")
	cmd.Flags().String("dataset", defaultDatasetDir, "dataset directory containing train/ and val/")
	cmd.Flags().String("template", "", "prompt template file (default: built-in template)")
	cmd.Flags().Int("shots", 0, "number of training examples in the prompt (0 = all)")

	_ = viper.BindPFlag("classify.model", cmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("classify.pacing", cmd.Flags().Lookup("pacing"))
	_ = viper.BindPFlag("classify.dataset", cmd.Flags().Lookup("dataset"))
	_ = viper.BindPFlag("classify.template", cmd.Flags().Lookup("template"))
	_ = viper.BindPFlag("classify.shots", cmd.Flags().Lookup("shots"))

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	experiment := args[0]

	generativeModel, err := llm.ParseGenerativeModel(viper.GetString("classify.model"))
	if err != nil {
		return common.NewUserError("unknown model; run 'radstage models' for the supported list", err)
	}

	shots := viper.GetInt("classify.shots")
	if shots < 0 {
		return common.NewUserError("--shots must not be negative", nil)
	}

	template, err := prompt.LoadTemplate(viper.GetString("classify.template"))
	if err != nil {
		return err
	}

	data, err := dataset.New(config.ExpandPath(viper.GetString("classify.dataset")))
	if err != nil {
		return common.NewUserError("dataset directory must contain train/ and val/ (see --dataset)", err)
	}

	examples, err := data.Examples(shots)
	if err != nil {
		return fmt.Errorf("failed to load training examples: %w", err)
	}

	records, err := data.Queue()
	if err != nil {
		return fmt.Errorf("failed to load validation queue: %w", err)
	}

	repo, err := openRepository(experiment)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	ledger, err := openLedger(ctx, repo)
	if err != nil {
		return err
	}
	defer closeLedger(ledger)

	llmConfig, err := config.LoadLLMConfig(viper.GetViper())
	if err != nil {
		return err
	}

	completer, err := llm.NewCompleter(llmConfig, generativeModel, slog.Default())
	if err != nil {
		return err
	}

	engineConfig := engine.DefaultConfig()
	engineConfig.Model = generativeModel.String()
	engineConfig.Template = template
	engineConfig.FewShots = prompt.BuildFewShotBlock(examples)
	engineConfig.Pacing = viper.GetDuration("classify.pacing")
	engineConfig.Progress = os.Stderr

	orchestrator, err := engine.New(completer, repo, ledger, engineConfig, slog.Default())
	if err != nil {
		return err
	}

	interrupts := cli.NewInterruptHandler(os.Stderr)
	ctx = interrupts.HandleInterrupts(ctx, "radstage classify "+experiment)

	slog.Info("Classifying reports",
		"experiment", experiment,
		"model", generativeModel,
		"examples", len(examples),
		"queue", len(records),
		"output", repo.Dir())

	summary, err := orchestrator.Run(ctx, records)
	if summary != nil {
		fmt.Fprintln(cmd.OutOrStdout(), cli.RenderRunSummary(summary))
		notifyRun(cmd.Context(), experiment, generativeModel.String(), summary)
	}
	if err != nil {
		if interrupts.WasInterrupted() || errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	if n := summary.NonTerminal + summary.DecodeFailed; n > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning(fmt.Sprintf(
			"%d record(s) were not persisted. Inspect with: radstage attempts %s", n, experiment)))
	}
	return nil
}

// notifyRun posts the summary when a Slack webhook is configured. Failures
// only warn.
func notifyRun(ctx context.Context, experiment, model string, summary *engine.RunSummary) {
	webhookURL := config.SlackWebhookURL(viper.GetViper())
	if webhookURL == "" {
		return
	}
	notifier := notify.NewSlackNotifier(webhookURL, slog.Default())
	if err := notifier.NotifyRun(context.WithoutCancel(ctx), experiment, model, summary); err != nil {
		slog.Warn("Failed to send run notification", "error", err)
	}
}
