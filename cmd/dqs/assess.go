package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/dqscore/internal/analysis"
	"github.com/Veraticus/dqscore/internal/cli"
	"github.com/Veraticus/dqscore/internal/common"
	"github.com/Veraticus/dqscore/internal/config"
	"github.com/Veraticus/dqscore/internal/engine"
	"github.com/Veraticus/dqscore/internal/metrics"
	"github.com/Veraticus/dqscore/internal/model"
	"github.com/spf13/cobra"
)

type assessOptions struct {
	transactions string
	kyc          string
	merchants    string
	metricsFile  string
	jsonOutput   bool
	save         bool
	quiet        bool
}

func assessCmd() *cobra.Command {
	var opts assessOptions

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Score datasets on the seven quality dimensions",
		Long: `Load one or more CSV datasets, score each on Completeness, Validity,
Uniqueness, Integrity, Consistency, Timeliness and Accuracy, and report the
weighted composite score together with the issues found.

Transaction integrity is checked against the customer IDs of the KYC file and
the merchant IDs of the merchant file, when those are supplied.

Examples:
  # Score all three datasets
  dqs assess --transactions txns.csv --kyc kyc.csv --merchants merchants.csv

  # Emit the report as JSON and keep it in the history database
  dqs assess --transactions txns.csv --json --save

  # Write Prometheus metrics for a node exporter textfile collector
  dqs assess --transactions txns.csv --metrics-file /var/lib/node_exporter/dqs.prom`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := currentConfig()
			if err != nil {
				return err
			}
			return runAssess(cmd.Context(), cfg, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&opts.transactions, "transactions", "t", "", "Transactions CSV file")
	cmd.Flags().StringVarP(&opts.kyc, "kyc", "k", "", "KYC (customer) CSV file")
	cmd.Flags().StringVarP(&opts.merchants, "merchants", "m", "", "Merchants CSV file")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&opts.save, "save", false, "Save the report to the history database")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Hide the progress bar")

	return cmd
}

func runAssess(ctx context.Context, cfg *config.Config, opts assessOptions, out, errOut io.Writer) error {
	inputs, err := loadInputs(opts)
	if err != nil {
		return err
	}
	total := countInputs(inputs)
	if total == 0 {
		return common.NewUserError("at least one of --transactions, --kyc or --merchants is required", common.ErrNoDatasets)
	}

	var progress *cli.Progress
	if !opts.quiet && !opts.jsonOutput {
		progress = cli.NewProgress(total, errOut, "Scoring datasets")
	}

	assessor, err := newAssessor(cfg, engine.WithScoredHook(func(model.DatasetKind) {
		progress.Step()
	}))
	if err != nil {
		return err
	}

	report, err := assessor.Assess(ctx, inputs)
	if err != nil {
		return fmt.Errorf("assessment failed: %w", err)
	}
	progress.Finish()

	if opts.save {
		if err := saveReport(ctx, cfg, report); err != nil {
			return err
		}
	}

	if opts.metricsFile != "" {
		if err := metrics.WriteTextfile(opts.metricsFile); err != nil {
			return err
		}
		slog.Debug("Wrote metrics", "path", opts.metricsFile)
	}

	if opts.jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return nil
	}

	if _, err := fmt.Fprintln(out, analysis.NewCLIFormatter().FormatReport(report)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if opts.save {
		if _, err := fmt.Fprintln(out, cli.RenderBox(cli.FolderIcon+" Saved assessment", report.ID)); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}

func loadInputs(opts assessOptions) (engine.Inputs, error) {
	var (
		inputs engine.Inputs
		err    error
	)
	if inputs.Transactions, err = loadNamed(opts.transactions); err != nil {
		return inputs, err
	}
	if inputs.KYC, err = loadNamed(opts.kyc); err != nil {
		return inputs, err
	}
	if inputs.Merchants, err = loadNamed(opts.merchants); err != nil {
		return inputs, err
	}
	return inputs, nil
}

func countInputs(in engine.Inputs) int {
	n := 0
	for _, ds := range []*engine.NamedDataset{in.Transactions, in.KYC, in.Merchants} {
		if ds != nil {
			n++
		}
	}
	return n
}

func saveReport(ctx context.Context, cfg *config.Config, report *analysis.Report) error {
	store, err := initStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			common.LogError(cerr, "Failed to close storage", common.Fields{"path": store.Path()})
		}
	}()

	if err := store.SaveAssessment(ctx, report); err != nil {
		return fmt.Errorf("failed to save assessment: %w", err)
	}
	slog.Info("Saved assessment", "id", report.ID, "path", store.Path())
	return nil
}
