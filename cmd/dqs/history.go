package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Veraticus/dqscore/internal/analysis"
	"github.com/Veraticus/dqscore/internal/cli"
	"github.com/Veraticus/dqscore/internal/common"
	"github.com/Veraticus/dqscore/internal/model"
	"github.com/Veraticus/dqscore/internal/storage"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

const defaultHistoryLimit = 20

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse saved assessments",
		Long:  `List, show, and delete assessments saved with 'dqs assess --save'.`,
	}

	// Subcommands
	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyShowCmd())
	cmd.AddCommand(historyScoresCmd())
	cmd.AddCommand(historyDeleteCmd())

	return cmd
}

// withStorage opens the history database for the duration of fn.
func withStorage(ctx context.Context, fn func(*storage.SQLiteStorage) error) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	store, err := initStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			common.LogError(cerr, "Failed to close storage", common.Fields{"path": store.Path()})
		}
	}()
	return fn(store)
}

func historyListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved assessments, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStorage(cmd.Context(), func(store *storage.SQLiteStorage) error {
				return runHistoryList(cmd.Context(), store, limit, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", defaultHistoryLimit, "Maximum number of assessments to list")

	return cmd
}

func historyShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved assessment report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd.Context(), func(store *storage.SQLiteStorage) error {
				return runHistoryShow(cmd.Context(), store, args[0], jsonOutput, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")

	return cmd
}

func historyScoresCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "scores <transaction|kyc|merchant>",
		Short: "Show the score trend of one dataset kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseDatasetKind(args[0])
			if err != nil {
				return common.NewUserError("unknown dataset kind", err)
			}
			return withStorage(cmd.Context(), func(store *storage.SQLiteStorage) error {
				return runHistoryScores(cmd.Context(), store, kind, limit, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", defaultHistoryLimit, "Maximum number of score lines to show")

	return cmd
}

func historyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved assessment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd.Context(), func(store *storage.SQLiteStorage) error {
				if err := store.DeleteAssessment(cmd.Context(), args[0]); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted assessment %s", args[0])))
				return err
			})
		},
	}
}

func runHistoryList(ctx context.Context, store *storage.SQLiteStorage, limit int, out io.Writer) error {
	summaries, err := store.ListAssessments(ctx, limit)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		_, err := fmt.Fprintln(out, cli.FormatInfo("No saved assessments"))
		return err
	}

	headers := []string{"ID", "Generated"}
	for _, kind := range model.DatasetKinds() {
		headers = append(headers, kind.DisplayName())
	}
	t := newHistoryTable(headers...)
	for _, summary := range summaries {
		row := []string{summary.ID, summary.GeneratedAt.UTC().Format("2006-01-02 15:04:05")}
		for _, kind := range model.DatasetKinds() {
			composite, ok := summary.Composites[kind]
			if !ok {
				row = append(row, "-")
				continue
			}
			row = append(row, fmt.Sprintf("%.2f", composite))
		}
		t.Row(row...)
	}

	_, err = fmt.Fprintln(out, cli.FormatTitle("Saved assessments")+"\n"+t.String())
	return err
}

func runHistoryShow(ctx context.Context, store *storage.SQLiteStorage, id string, jsonOutput bool, out io.Writer) error {
	report, err := store.GetAssessment(ctx, id)
	if err != nil {
		return err
	}

	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}
	_, err = fmt.Fprintln(out, analysis.NewCLIFormatter().FormatReport(report))
	return err
}

func runHistoryScores(ctx context.Context, store *storage.SQLiteStorage, kind model.DatasetKind, limit int, out io.Writer) error {
	records, err := store.ListDatasetScores(ctx, kind, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		_, err := fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("No saved %s scores", kind.DisplayName())))
		return err
	}

	headers := []string{"Generated", "Name", "Rows", "Composite"}
	for _, d := range model.Dimensions() {
		headers = append(headers, d.String())
	}
	t := newHistoryTable(headers...)
	for _, record := range records {
		row := []string{
			record.GeneratedAt.UTC().Format("2006-01-02 15:04:05"),
			record.Name,
			fmt.Sprintf("%d", record.Rows),
			fmt.Sprintf("%.2f", record.Composite),
		}
		for _, d := range model.Dimensions() {
			row = append(row, record.Scores.Get(d).String())
		}
		t.Row(row...)
	}

	_, err = fmt.Fprintln(out, cli.FormatTitle(kind.DisplayName()+" score history")+"\n"+t.String())
	return err
}

func newHistoryTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(cli.SubtleColor)).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return cli.TableHeaderStyle
			}
			return cli.TableCellStyle
		})
}
