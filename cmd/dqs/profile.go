package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/Veraticus/dqscore/internal/analysis"
	"github.com/Veraticus/dqscore/internal/config"
	"github.com/Veraticus/dqscore/internal/loader"
	"github.com/Veraticus/dqscore/internal/profiling"
	"github.com/spf13/cobra"
)

func profileCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "profile <file.csv>...",
		Short: "Show per-column null and duplicate counts",
		Long: `Profile one or more CSV files: inferred column types, null counts and
percentages, distinct values and repeats. Profiling does not affect scores.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfile(args, jsonOutput, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the profiles as JSON")

	return cmd
}

type namedProfile struct {
	Name    string            `json:"name"`
	Summary profiling.Summary `json:"summary"`
}

func runProfile(paths []string, jsonOutput bool, out io.Writer) error {
	profiles := make([]namedProfile, 0, len(paths))
	for _, path := range paths {
		ds, err := loader.LoadFile(config.ExpandPath(path))
		if err != nil {
			return err
		}
		profiles = append(profiles, namedProfile{
			Name:    filepath.Base(path),
			Summary: profiling.Summarize(ds),
		})
	}

	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(profiles); err != nil {
			return fmt.Errorf("failed to encode profiles: %w", err)
		}
		return nil
	}

	formatter := analysis.NewCLIFormatter()
	for _, p := range profiles {
		if _, err := fmt.Fprintln(out, formatter.FormatProfile(p.Name, p.Summary)); err != nil {
			return fmt.Errorf("failed to write profile: %w", err)
		}
	}
	return nil
}
