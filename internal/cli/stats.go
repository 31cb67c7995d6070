package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"factsift/internal/analysis"
	"factsift/internal/infrastructure/artifact"
)

var statsCmd = &cobra.Command{
	Use:   "stats [analysis-file]",
	Short: "Show aggregate statistics for the database or a saved analysis file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return artifactStats(cmd, args[0])
	}
	return databaseStats(cmd)
}

func artifactStats(cmd *cobra.Command, path string) error {
	batch, err := artifact.LoadAnalysis(path)
	if err != nil {
		return err
	}

	stats := analysis.BuildStats(batch)
	if stats == nil {
		cmd.Println("The analysis file holds no articles.")
		return nil
	}

	cmd.Printf("Articles: %d\n", stats.TotalArticles)
	printStats(cmd, stats)

	return nil
}

func databaseStats(cmd *cobra.Command) error {
	application, err := buildApp()
	if err != nil {
		return err
	}
	defer application.Close()

	stats, err := application.Store().Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}

	cmd.Printf("Articles stored: %d\n", stats.TotalArticles)
	cmd.Printf("Analysis sessions: %d\n", stats.TotalSessions)

	printCountTable(cmd, "CLASSIFICATION", stats.ClassificationCounts)
	printCountTable(cmd, "VERDICT", stats.StatusCounts)

	return nil
}

func printCountTable(cmd *cobra.Command, label string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}

	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	cmd.Println()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tCOUNT\n", label)
	for _, key := range keys {
		fmt.Fprintf(w, "%s\t%d\n", key, counts[key])
	}
	_ = w.Flush()
}
