package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"factsift/internal/domain"
	"factsift/internal/usecase"
)

var analyzeMaxResults int

var analyzeCmd = &cobra.Command{
	Use:   "analyze [topic]",
	Short: "Run the full search, fact-check and classification workflow for a topic",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVarP(&analyzeMaxResults, "max-results", "n", 0,
		"maximum number of search results (0 uses the configured default)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	application, err := buildApp()
	if err != nil {
		return err
	}
	defer application.Close()

	topic := strings.Join(args, " ")

	report, err := application.AnalyzeTopic(cmd.Context(), topic, analyzeMaxResults)
	if err != nil {
		return err
	}

	printReport(cmd, report)

	return nil
}

func printReport(cmd *cobra.Command, report *usecase.AnalysisReport) {
	cmd.Println()
	cmd.Printf("Topic: %s\n", report.Topic)
	cmd.Printf("Articles analyzed: %d\n", len(report.Articles))
	if report.SavedCount > 0 {
		cmd.Printf("Saved to database: %d\n", report.SavedCount)
	}
	if report.KnowledgeURL != "" {
		cmd.Printf("Knowledge base: %s\n", report.KnowledgeURL)
	}

	printStats(cmd, report.Stats)
}

func printStats(cmd *cobra.Command, stats *domain.Stats) {
	if stats == nil {
		return
	}

	cmd.Println()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CLASSIFICATION\tCOUNT")
	for _, category := range domain.Categories {
		if n := stats.ClassificationCounts[category]; n > 0 {
			fmt.Fprintf(w, "%s\t%d\n", category, n)
		}
	}
	_ = w.Flush()

	cmd.Println()
	cmd.Printf("Verdicts: %d fact / %d myth / %d unsure\n",
		stats.FactStatusCounts[domain.StatusFact],
		stats.FactStatusCounts[domain.StatusMyth],
		stats.FactStatusCounts[domain.StatusUnsure])
	cmd.Printf("Average credibility: %.3f\n", stats.AverageCredibilityScore)
	cmd.Printf("Successful analyses: %d of %d\n", stats.SuccessfulAnalyses, stats.TotalArticles)
}
