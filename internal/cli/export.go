package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"factsift/internal/domain"
)

var (
	exportFormat string
	exportOut    string
	exportLimit  int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored articles to a JSON or CSV file",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "export format: json or csv")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default article_analysis_<timestamp>.<format>)")
	exportCmd.Flags().IntVarP(&exportLimit, "limit", "n", 0, "maximum rows to export (0 uses the default)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(exportFormat)
	if format != "json" && format != "csv" {
		return fmt.Errorf("unknown export format %q", exportFormat)
	}

	application, err := buildApp()
	if err != nil {
		return err
	}
	defer application.Close()

	articles, err := application.Store().RecentArticles(cmd.Context(), exportLimit)
	if err != nil {
		return fmt.Errorf("load articles: %w", err)
	}
	if len(articles) == 0 {
		cmd.Println("No stored articles to export.")
		return nil
	}

	path := exportOut
	if path == "" {
		path = fmt.Sprintf("article_analysis_%s.%s", time.Now().Format("20060102_150405"), format)
	}

	if format == "json" {
		err = exportJSON(path, articles)
	} else {
		err = exportCSV(path, articles)
	}
	if err != nil {
		return err
	}

	cmd.Printf("Exported %d articles to %s\n", len(articles), path)

	return nil
}

func exportJSON(path string, articles []domain.StoredArticle) error {
	payload, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal articles: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}

func exportCSV(path string, articles []domain.StoredArticle) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	w := csv.NewWriter(f)
	header := []string{"url", "title", "summary", "classification", "fact_myth_status", "created_at"}
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return fmt.Errorf("write header: %w", err)
	}

	for _, a := range articles {
		record := []string{a.URL, a.Title, a.Summary, a.Classification, a.FactMythStatus, a.CreatedAt.Format(time.RFC3339)}
		if err := w.Write(record); err != nil {
			_ = f.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush csv: %w", err)
	}

	return f.Close()
}
