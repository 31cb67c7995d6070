package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"factsift/internal/domain"
	"factsift/internal/usecase"
)

func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	return cmd, buf
}

func TestPrintReport(t *testing.T) {
	t.Parallel()

	cmd, buf := newTestCommand()

	printReport(cmd, &usecase.AnalysisReport{
		Topic:        "glyphosate",
		Articles:     make([]domain.AnalyzedArticle, 3),
		SavedCount:   2,
		KnowledgeURL: "https://www.notion.so/abc123",
	})

	out := buf.String()
	if !strings.Contains(out, "Topic: glyphosate") {
		t.Fatalf("missing topic line:\n%s", out)
	}
	if !strings.Contains(out, "Articles analyzed: 3") {
		t.Fatalf("missing article count:\n%s", out)
	}
	if !strings.Contains(out, "Saved to database: 2") {
		t.Fatalf("missing saved count:\n%s", out)
	}
	if !strings.Contains(out, "Knowledge base: https://www.notion.so/abc123") {
		t.Fatalf("missing knowledge base line:\n%s", out)
	}
}

func TestPrintReportOmitsEmptySections(t *testing.T) {
	t.Parallel()

	cmd, buf := newTestCommand()

	printReport(cmd, &usecase.AnalysisReport{Topic: "anything"})

	out := buf.String()
	if strings.Contains(out, "Saved to database") {
		t.Fatalf("zero saves should not print:\n%s", out)
	}
	if strings.Contains(out, "Knowledge base") {
		t.Fatalf("an empty knowledge URL should not print:\n%s", out)
	}
}

func TestPrintStats(t *testing.T) {
	t.Parallel()

	cmd, buf := newTestCommand()

	printStats(cmd, &domain.Stats{
		TotalArticles: 3,
		ClassificationCounts: map[string]int{
			"Health":        2,
			"Environmental": 1,
			"Other":         0,
		},
		FactStatusCounts: map[domain.FactStatus]int{
			domain.StatusFact: 2,
			domain.StatusMyth: 1,
		},
		AverageCredibilityScore: 0.512,
		SuccessfulAnalyses:      2,
	})

	out := buf.String()
	if !strings.Contains(out, "CLASSIFICATION") {
		t.Fatalf("missing table header:\n%s", out)
	}
	if !strings.Contains(out, "Health") || !strings.Contains(out, "Environmental") {
		t.Fatalf("missing classification rows:\n%s", out)
	}
	if strings.Contains(out, "Other") {
		t.Fatalf("zero-count rows should be skipped:\n%s", out)
	}
	if strings.Index(out, "Health") > strings.Index(out, "Environmental") {
		t.Fatalf("rows should follow the category order:\n%s", out)
	}
	if !strings.Contains(out, "Verdicts: 2 fact / 1 myth / 0 unsure") {
		t.Fatalf("missing verdict line:\n%s", out)
	}
	if !strings.Contains(out, "Average credibility: 0.512") {
		t.Fatalf("missing credibility line:\n%s", out)
	}
	if !strings.Contains(out, "Successful analyses: 2 of 3") {
		t.Fatalf("missing success line:\n%s", out)
	}
}

func TestPrintStatsNil(t *testing.T) {
	t.Parallel()

	cmd, buf := newTestCommand()

	printStats(cmd, nil)

	if buf.Len() != 0 {
		t.Fatalf("nil stats should print nothing, got %q", buf.String())
	}
}
