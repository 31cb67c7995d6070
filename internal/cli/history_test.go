package cli

import (
	"strings"
	"testing"
	"time"

	"factsift/internal/domain"
)

func TestPrintStoredArticles(t *testing.T) {
	t.Parallel()

	cmd, buf := newTestCommand()

	printStoredArticles(cmd, []domain.StoredArticle{
		{
			URL:            "https://news.example/one",
			Title:          "Crop Study",
			Classification: "Health",
			FactMythStatus: "Fact",
			CreatedAt:      time.Date(2026, time.August, 1, 12, 30, 0, 0, time.UTC),
		},
		{
			URL:            "https://news.example/two",
			Classification: "Other",
			FactMythStatus: "Unsure",
		},
	})

	out := buf.String()
	if !strings.Contains(out, "Crop Study [Health / Fact]") {
		t.Fatalf("missing article line:\n%s", out)
	}
	if !strings.Contains(out, "  https://news.example/one") {
		t.Fatalf("missing url line:\n%s", out)
	}
	if !strings.Contains(out, "  stored 2026-08-01 12:30") {
		t.Fatalf("missing stored line:\n%s", out)
	}
	if !strings.Contains(out, "Untitled [Other / Unsure]") {
		t.Fatalf("an empty title should fall back to Untitled:\n%s", out)
	}
	if strings.Count(out, "stored ") != 1 {
		t.Fatalf("a zero timestamp should not print a stored line:\n%s", out)
	}
}

func TestPrintStoredArticlesEmpty(t *testing.T) {
	t.Parallel()

	cmd, buf := newTestCommand()

	printStoredArticles(cmd, nil)

	if got := strings.TrimSpace(buf.String()); got != "No stored articles yet." {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestPrintSessions(t *testing.T) {
	t.Parallel()

	cmd, buf := newTestCommand()

	printSessions(cmd, []domain.AnalysisSession{
		{
			ID:            4,
			Topic:         "seed patents",
			ArticlesFound: 6,
			FactsCount:    3,
			MythsCount:    2,
			UnclearCount:  1,
			CreatedAt:     time.Date(2026, time.August, 1, 12, 30, 0, 0, time.UTC),
		},
	})

	out := buf.String()
	if !strings.Contains(out, "ID") || !strings.Contains(out, "TOPIC") || !strings.Contains(out, "UNCLEAR") {
		t.Fatalf("missing table header:\n%s", out)
	}
	if !strings.Contains(out, "seed patents") {
		t.Fatalf("missing session row:\n%s", out)
	}
	if !strings.Contains(out, "2026-08-01 12:30") {
		t.Fatalf("missing session date:\n%s", out)
	}
}

func TestPrintSessionsEmpty(t *testing.T) {
	t.Parallel()

	cmd, buf := newTestCommand()

	printSessions(cmd, nil)

	if got := strings.TrimSpace(buf.String()); got != "No analysis sessions yet." {
		t.Fatalf("unexpected output: %q", got)
	}
}
