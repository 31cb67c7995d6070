package analysis

import (
	"testing"

	"factsift/internal/domain"
)

func TestBuildStatsEmpty(t *testing.T) {
	t.Parallel()

	if stats := BuildStats(nil); stats != nil {
		t.Fatalf("expected nil stats, got %+v", stats)
	}
	if stats := BuildStats([]domain.AnalyzedArticle{}); stats != nil {
		t.Fatalf("expected nil stats, got %+v", stats)
	}
}

func TestBuildStatsCounts(t *testing.T) {
	t.Parallel()

	batch := []domain.AnalyzedArticle{
		{
			Classification:    "Health",
			OverallFactStatus: domain.StatusFact,
			Confidence:        domain.ConfidenceHigh,
			Sentiment:         domain.SentimentPositive,
			CredibilityScore:  0.2,
		},
		{
			Classification:    "Health",
			OverallFactStatus: domain.StatusMyth,
			Confidence:        domain.ConfidenceLow,
			Sentiment:         domain.SentimentNegative,
			CredibilityScore:  0.8,
		},
		{
			Classification:    "Completely made up",
			OverallFactStatus: "Unknown",
			Confidence:        "",
			Sentiment:         "sarcastic",
			CredibilityScore:  0.5,
		},
	}

	stats := BuildStats(batch)
	if stats == nil {
		t.Fatal("expected stats")
	}

	if stats.TotalArticles != 3 {
		t.Fatalf("total: got %d", stats.TotalArticles)
	}
	if stats.ClassificationCounts["Health"] != 2 {
		t.Fatalf("health count: got %d", stats.ClassificationCounts["Health"])
	}
	if n, ok := stats.ClassificationCounts["Conspiracy theory"]; !ok || n != 0 {
		t.Fatalf("known categories should be zero-filled, got %v (%v)", n, ok)
	}
	if _, ok := stats.ClassificationCounts["Completely made up"]; ok {
		t.Fatal("unknown classifications should stay uncounted")
	}
	if stats.FactStatusCounts[domain.StatusFact] != 1 || stats.FactStatusCounts[domain.StatusMyth] != 1 {
		t.Fatalf("status counts: %+v", stats.FactStatusCounts)
	}
	if stats.FactStatusCounts[domain.StatusUnsure] != 0 {
		t.Fatalf("unsure should be zero, got %d", stats.FactStatusCounts[domain.StatusUnsure])
	}
	if stats.ConfidenceCounts[domain.ConfidenceHigh] != 1 {
		t.Fatalf("confidence counts: %+v", stats.ConfidenceCounts)
	}
	if stats.SentimentCounts[domain.SentimentPositive] != 1 || stats.SentimentCounts[domain.SentimentNegative] != 1 {
		t.Fatalf("sentiment counts: %+v", stats.SentimentCounts)
	}

	if stats.AverageCredibilityScore != 0.5 {
		t.Fatalf("average: got %v", stats.AverageCredibilityScore)
	}
}

func TestBuildStatsRoundsAverage(t *testing.T) {
	t.Parallel()

	batch := []domain.AnalyzedArticle{
		{CredibilityScore: 0},
		{CredibilityScore: 0},
		{CredibilityScore: 1},
	}

	stats := BuildStats(batch)
	if stats.AverageCredibilityScore != 0.333 {
		t.Fatalf("average should round to three decimals, got %v", stats.AverageCredibilityScore)
	}
}

func TestBuildStatsSuccessfulAnalyses(t *testing.T) {
	t.Parallel()

	batch := []domain.AnalyzedArticle{
		// Classified as Other by the model itself, still a success.
		{Classification: domain.CategoryOther, AnalysisNotes: "genuinely uncategorizable"},
		// The deterministic fallback record.
		{Classification: domain.CategoryOther, AnalysisNotes: domain.FallbackAnalysisNotes},
		// A failed run that still produced a category is counted.
		{Classification: "Health", AnalysisNotes: domain.FallbackAnalysisNotes},
	}

	stats := BuildStats(batch)
	if stats.SuccessfulAnalyses != 2 {
		t.Fatalf("successful: got %d", stats.SuccessfulAnalyses)
	}
}
