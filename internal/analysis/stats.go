package analysis

import (
	"math"

	"factsift/internal/domain"
)

// BuildStats aggregates a batch of analyzed articles into summary
// statistics. It returns nil for an empty batch so callers can tell
// "nothing analyzed" apart from an all-zero tally.
func BuildStats(articles []domain.AnalyzedArticle) *domain.Stats {
	if len(articles) == 0 {
		return nil
	}

	stats := &domain.Stats{
		TotalArticles:        len(articles),
		ClassificationCounts: make(map[string]int, len(domain.Categories)),
		FactStatusCounts: map[domain.FactStatus]int{
			domain.StatusFact:   0,
			domain.StatusMyth:   0,
			domain.StatusUnsure: 0,
		},
		ConfidenceCounts: map[domain.Confidence]int{
			domain.ConfidenceHigh:   0,
			domain.ConfidenceMedium: 0,
			domain.ConfidenceLow:    0,
		},
		SentimentCounts: map[domain.Sentiment]int{
			domain.SentimentPositive: 0,
			domain.SentimentNegative: 0,
			domain.SentimentNeutral:  0,
			domain.SentimentMixed:    0,
		},
	}
	for _, category := range domain.Categories {
		stats.ClassificationCounts[category] = 0
	}

	var credibilitySum float64
	for _, article := range articles {
		// Only the known keys are tallied; values outside the fixed
		// vocabulary fall through uncounted.
		if _, ok := stats.ClassificationCounts[article.Classification]; ok {
			stats.ClassificationCounts[article.Classification]++
		}
		if _, ok := stats.FactStatusCounts[article.OverallFactStatus]; ok {
			stats.FactStatusCounts[article.OverallFactStatus]++
		}
		if _, ok := stats.ConfidenceCounts[article.Confidence]; ok {
			stats.ConfidenceCounts[article.Confidence]++
		}
		if _, ok := stats.SentimentCounts[article.Sentiment]; ok {
			stats.SentimentCounts[article.Sentiment]++
		}

		credibilitySum += article.CredibilityScore

		if article.Classification != domain.CategoryOther || article.AnalysisNotes != domain.FallbackAnalysisNotes {
			stats.SuccessfulAnalyses++
		}
	}

	average := credibilitySum / float64(len(articles))
	stats.AverageCredibilityScore = math.Round(average*1000) / 1000

	return stats
}
