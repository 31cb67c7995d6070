package domain

import "time"

// StoredArticle is an analyzed article persisted for history and export.
type StoredArticle struct {
	URL            string    `json:"url"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary"`
	Classification string    `json:"classification"`
	FactMythStatus string    `json:"fact_myth_status"`
	CreatedAt      time.Time `json:"created_at"`
}

// AnalysisSession records one topic run and its verdict tallies.
type AnalysisSession struct {
	ID            int64
	Topic         string
	ArticlesFound int
	FactsCount    int
	MythsCount    int
	UnclearCount  int
	CreatedAt     time.Time
}

// StoreStats summarizes everything persisted so far.
type StoreStats struct {
	TotalArticles        int
	TotalSessions        int
	ClassificationCounts map[string]int
	StatusCounts         map[string]int
}
