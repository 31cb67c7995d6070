package ports

import (
	"context"
	"time"

	"factsift/internal/domain"
)

// CompletionClient sends a prompt to an LLM API and returns the raw reply.
type CompletionClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SearchProvider finds candidate article URLs for a topic.
type SearchProvider interface {
	Search(ctx context.Context, topic string, maxResults int) ([]string, error)
	ValidateURLs(urls []string) []string
}

// Scraper downloads pages and extracts readable article content.
type Scraper interface {
	Scrape(ctx context.Context, urls []string) ([]domain.Article, error)
}

// Summarizer condenses article content into a short factual summary.
type Summarizer interface {
	SummarizeAll(ctx context.Context, articles []domain.Article) ([]domain.Article, error)
}

// FactChecker verifies the claims found in article summaries.
type FactChecker interface {
	FactCheckAll(ctx context.Context, articles []domain.Article) ([]domain.Article, error)
}

// Classifier assigns a category and credibility assessment to every article.
// It is total over its input: each article yields exactly one record.
type Classifier interface {
	ClassifyAll(ctx context.Context, articles []domain.Article) []domain.AnalyzedArticle
}

// ClaimSearcher queries a fact-check registry for reviews of one claim.
// A nil review with a nil error means no published review exists.
type ClaimSearcher interface {
	SearchClaim(ctx context.Context, claim string) (*domain.ClaimReview, error)
}

// ArtifactStore persists analysis batches as timestamped JSON files.
type ArtifactStore interface {
	SaveAnalysis(batch []domain.AnalyzedArticle) (string, error)
	SaveFactChecks(batch []domain.Article) (string, error)
	LoadAnalysis(path string) ([]domain.AnalyzedArticle, error)
}

// ArticleStore persists analyzed articles and run sessions for history.
type ArticleStore interface {
	SaveArticle(ctx context.Context, article domain.AnalyzedArticle) error
	SaveBatch(ctx context.Context, batch []domain.AnalyzedArticle) int
	SaveSession(ctx context.Context, topic string, batch []domain.AnalyzedArticle) (int64, error)
	RecentArticles(ctx context.Context, limit int) ([]domain.StoredArticle, error)
	ArticlesByTopic(ctx context.Context, topic string) ([]domain.StoredArticle, error)
	RecentSessions(ctx context.Context, limit int) ([]domain.AnalysisSession, error)
	Stats(ctx context.Context) (domain.StoreStats, error)
	Close() error
}

// Notifier streams run digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Publisher mirrors analyzed articles to an external knowledge base.
type Publisher interface {
	Enabled() bool
	CreateRunDatabase(ctx context.Context, runName string) (string, error)
	PublishArticle(ctx context.Context, databaseID string, article domain.AnalyzedArticle) error
	DatabaseURL(databaseID string) string
}

// StatusReporter surfaces pipeline progress to the operator.
type StatusReporter interface {
	Info(msg string)
	Success(msg string)
	Warning(msg string)
	Error(msg string)
	Progress(stage string, current, total int, detail string)
}

// Pacer spaces successive calls to a rate-limited upstream.
type Pacer interface {
	Pause(ctx context.Context) error
}

// Scheduler controls when recurring analysis runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
