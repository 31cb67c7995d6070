package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"factsift/internal/analysis"
	"factsift/internal/domain"
	"factsift/internal/ports"
)

// digestArticleLimit caps how many articles the chat digest lists.
const digestArticleLimit = 5

// WorkflowDeps wires everything a full topic run needs.
type WorkflowDeps struct {
	Search     ports.SearchProvider
	Scraper    ports.Scraper
	Pipeline   *Pipeline
	Store      ports.ArticleStore
	Publisher  ports.Publisher
	Notifier   ports.Notifier
	Reporter   ports.StatusReporter
	Logger     *slog.Logger
	MaxResults int
}

// AnalysisReport is the outcome of one topic run.
type AnalysisReport struct {
	Topic        string
	Articles     []domain.AnalyzedArticle
	Stats        *domain.Stats
	SavedCount   int
	SessionID    int64
	KnowledgeURL string
}

// Workflow drives a topic end to end: search, scrape, analyze, then
// fan the results out to storage and the optional channels.
type Workflow struct {
	reporting
	search     ports.SearchProvider
	scraper    ports.Scraper
	pipeline   *Pipeline
	store      ports.ArticleStore
	publisher  ports.Publisher
	notifier   ports.Notifier
	logger     *slog.Logger
	maxResults int
}

// NewWorkflow assembles the topic workflow from its dependencies.
func NewWorkflow(deps WorkflowDeps) *Workflow {
	return &Workflow{
		reporting:  reporting{reporter: deps.Reporter},
		search:     deps.Search,
		scraper:    deps.Scraper,
		pipeline:   deps.Pipeline,
		store:      deps.Store,
		publisher:  deps.Publisher,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
		maxResults: deps.MaxResults,
	}
}

// RunTopic analyzes one topic. Search, scraping and analysis failures
// abort the run; persistence and fan-out failures only warn, so a
// finished analysis is never lost to a flaky side channel.
func (w *Workflow) RunTopic(ctx context.Context, topic string, maxResults int) (*AnalysisReport, error) {
	w.info(fmt.Sprintf("starting analysis for topic: %q", topic))

	if maxResults <= 0 {
		maxResults = w.maxResults
	}

	urls, err := w.search.Search(ctx, topic, maxResults)
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	if len(urls) == 0 {
		w.error("no URLs found, try a different topic")
		return nil, errors.New("no urls found for topic")
	}

	validURLs := w.search.ValidateURLs(urls)
	if len(validURLs) == 0 {
		w.error("no valid URLs found after validation")
		return nil, errors.New("no valid urls after validation")
	}

	articles, err := w.scraper.Scrape(ctx, validURLs)
	if err != nil {
		return nil, fmt.Errorf("scrape articles: %w", err)
	}
	if len(articles) == 0 {
		w.error("no articles could be scraped successfully")
		return nil, errors.New("no articles scraped")
	}

	analyzed, err := w.pipeline.Run(ctx, articles)
	if err != nil {
		return nil, fmt.Errorf("analyze articles: %w", err)
	}
	if len(analyzed) == 0 {
		w.error("no articles could be analyzed successfully")
		return nil, errors.New("no articles analyzed")
	}

	report := &AnalysisReport{
		Topic:    topic,
		Articles: analyzed,
		Stats:    analysis.BuildStats(analyzed),
	}

	w.persist(ctx, report)
	w.publish(ctx, report)
	w.notify(ctx, report)

	w.success(fmt.Sprintf("analysis complete: processed %d articles", len(analyzed)))
	return report, nil
}

func (w *Workflow) persist(ctx context.Context, report *AnalysisReport) {
	if w.store == nil {
		return
	}

	report.SavedCount = w.store.SaveBatch(ctx, report.Articles)

	id, err := w.store.SaveSession(ctx, report.Topic, report.Articles)
	if err != nil {
		w.warning(fmt.Sprintf("could not record analysis session: %v", err))
		return
	}
	report.SessionID = id
	w.info(fmt.Sprintf("saved %d of %d articles (session %d)", report.SavedCount, len(report.Articles), id))
}

func (w *Workflow) publish(ctx context.Context, report *AnalysisReport) {
	if w.publisher == nil || !w.publisher.Enabled() {
		return
	}

	databaseID, err := w.publisher.CreateRunDatabase(ctx, report.Topic)
	if err != nil {
		w.warning(fmt.Sprintf("could not create knowledge base: %v", err))
		return
	}

	published := 0
	for _, article := range report.Articles {
		if err := w.publisher.PublishArticle(ctx, databaseID, article); err != nil {
			w.warning(fmt.Sprintf("could not publish %s: %v", article.URL, err))
			continue
		}
		published++
	}

	report.KnowledgeURL = w.publisher.DatabaseURL(databaseID)
	w.info(fmt.Sprintf("published %d of %d articles to %s", published, len(report.Articles), report.KnowledgeURL))
}

func (w *Workflow) notify(ctx context.Context, report *AnalysisReport) {
	if w.notifier == nil {
		return
	}
	if err := w.notifier.PublishDigest(ctx, buildDigestMessage(report)); err != nil {
		w.warning(fmt.Sprintf("could not send digest: %v", err))
		if w.logger != nil {
			w.logger.Warn("digest delivery failed", "err", err)
		}
	}
}

func buildDigestMessage(report *AnalysisReport) string {
	var formatted string
	formatted += fmt.Sprintf("Analysis finished for topic: %s\n", report.Topic)

	if stats := report.Stats; stats != nil {
		formatted += fmt.Sprintf("Articles: %d (successful analyses: %d)\n",
			stats.TotalArticles, stats.SuccessfulAnalyses)
		formatted += fmt.Sprintf("Verdicts: %d fact / %d myth / %d unsure\n",
			stats.FactStatusCounts[domain.StatusFact],
			stats.FactStatusCounts[domain.StatusMyth],
			stats.FactStatusCounts[domain.StatusUnsure])
		formatted += fmt.Sprintf("Average credibility: %.3f\n", stats.AverageCredibilityScore)
	}

	formatted += "\n"
	for i, article := range report.Articles {
		if i == digestArticleLimit {
			formatted += fmt.Sprintf("... and %d more\n", len(report.Articles)-digestArticleLimit)
			break
		}
		formatted += fmt.Sprintf("- %s [%s / %s]\n%s\n",
			article.Title, article.Classification, article.OverallFactStatus, article.URL)
	}

	return strings.TrimRight(formatted, "\n")
}
