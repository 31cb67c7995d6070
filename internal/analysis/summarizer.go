package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"factsift/internal/domain"
	"factsift/internal/ports"
)

// Summarizer condenses scraped article content into short factual
// summaries the later stages can fact-check and classify.
type Summarizer struct {
	reporting
	completion ports.CompletionClient
	pacer      ports.Pacer
	logger     *slog.Logger
}

var _ ports.Summarizer = (*Summarizer)(nil)

// NewSummarizer wires the summarization stage.
func NewSummarizer(completion ports.CompletionClient, pacer ports.Pacer, reporter ports.StatusReporter, logger *slog.Logger) *Summarizer {
	return &Summarizer{
		reporting:  reporting{reporter: reporter},
		completion: completion,
		pacer:      pacer,
		logger:     logger,
	}
}

// SummarizeAll summarizes articles in input order. Articles the model
// cannot summarize carry a fixed failure text instead of a summary so
// the batch keeps its length.
func (s *Summarizer) SummarizeAll(ctx context.Context, articles []domain.Article) ([]domain.Article, error) {
	if s.completion == nil {
		return nil, errors.New("completion client is not configured")
	}

	summarized := make([]domain.Article, 0, len(articles))
	for i, article := range articles {
		if i > 0 && s.pacer != nil {
			_ = s.pacer.Pause(ctx)
		}
		s.progress("summarize", i+1, len(articles), article.URL)

		next := article
		if next.Title == "" {
			next.Title = domain.DefaultTitle
		}

		reply, err := s.completion.Generate(ctx, summaryPrompt(article))
		summary := strings.TrimSpace(reply)
		if err != nil || summary == "" {
			s.warning(fmt.Sprintf("summarization failed for %s", article.URL))
			if s.logger != nil {
				s.logger.Warn("summarization failed", "url", article.URL, "err", err)
			}
			summary = domain.FallbackSummaryText
		}
		next.Summary = summary
		summarized = append(summarized, next)
	}

	s.success(fmt.Sprintf("summarization complete: %d articles", len(summarized)))
	return summarized, nil
}

func summaryPrompt(article domain.Article) string {
	title := article.Title
	if title == "" {
		title = domain.DefaultTitle
	}

	var b strings.Builder
	b.WriteString("Summarize the following article in 3-4 sentences. Focus on the main factual claims so they can be verified later.\n\n")
	fmt.Fprintf(&b, "Title: %s\n\n", title)
	fmt.Fprintf(&b, "Article content:\n%s\n\n", article.Content)
	b.WriteString("Respond only with the summary text.")
	return b.String()
}
