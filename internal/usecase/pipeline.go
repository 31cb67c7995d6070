package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"factsift/internal/domain"
	"factsift/internal/ports"
)

// ErrCompletionNotConfigured signals that no LLM API key is available,
// so the analysis pipeline cannot start.
var ErrCompletionNotConfigured = errors.New("completion client is not configured")

// ErrNoSummaries signals that summarization yielded nothing to analyze.
var ErrNoSummaries = errors.New("summarization produced no articles")

// PipelineDeps wires the stages the analysis pipeline needs.
type PipelineDeps struct {
	Completion  ports.CompletionClient
	Summarizer  ports.Summarizer
	FactChecker ports.FactChecker
	Classifier  ports.Classifier
	Artifacts   ports.ArtifactStore
	Reporter    ports.StatusReporter
	Logger      *slog.Logger
}

// Pipeline runs scraped articles through summarization, fact-checking
// and classification, and persists the final batch as a run artifact.
type Pipeline struct {
	reporting
	completion  ports.CompletionClient
	summarizer  ports.Summarizer
	factChecker ports.FactChecker
	classifier  ports.Classifier
	artifacts   ports.ArtifactStore
	logger      *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		reporting:   reporting{reporter: deps.Reporter},
		completion:  deps.Completion,
		summarizer:  deps.Summarizer,
		factChecker: deps.FactChecker,
		classifier:  deps.Classifier,
		artifacts:   deps.Artifacts,
		logger:      deps.Logger,
	}
}

// Run executes the three analysis stages in order.
//
// A failed or empty summarization aborts the run: without summaries
// there are no claims to check and nothing to classify. An empty
// fact-check result degrades softly: classification proceeds on the
// summarized articles and the final records keep the default verdict.
func (p *Pipeline) Run(ctx context.Context, articles []domain.Article) ([]domain.AnalyzedArticle, error) {
	if p.completion == nil {
		p.error("GOOGLE_API_KEY not found, cannot run analysis")
		return nil, ErrCompletionNotConfigured
	}

	p.info("starting analysis workflow")

	summarized, err := p.summarizer.SummarizeAll(ctx, articles)
	if err != nil {
		p.error("summarization failed, cannot proceed with analysis")
		return nil, fmt.Errorf("summarize articles: %w", err)
	}
	if len(summarized) == 0 {
		p.error("summarization failed, cannot proceed with analysis")
		return nil, ErrNoSummaries
	}

	checked, err := p.factChecker.FactCheckAll(ctx, summarized)
	if err != nil || len(checked) == 0 {
		p.warning("fact-checking failed, proceeding with classification only")
		if err != nil && p.logger != nil {
			p.logger.Warn("fact-checking failed", "err", err)
		}
		checked = summarized
	}

	final := p.classifier.ClassifyAll(ctx, checked)

	if len(final) > 0 && p.artifacts != nil {
		if path, aErr := p.artifacts.SaveAnalysis(final); aErr != nil {
			p.warning(fmt.Sprintf("could not save final analysis: %v", aErr))
			if p.logger != nil {
				p.logger.Warn("artifact write failed", "err", aErr)
			}
		} else {
			p.info("final analysis saved to " + path)
		}
	}

	p.success("analysis workflow finished")
	return final, nil
}
