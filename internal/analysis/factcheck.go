package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"factsift/internal/domain"
	"factsift/internal/ports"
)

// maxClaims caps registry lookups per article to stay under API quotas.
const maxClaims = 5

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// FactChecker verifies the claims found in article summaries against a
// claim review registry.
type FactChecker struct {
	reporting
	searcher  ports.ClaimSearcher
	artifacts ports.ArtifactStore
	pacer     ports.Pacer
	logger    *slog.Logger
}

var _ ports.FactChecker = (*FactChecker)(nil)

// NewFactChecker wires the fact-checking stage. A nil searcher means the
// registry API key is absent; batches then pass through unchanged.
func NewFactChecker(searcher ports.ClaimSearcher, artifacts ports.ArtifactStore, pacer ports.Pacer, reporter ports.StatusReporter, logger *slog.Logger) *FactChecker {
	return &FactChecker{
		reporting: reporting{reporter: reporter},
		searcher:  searcher,
		artifacts: artifacts,
		pacer:     pacer,
		logger:    logger,
	}
}

// FactCheckAll verifies every article in input order, pausing between
// articles, and saves the checked batch as a run artifact.
func (f *FactChecker) FactCheckAll(ctx context.Context, articles []domain.Article) ([]domain.Article, error) {
	if f.searcher == nil {
		f.error("cannot perform fact-checking without GOOGLE_FACT_CHECK_API_KEY")
		return articles, nil
	}

	checked := make([]domain.Article, 0, len(articles))
	for i, article := range articles {
		if i > 0 && f.pacer != nil {
			_ = f.pacer.Pause(ctx)
		}
		f.progress("fact-check", i+1, len(articles), article.URL)
		checked = append(checked, f.checkOne(ctx, article))
	}

	f.success(fmt.Sprintf("fact-checking complete: checked %d articles", len(checked)))

	if len(checked) > 0 && f.artifacts != nil {
		if path, err := f.artifacts.SaveFactChecks(checked); err != nil {
			f.warning(fmt.Sprintf("could not save fact-check results: %v", err))
		} else {
			f.info("fact-checked data saved to " + path)
		}
	}

	return checked, nil
}

func (f *FactChecker) checkOne(ctx context.Context, article domain.Article) domain.Article {
	claims := ExtractClaims(article.Summary)

	results := make([]domain.FactCheckResult, 0, len(claims))
	for _, claim := range claims {
		results = append(results, f.checkClaim(ctx, claim))
	}

	checked := article
	if checked.Title == "" {
		checked.Title = domain.DefaultTitle
	}
	checked.Claims = claims
	checked.FactCheckResults = results
	checked.OverallStatus = OverallStatus(results)
	return checked
}

func (f *FactChecker) checkClaim(ctx context.Context, claim string) domain.FactCheckResult {
	review, err := f.searcher.SearchClaim(ctx, claim)
	if err != nil {
		f.warning(fmt.Sprintf("error checking claim %q: %v", truncateRunes(claim, 50), err))
		if f.logger != nil {
			f.logger.Warn("claim lookup failed", "err", err)
		}
		return domain.FactCheckResult{
			Claim:      claim,
			Status:     domain.StatusUnsure,
			Rating:     "Error occurred",
			Publisher:  "None",
			Confidence: domain.ConfidenceLow,
		}
	}

	if review == nil {
		return domain.FactCheckResult{
			Claim:      claim,
			Status:     domain.StatusUnsure,
			Rating:     "No fact-check found",
			Publisher:  "None",
			Confidence: domain.ConfidenceLow,
		}
	}

	status := domain.StatusMyth
	switch strings.ToLower(review.TextualRating) {
	case "true", "fact":
		status = domain.StatusFact
	}
	rating := review.TextualRating
	if rating == "" {
		rating = "Unknown"
	}
	publisher := review.PublisherName
	if publisher == "" {
		publisher = "Unknown"
	}

	return domain.FactCheckResult{
		Claim:         claim,
		Status:        status,
		Rating:        rating,
		Publisher:     publisher,
		PublisherSite: review.PublisherSite,
		ReviewURL:     review.URL,
		ReviewDate:    review.ReviewDate,
		Confidence:    domain.ConfidenceHigh,
	}
}

// ExtractClaims splits a summary into the substantial sentences worth
// verifying. A summary with no such sentences is checked whole.
func ExtractClaims(summary string) []string {
	sentences := sentenceSplit.Split(summary, -1)

	claims := make([]string, 0, maxClaims)
	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) > 20 {
			claims = append(claims, sentence)
		}
	}

	if len(claims) == 0 {
		claims = []string{summary}
	}
	if len(claims) > maxClaims {
		claims = claims[:maxClaims]
	}
	return claims
}

// OverallStatus derives an article-level verdict by majority vote over
// the individual claim verdicts.
func OverallStatus(results []domain.FactCheckResult) domain.FactStatus {
	if len(results) == 0 {
		return domain.StatusUnsure
	}

	var facts, myths, unsure int
	for _, result := range results {
		switch result.Status {
		case domain.StatusFact:
			facts++
		case domain.StatusMyth:
			myths++
		default:
			unsure++
		}
	}

	switch {
	case facts > myths && facts > unsure:
		return domain.StatusFact
	case myths > facts && myths > unsure:
		return domain.StatusMyth
	default:
		return domain.StatusUnsure
	}
}
