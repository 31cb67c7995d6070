package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"factsift/internal/domain"
	"factsift/internal/ports"
)

// promptClaimLimit caps how much of a claim the prompt digest quotes.
const promptClaimLimit = 100

// Classifier turns fact-checked articles into final analysis records.
// It is total over its input: every article yields exactly one record,
// and articles the model cannot classify receive a deterministic fallback.
type Classifier struct {
	reporting
	completion ports.CompletionClient
	pacer      ports.Pacer
	logger     *slog.Logger
}

var _ ports.Classifier = (*Classifier)(nil)

// NewClassifier wires the classification stage.
func NewClassifier(completion ports.CompletionClient, pacer ports.Pacer, reporter ports.StatusReporter, logger *slog.Logger) *Classifier {
	return &Classifier{
		reporting:  reporting{reporter: reporter},
		completion: completion,
		pacer:      pacer,
		logger:     logger,
	}
}

// ClassifyAll classifies articles in input order, pausing between calls
// to stay under the model's rate limits.
func (c *Classifier) ClassifyAll(ctx context.Context, articles []domain.Article) []domain.AnalyzedArticle {
	results := make([]domain.AnalyzedArticle, 0, len(articles))

	for i, article := range articles {
		if i > 0 && c.pacer != nil {
			_ = c.pacer.Pause(ctx)
		}
		c.progress("classify", i+1, len(articles), article.URL)

		record, err := c.classifyOne(ctx, article)
		if err != nil {
			c.error(fmt.Sprintf("error analyzing article %s: %v", article.URL, err))
			if c.logger != nil {
				c.logger.Warn("classification failed", "url", article.URL, "err", err)
			}
			results = append(results, fallbackRecord(article))
			continue
		}
		results = append(results, record)
	}

	c.success(fmt.Sprintf("classification complete: analyzed %d articles", len(results)))
	return results
}

func (c *Classifier) classifyOne(ctx context.Context, article domain.Article) (domain.AnalyzedArticle, error) {
	if c.completion == nil {
		return domain.AnalyzedArticle{}, errors.New("completion client is not configured")
	}

	reply, err := c.completion.Generate(ctx, classificationPrompt(article))
	if err != nil {
		return domain.AnalyzedArticle{}, err
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(reply), &fields); err != nil {
		c.warning(fmt.Sprintf("failed to parse model reply for %s: %v", article.URL, err))
		return fallbackRecord(article), nil
	}
	return mergeAnalysis(article, fields), nil
}

// mergeAnalysis fills the classifier fields from the parsed reply,
// substituting a default for every field the reply omits or mistypes.
func mergeAnalysis(article domain.Article, fields map[string]any) domain.AnalyzedArticle {
	record := baseRecord(article)
	record.Classification = stringField(fields, "classification", domain.CategoryOther)
	record.Confidence = domain.Confidence(stringField(fields, "confidence", string(domain.ConfidenceMedium)))
	record.KeyThemes = stringListField(fields, "key_themes")
	record.AnalysisNotes = stringField(fields, "analysis_notes", "")
	record.Sentiment = domain.Sentiment(stringField(fields, "sentiment", string(domain.SentimentNeutral)))
	record.CredibilityScore = floatField(fields, "credibility_score", 0.5)
	return record
}

// baseRecord copies the upstream fields every final record carries.
func baseRecord(article domain.Article) domain.AnalyzedArticle {
	title := article.Title
	if title == "" {
		title = domain.DefaultTitle
	}
	status := article.OverallStatus
	if status == "" {
		status = domain.StatusUnsure
	}
	claims := article.Claims
	if claims == nil {
		claims = []string{}
	}
	checks := article.FactCheckResults
	if checks == nil {
		checks = []domain.FactCheckResult{}
	}
	return domain.AnalyzedArticle{
		URL:               article.URL,
		Title:             title,
		Content:           article.Content,
		Summary:           article.Summary,
		Claims:            claims,
		FactCheckResults:  checks,
		OverallFactStatus: status,
	}
}

// fallbackRecord is the deterministic result for articles whose
// classification step failed.
func fallbackRecord(article domain.Article) domain.AnalyzedArticle {
	record := baseRecord(article)
	record.Classification = domain.CategoryOther
	record.Confidence = domain.ConfidenceLow
	record.KeyThemes = []string{}
	record.AnalysisNotes = domain.FallbackAnalysisNotes
	record.Sentiment = domain.SentimentNeutral
	record.CredibilityScore = 0.3
	return record
}

func classificationPrompt(article domain.Article) string {
	title := article.Title
	if title == "" {
		title = domain.DefaultTitle
	}
	status := article.OverallStatus
	if status == "" {
		status = domain.StatusUnsure
	}

	var b strings.Builder
	b.WriteString("Analyze and classify the following article based on its content, summary, and fact-check results.\n\n")
	fmt.Fprintf(&b, "Article URL: %s\n", article.URL)
	fmt.Fprintf(&b, "Title: %s\n", title)
	fmt.Fprintf(&b, "Summary: %s\n", article.Summary)
	fmt.Fprintf(&b, "Overall Fact Status: %s\n\n", status)

	if digest := factCheckDigest(article.FactCheckResults); digest != "" {
		b.WriteString(digest)
		b.WriteString("\n")
	}

	b.WriteString("Please provide the following analysis in JSON format:\n")
	fmt.Fprintf(&b, `{
    "classification": "One of these categories: %s",
    "confidence": "One of: high, medium, low",
    "key_themes": ["List of main themes or topics discussed"],
    "analysis_notes": "Brief analysis of content quality and reliability",
    "sentiment": "One of: positive, negative, neutral, mixed",
    "credibility_score": 0.5
}
`, strings.Join(domain.Categories, ", "))
	b.WriteString(`
Guidelines:
- Classify based on the main topic/theme of the article
- Consider the fact-check results when assessing credibility
- Provide confidence level based on clarity and verifiability of claims
- Identify key themes that appear in the content
- Assess overall sentiment and tone
- Provide a credibility score between 0.0 (low) and 1.0 (high)

Respond only with valid JSON.`)

	return b.String()
}

// factCheckDigest quotes up to the first three verdicts for the prompt.
func factCheckDigest(results []domain.FactCheckResult) string {
	if len(results) == 0 {
		return ""
	}
	digest := "Fact-check Results:\n"
	for i, result := range results {
		if i == 3 {
			break
		}
		digest += fmt.Sprintf("%d. Claim: %s...\n", i+1, truncateRunes(result.Claim, promptClaimLimit))
		digest += fmt.Sprintf("   Status: %s (Rating: %s)\n", result.Status, result.Rating)
		digest += fmt.Sprintf("   Publisher: %s\n\n", result.Publisher)
	}
	return digest
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func stringField(fields map[string]any, key, fallback string) string {
	if value, ok := fields[key].(string); ok {
		return value
	}
	return fallback
}

func stringListField(fields map[string]any, key string) []string {
	raw, ok := fields[key].([]any)
	if !ok {
		return []string{}
	}
	values := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			values = append(values, s)
			continue
		}
		values = append(values, fmt.Sprint(item))
	}
	return values
}

func floatField(fields map[string]any, key string, fallback float64) float64 {
	if value, ok := fields[key].(float64); ok {
		return value
	}
	return fallback
}
