package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"factsift/internal/config"
	"factsift/internal/domain"
	"factsift/internal/ports"
)

// minContentRunes rejects pages whose extracted text is too short to
// be a real article.
const minContentRunes = 100

const userAgent = "factsift/1.0"

// Scraper implements ports.Scraper: it downloads pages and extracts
// readable article text.
type Scraper struct {
	httpClient *http.Client
	maxContent int
	pacer      ports.Pacer
	reporter   ports.StatusReporter
	logger     *slog.Logger
	stripper   *bluemonday.Policy
}

var _ ports.Scraper = (*Scraper)(nil)

// NewScraper builds a scraper from configuration.
func NewScraper(cfg config.ScraperConfig, pacer ports.Pacer, reporter ports.StatusReporter, logger *slog.Logger) *Scraper {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxContent := cfg.MaxContentLength
	if maxContent <= 0 {
		maxContent = 5000
	}
	return &Scraper{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxContent: maxContent,
		pacer:      pacer,
		reporter:   reporter,
		logger:     logger,
		stripper:   bluemonday.StrictPolicy(),
	}
}

// Scrape downloads every URL in order, pausing between requests, and
// keeps the pages that yield usable article text.
func (s *Scraper) Scrape(ctx context.Context, urls []string) ([]domain.Article, error) {
	articles := make([]domain.Article, 0, len(urls))

	for i, pageURL := range urls {
		if i > 0 && s.pacer != nil {
			_ = s.pacer.Pause(ctx)
		}
		s.progress(i+1, len(urls), pageURL)

		article, err := s.scrapeOne(ctx, pageURL)
		if err != nil {
			s.warning(fmt.Sprintf("skipping %s: %v", pageURL, err))
			if s.logger != nil {
				s.logger.Warn("scrape failed", "url", pageURL, "err", err)
			}
			continue
		}
		articles = append(articles, article)
	}

	s.success(fmt.Sprintf("scraping complete: %d out of %d URLs", len(articles), len(urls)))
	return articles, nil
}

func (s *Scraper) scrapeOne(ctx context.Context, pageURL string) (domain.Article, error) {
	raw, err := s.fetch(ctx, pageURL)
	if err != nil {
		return domain.Article{}, err
	}

	title, text := extract(raw, s.stripper)
	content := CleanContent(text, s.maxContent)
	if content == "" {
		return domain.Article{}, fmt.Errorf("no usable content")
	}

	return domain.Article{URL: pageURL, Title: title, Content: content}, nil
}

func (s *Scraper) fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("download page: %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}
	return string(raw), nil
}

// extract pulls the title and main text out of a page. Readability does
// the heavy lifting; pages it cannot parse fall back to goquery body
// text, then to plain tag stripping.
func extract(raw string, stripper *bluemonday.Policy) (title, text string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ""
	}

	doc, docErr := goquery.NewDocumentFromReader(strings.NewReader(trimmed))
	if docErr == nil {
		title = extractTitle(doc)
	}

	if article, err := readability.FromReader(strings.NewReader(trimmed), nil); err == nil {
		var buf strings.Builder
		if err := article.RenderText(&buf); err == nil {
			text = buf.String()
		}
	}

	if strings.TrimSpace(text) == "" && docErr == nil {
		doc.Find("script, style, noscript").Remove()
		text = doc.Find("body").Text()
		if strings.TrimSpace(text) == "" {
			text = doc.Text()
		}
	}
	if strings.TrimSpace(text) == "" {
		text = stripper.Sanitize(trimmed)
	}

	return title, text
}

// extractTitle prefers the title tag, then og:title, then the first h1.
func extractTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if ogTitle, ok := doc.Find("meta[property='og:title']").First().Attr("content"); ok {
		if title := strings.TrimSpace(ogTitle); title != "" {
			return title
		}
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

// CleanContent collapses whitespace, drops fragments too short to be an
// article, and truncates overlong text with an ellipsis marker.
func CleanContent(text string, maxLength int) string {
	cleaned := strings.Join(strings.Fields(text), " ")

	if utf8.RuneCountInString(cleaned) < minContentRunes {
		return ""
	}

	if maxLength > 0 {
		runes := []rune(cleaned)
		if len(runes) > maxLength {
			cleaned = string(runes[:maxLength]) + "..."
		}
	}
	return cleaned
}

func (s *Scraper) progress(current, total int, url string) {
	if s.reporter != nil {
		s.reporter.Progress("scrape", current, total, url)
	}
}

func (s *Scraper) success(msg string) {
	if s.reporter != nil {
		s.reporter.Success(msg)
	}
}

func (s *Scraper) warning(msg string) {
	if s.reporter != nil {
		s.reporter.Warning(msg)
	}
}
