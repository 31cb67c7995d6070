package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"factsift/internal/config"
	"factsift/internal/domain"
	"factsift/internal/ports"
)

const (
	defaultAPIBase = "https://api.notion.com/v1"
	notionVersion  = "2022-06-28"

	// Notion rejects rich_text blocks above this length.
	maxRichTextRunes = 2000
)

var (
	statusOptions     = []string{"Fact", "Myth", "Unclear"}
	confidenceOptions = []string{"High", "Medium", "Low"}

	classificationOptions = []string{
		"Health",
		"Environmental",
		"Social economics",
		"Conspiracy theory",
		"Corporate control",
		"Ethical/religious issues",
		"Seed ownership",
		"Scientific authority",
		"Other",
	}
)

// Publisher mirrors finished analyses into a Notion knowledge base.
type Publisher struct {
	apiBase      string
	token        string
	parentPageID string
	publish      bool
	client       *http.Client
	logger       *slog.Logger
}

var _ ports.Publisher = (*Publisher)(nil)

// NewPublisher creates a reusable Notion API client.
func NewPublisher(cfg config.NotionConfig, logger *slog.Logger) *Publisher {
	return &Publisher{
		apiBase:      defaultAPIBase,
		token:        cfg.Token,
		parentPageID: cfg.ParentPageID,
		publish:      cfg.Publish,
		client:       &http.Client{Timeout: 15 * time.Second},
		logger:       logger,
	}
}

// Enabled reports whether publishing is switched on and credentials are present.
func (p *Publisher) Enabled() bool {
	return p.publish && p.token != "" && p.parentPageID != ""
}

// CreateRunDatabase creates a full-page database for one analysis run and returns its ID.
func (p *Publisher) CreateRunDatabase(ctx context.Context, runName string) (string, error) {
	if p.token == "" || p.parentPageID == "" {
		return "", fmt.Errorf("notion publisher misconfigured: NOTION_TOKEN or NOTION_PARENT_PAGE_ID is empty")
	}

	payload := map[string]any{
		"parent":     map[string]string{"page_id": p.parentPageID},
		"title":      []map[string]any{{"text": map[string]string{"content": "Analysis Run: " + runName}}},
		"properties": runDatabaseProperties(),
		"is_inline":  false,
	}

	var created struct {
		ID string `json:"id"`
	}

	if err := p.post(ctx, "/databases", payload, &created); err != nil {
		return "", fmt.Errorf("create database: %w", err)
	}

	p.debug("created notion database", "run", runName, "id", created.ID)

	return created.ID, nil
}

// PublishArticle inserts one analyzed article as a page of the run database.
func (p *Publisher) PublishArticle(ctx context.Context, databaseID string, article domain.AnalyzedArticle) error {
	if databaseID == "" {
		return fmt.Errorf("database id is empty")
	}

	title := article.Title
	if title == "" {
		title = domain.DefaultTitle
	}

	properties := map[string]any{
		"Title":          titleProperty(clipRunes(title, maxRichTextRunes)),
		"URL":            urlProperty(article.URL),
		"Fact Status":    selectValue(matchOption(string(article.OverallFactStatus), statusOptions, "Unclear")),
		"Classification": selectValue(matchOption(article.Classification, classificationOptions, "Other")),
		"Confidence":     selectValue(matchOption(string(article.Confidence), confidenceOptions, "Medium")),
		"Analysis Date":  map[string]any{"date": map[string]string{"start": time.Now().Format("2006-01-02")}},
	}

	// Empty rich_text blocks are rejected, so they are only attached when filled.
	if content := strings.TrimSpace(article.Content); content != "" {
		properties["Content"] = richTextProperty(clipRunes(content, maxRichTextRunes))
	}
	if summary := strings.TrimSpace(article.Summary); summary != "" {
		properties["Summary"] = richTextProperty(clipRunes(summary, maxRichTextRunes))
	}
	if claims := strings.Join(article.Claims, ", "); strings.TrimSpace(claims) != "" {
		properties["Claims"] = richTextProperty(clipRunes(claims, maxRichTextRunes))
	}

	payload := map[string]any{
		"parent":     map[string]string{"database_id": databaseID},
		"properties": properties,
	}

	if err := p.post(ctx, "/pages", payload, nil); err != nil {
		return fmt.Errorf("create page: %w", err)
	}

	p.debug("published article", "url", article.URL)

	return nil
}

// DatabaseURL renders the public link for a database ID.
func (p *Publisher) DatabaseURL(databaseID string) string {
	return "https://www.notion.so/" + strings.ReplaceAll(databaseID, "-", "")
}

func (p *Publisher) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiBase+path, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("new request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+p.token)
		req.Header.Set("Notion-Version", notionVersion)

		resp, err := p.client.Do(req)
		if err != nil {
			return fmt.Errorf("do request: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt == 0 {
			_ = resp.Body.Close()
			p.warn("rate limited by notion, retrying in 1s")
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		if resp.StatusCode >= http.StatusBadRequest {
			excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			_ = resp.Body.Close()
			return fmt.Errorf("notion error %s: %s", resp.Status, strings.TrimSpace(string(excerpt)))
		}

		if v == nil {
			if err := resp.Body.Close(); err != nil {
				return fmt.Errorf("close response body: %w", err)
			}
			return nil
		}

		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			_ = resp.Body.Close()
			return fmt.Errorf("decode response: %w", err)
		}

		if err := resp.Body.Close(); err != nil {
			return fmt.Errorf("close response body: %w", err)
		}

		return nil
	}
}

func runDatabaseProperties() map[string]any {
	return map[string]any{
		"Title":   map[string]any{"title": map[string]any{}},
		"URL":     map[string]any{"url": map[string]any{}},
		"Content": map[string]any{"rich_text": map[string]any{}},
		"Summary": map[string]any{"rich_text": map[string]any{}},
		"Claims":  map[string]any{"rich_text": map[string]any{}},
		"Fact Status": selectProperty(
			option("Fact", "green"),
			option("Myth", "red"),
			option("Unclear", "yellow"),
		),
		"Classification": selectProperty(
			option("Health", "blue"),
			option("Environmental", "green"),
			option("Social economics", "orange"),
			option("Conspiracy theory", "red"),
			option("Corporate control", "purple"),
			option("Ethical/religious issues", "pink"),
			option("Seed ownership", "brown"),
			option("Scientific authority", "gray"),
			option("Other", "default"),
		),
		"Confidence": selectProperty(
			option("High", "green"),
			option("Medium", "yellow"),
			option("Low", "red"),
		),
		"Analysis Date": map[string]any{"date": map[string]any{}},
	}
}

func selectProperty(options ...map[string]string) map[string]any {
	return map[string]any{"select": map[string]any{"options": options}}
}

func option(name, color string) map[string]string {
	return map[string]string{"name": name, "color": color}
}

func titleProperty(text string) map[string]any {
	return map[string]any{"title": []map[string]any{{"text": map[string]string{"content": text}}}}
}

func richTextProperty(text string) map[string]any {
	return map[string]any{"rich_text": []map[string]any{{"text": map[string]string{"content": text}}}}
}

func urlProperty(raw string) map[string]any {
	if raw == "" {
		return map[string]any{"url": nil}
	}
	return map[string]any{"url": raw}
}

// matchOption maps a value onto the select vocabulary case-insensitively,
// falling back when nothing matches.
func matchOption(value string, options []string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range options {
		if strings.EqualFold(trimmed, candidate) {
			return candidate
		}
	}
	return fallback
}

func selectValue(name string) map[string]any {
	return map[string]any{"select": map[string]string{"name": name}}
}

func clipRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func (p *Publisher) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func (p *Publisher) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
