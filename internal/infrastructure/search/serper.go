package search

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
	"factsift/internal/ports"
)

// SerperClient implements ports.SearchProvider backed by the Serper
// Google search API.
type SerperClient struct {
	endpoint   string
	apiKey     string
	maxResults int
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.SearchProvider = (*SerperClient)(nil)

// NewSerperClient builds a client from configuration.
func NewSerperClient(cfg config.SerperConfig, logger *slog.Logger) *SerperClient {
	return &SerperClient{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		maxResults: cfg.MaxResults,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// Search returns up to maxResults organic result links for the topic.
func (s *SerperClient) Search(ctx context.Context, topic string, maxResults int) ([]string, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("serper client misconfigured: SERPER_API_KEY is empty")
	}
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	body, err := json.Marshal(map[string]any{
		"q":   topic,
		"num": maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("serper error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var decoded struct {
		Organic []struct {
			Link string `json:"link"`
		} `json:"organic"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	urls := make([]string, 0, maxResults)
	for _, result := range decoded.Organic {
		if len(urls) == maxResults {
			break
		}
		if result.Link != "" {
			urls = append(urls, result.Link)
		}
	}

	s.debug("search finished", "topic", topic, "urls", len(urls))
	return urls, nil
}

// ValidateURLs filters out entries that are not absolute web URLs.
func (s *SerperClient) ValidateURLs(urls []string) []string {
	valid := make([]string, 0, len(urls))
	for _, u := range urls {
		if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
			valid = append(valid, u)
			continue
		}
		if s.logger != nil {
			s.logger.Warn("skipping invalid url", "url", u)
		}
	}
	return valid
}

func (s *SerperClient) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
