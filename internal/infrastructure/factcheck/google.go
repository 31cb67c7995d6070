package factcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"factsift/internal/config"
	"factsift/internal/domain"
	"factsift/internal/ports"
)

// GoogleClient implements ports.ClaimSearcher backed by the Google
// Fact Check Tools claim search API.
type GoogleClient struct {
	endpoint   string
	apiKey     string
	language   string
	httpClient *http.Client
}

var _ ports.ClaimSearcher = (*GoogleClient)(nil)

// NewGoogleClient builds a client from configuration.
func NewGoogleClient(cfg config.FactCheckConfig) *GoogleClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	language := cfg.Language
	if language == "" {
		language = "en"
	}
	return &GoogleClient{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		language: language,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SearchClaim returns the first published review for the claim, or nil
// when the registry holds none.
func (g *GoogleClient) SearchClaim(ctx context.Context, claim string) (*domain.ClaimReview, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("fact check client misconfigured: api key is empty")
	}

	params := url.Values{}
	params.Set("query", claim)
	params.Set("key", g.apiKey)
	params.Set("languageCode", g.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search claim: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("fact check error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var decoded struct {
		Claims []struct {
			ClaimReview []struct {
				TextualRating string `json:"textualRating"`
				URL           string `json:"url"`
				ReviewDate    string `json:"reviewDate"`
				Publisher     struct {
					Name string `json:"name"`
					Site string `json:"site"`
				} `json:"publisher"`
			} `json:"claimReview"`
		} `json:"claims"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode fact check response: %w", err)
	}

	if len(decoded.Claims) == 0 || len(decoded.Claims[0].ClaimReview) == 0 {
		return nil, nil
	}

	review := decoded.Claims[0].ClaimReview[0]
	return &domain.ClaimReview{
		TextualRating: review.TextualRating,
		URL:           review.URL,
		ReviewDate:    review.ReviewDate,
		PublisherName: review.Publisher.Name,
		PublisherSite: review.Publisher.Site,
	}, nil
}
