package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"factsift/internal/domain"
)

type scriptedCompletion struct {
	prompts  []string
	generate func(call int, prompt string) (string, error)
}

func (s *scriptedCompletion) Generate(ctx context.Context, prompt string) (string, error) {
	call := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	return s.generate(call, prompt)
}

type countingPacer struct {
	pauses int
}

func (p *countingPacer) Pause(ctx context.Context) error {
	p.pauses++
	return nil
}

func TestClassifyAllKeepsOrderAndFallsBack(t *testing.T) {
	t.Parallel()

	completion := &scriptedCompletion{
		generate: func(call int, prompt string) (string, error) {
			switch call {
			case 0:
				return `{"classification": "Health", "confidence": "high", "key_themes": ["vaccines"], "analysis_notes": "solid", "sentiment": "positive", "credibility_score": 0.9}`, nil
			case 1:
				return "", errors.New("model unavailable")
			default:
				return `{"classification": "Environmental"}`, nil
			}
		},
	}
	pacer := &countingPacer{}
	classifier := NewClassifier(completion, pacer, nil, nil)

	articles := []domain.Article{
		{URL: "https://a.example", Title: "A"},
		{URL: "https://b.example", Title: "B"},
		{URL: "https://c.example", Title: "C"},
	}

	results := classifier.ClassifyAll(context.Background(), articles)
	if len(results) != 3 {
		t.Fatalf("expected 3 records, got %d", len(results))
	}

	if results[0].Classification != "Health" {
		t.Fatalf("unexpected first classification: %s", results[0].Classification)
	}
	if results[0].CredibilityScore != 0.9 {
		t.Fatalf("unexpected first score: %v", results[0].CredibilityScore)
	}

	failed := results[1]
	if failed.URL != "https://b.example" {
		t.Fatalf("fallback lost its slot: %s", failed.URL)
	}
	if failed.Classification != domain.CategoryOther {
		t.Fatalf("unexpected fallback classification: %s", failed.Classification)
	}
	if failed.Confidence != domain.ConfidenceLow {
		t.Fatalf("unexpected fallback confidence: %s", failed.Confidence)
	}
	if failed.AnalysisNotes != domain.FallbackAnalysisNotes {
		t.Fatalf("unexpected fallback notes: %s", failed.AnalysisNotes)
	}
	if failed.Sentiment != domain.SentimentNeutral {
		t.Fatalf("unexpected fallback sentiment: %s", failed.Sentiment)
	}
	if failed.CredibilityScore != 0.3 {
		t.Fatalf("unexpected fallback score: %v", failed.CredibilityScore)
	}
	if failed.KeyThemes == nil || len(failed.KeyThemes) != 0 {
		t.Fatalf("fallback themes should be empty, got %v", failed.KeyThemes)
	}

	if results[2].Classification != "Environmental" {
		t.Fatalf("unexpected last classification: %s", results[2].Classification)
	}

	if pacer.pauses != 2 {
		t.Fatalf("expected 2 pauses, got %d", pacer.pauses)
	}
}

func TestClassifyAllUnparseableReply(t *testing.T) {
	t.Parallel()

	completion := &scriptedCompletion{
		generate: func(call int, prompt string) (string, error) {
			return "I cannot answer in JSON, sorry.", nil
		},
	}
	classifier := NewClassifier(completion, nil, nil, nil)

	results := classifier.ClassifyAll(context.Background(), []domain.Article{{URL: "https://a.example"}})
	if len(results) != 1 {
		t.Fatalf("expected 1 record, got %d", len(results))
	}
	if results[0].Classification != domain.CategoryOther {
		t.Fatalf("unexpected classification: %s", results[0].Classification)
	}
	if results[0].AnalysisNotes != domain.FallbackAnalysisNotes {
		t.Fatalf("unexpected notes: %s", results[0].AnalysisNotes)
	}
	if results[0].Title != domain.DefaultTitle {
		t.Fatalf("expected default title, got %s", results[0].Title)
	}
}

func TestMergeAnalysisDefaults(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		reply  string
		want   domain.AnalyzedArticle
		themes int
	}{
		{
			name:  "partial fields",
			reply: `{"classification": "Health", "credibility_score": 0.8}`,
			want: domain.AnalyzedArticle{
				Classification:   "Health",
				Confidence:       domain.ConfidenceMedium,
				AnalysisNotes:    "",
				Sentiment:        domain.SentimentNeutral,
				CredibilityScore: 0.8,
			},
		},
		{
			name:  "wrong types",
			reply: `{"classification": 7, "confidence": true, "key_themes": "oops", "credibility_score": "high"}`,
			want: domain.AnalyzedArticle{
				Classification:   domain.CategoryOther,
				Confidence:       domain.ConfidenceMedium,
				AnalysisNotes:    "",
				Sentiment:        domain.SentimentNeutral,
				CredibilityScore: 0.5,
			},
		},
		{
			name:   "mixed theme list",
			reply:  `{"key_themes": ["seeds", 42]}`,
			themes: 2,
			want: domain.AnalyzedArticle{
				Classification:   domain.CategoryOther,
				Confidence:       domain.ConfidenceMedium,
				Sentiment:        domain.SentimentNeutral,
				CredibilityScore: 0.5,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			completion := &scriptedCompletion{
				generate: func(call int, prompt string) (string, error) {
					return tc.reply, nil
				},
			}
			classifier := NewClassifier(completion, nil, nil, nil)

			results := classifier.ClassifyAll(context.Background(), []domain.Article{{URL: "https://a.example"}})
			got := results[0]

			if got.Classification != tc.want.Classification {
				t.Fatalf("classification: got %s, want %s", got.Classification, tc.want.Classification)
			}
			if got.Confidence != tc.want.Confidence {
				t.Fatalf("confidence: got %s, want %s", got.Confidence, tc.want.Confidence)
			}
			if got.Sentiment != tc.want.Sentiment {
				t.Fatalf("sentiment: got %s, want %s", got.Sentiment, tc.want.Sentiment)
			}
			if got.CredibilityScore != tc.want.CredibilityScore {
				t.Fatalf("score: got %v, want %v", got.CredibilityScore, tc.want.CredibilityScore)
			}
			if got.KeyThemes == nil {
				t.Fatal("themes should never be nil")
			}
			if tc.themes > 0 && len(got.KeyThemes) != tc.themes {
				t.Fatalf("themes: got %v", got.KeyThemes)
			}
		})
	}
}

func TestClassificationPrompt(t *testing.T) {
	t.Parallel()

	longClaim := strings.Repeat("glyphosate ", 20)

	article := domain.Article{
		URL:     "https://a.example",
		Summary: "GMO crops were banned everywhere.",
		FactCheckResults: []domain.FactCheckResult{
			{Claim: longClaim, Status: domain.StatusMyth, Rating: "False", Publisher: "Snopes"},
			{Claim: "second claim", Status: domain.StatusFact, Rating: "True", Publisher: "AFP"},
			{Claim: "third claim", Status: domain.StatusUnsure, Rating: "Unproven", Publisher: "PolitiFact"},
			{Claim: "fourth claim", Status: domain.StatusFact, Rating: "True", Publisher: "Reuters"},
		},
	}

	prompt := classificationPrompt(article)

	if !strings.HasPrefix(prompt, "Analyze and classify the following article") {
		t.Fatalf("unexpected prompt opening: %.60s", prompt)
	}
	if !strings.Contains(prompt, "Title: "+domain.DefaultTitle) {
		t.Fatal("empty title should fall back to the default")
	}
	if !strings.Contains(prompt, "Overall Fact Status: "+string(domain.StatusUnsure)) {
		t.Fatal("empty status should fall back to unsure")
	}
	if !strings.Contains(prompt, strings.Join(domain.Categories, ", ")) {
		t.Fatal("prompt should enumerate every category")
	}
	if !strings.HasSuffix(prompt, "Respond only with valid JSON.") {
		t.Fatalf("unexpected prompt ending: %.40s", prompt[len(prompt)-40:])
	}

	if !strings.Contains(prompt, "3. Claim: third claim...") {
		t.Fatal("third verdict should be quoted")
	}
	if strings.Contains(prompt, "fourth claim") {
		t.Fatal("digest should stop after three verdicts")
	}
	if strings.Contains(prompt, longClaim) {
		t.Fatal("long claims should be truncated in the digest")
	}
	truncated := string([]rune(longClaim)[:promptClaimLimit])
	if !strings.Contains(prompt, "1. Claim: "+truncated+"...") {
		t.Fatal("digest should quote the first 100 runes of the claim")
	}
	if !strings.Contains(prompt, "   Status: Myth (Rating: False)") {
		t.Fatal("digest should render the claim verdict")
	}
	if !strings.Contains(prompt, "   Publisher: Snopes") {
		t.Fatal("digest should name the publisher")
	}

	bare := classificationPrompt(domain.Article{URL: "https://b.example"})
	if strings.Contains(bare, "Fact-check Results:") {
		t.Fatal("articles without verdicts should not carry a digest")
	}
}
