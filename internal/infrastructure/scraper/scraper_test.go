package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"factsift/internal/config"
)

type recordingReporter struct {
	successes []string
	warnings  []string
	progress  int
}

func (r *recordingReporter) Info(msg string)    {}
func (r *recordingReporter) Success(msg string) { r.successes = append(r.successes, msg) }
func (r *recordingReporter) Warning(msg string) { r.warnings = append(r.warnings, msg) }
func (r *recordingReporter) Error(msg string)   {}
func (r *recordingReporter) Progress(stage string, current, total int, detail string) {
	r.progress++
}

type countingPacer struct {
	pauses int
}

func (p *countingPacer) Pause(ctx context.Context) error {
	p.pauses++
	return nil
}

func TestCleanContentCollapsesWhitespace(t *testing.T) {
	t.Parallel()

	input := strings.Repeat("word ", 25) + "\n\n\t tail"
	want := strings.TrimSpace(strings.Repeat("word ", 25)) + " tail"

	if got := CleanContent(input, 0); got != want {
		t.Fatalf("unexpected cleaned content: %q", got)
	}
}

func TestCleanContentRejectsShortText(t *testing.T) {
	t.Parallel()

	if got := CleanContent("Just a stub page.", 5000); got != "" {
		t.Fatalf("short text should be dropped, got %q", got)
	}
	if got := CleanContent(strings.Repeat("x", 99), 5000); got != "" {
		t.Fatalf("99 runes should be dropped, got %q", got)
	}
	if got := CleanContent(strings.Repeat("x", 100), 5000); got == "" {
		t.Fatal("100 runes should be kept")
	}
}

func TestCleanContentTruncates(t *testing.T) {
	t.Parallel()

	got := CleanContent(strings.Repeat("a", 200), 150)
	want := strings.Repeat("a", 150) + "..."
	if got != want {
		t.Fatalf("unexpected truncation: %d runes", len(got))
	}

	if got := CleanContent(strings.Repeat("a", 200), 0); got != strings.Repeat("a", 200) {
		t.Fatalf("zero max length should not truncate, got %d runes", len(got))
	}
}

func TestExtractTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "title tag wins",
			html: `<html><head><title> Page Title </title><meta property="og:title" content="OG Title"></head><body><h1>Heading</h1></body></html>`,
			want: "Page Title",
		},
		{
			name: "og title fallback",
			html: `<html><head><meta property="og:title" content="OG Title"></head><body><h1>Heading</h1></body></html>`,
			want: "OG Title",
		},
		{
			name: "h1 fallback",
			html: `<html><head></head><body><h1>Heading</h1></body></html>`,
			want: "Heading",
		},
		{
			name: "nothing",
			html: `<html><body><p>text</p></body></html>`,
			want: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("new document: %v", err)
			}
			if got := extractTitle(doc); got != tt.want {
				t.Fatalf("unexpected title: %q", got)
			}
		})
	}
}

func TestScrape(t *testing.T) {
	t.Parallel()

	page := `<html>
	<head><title>Glyphosate Study Results</title></head>
	<body>
	  <article>
	    <h1>Glyphosate Study Results</h1>
	    <p>Researchers published a long-term study on glyphosate residues in common
	    food crops and reported that measured concentrations stayed well below the
	    regulatory thresholds set by the food safety authority, although the authors
	    called for continued monitoring of imported grain shipments over the next
	    decade because application practices differ between producing regions.</p>
	  </article>
	</body>
	</html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/good":
			_, _ = w.Write([]byte(page))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	reporter := &recordingReporter{}
	pacer := &countingPacer{}
	s := NewScraper(config.ScraperConfig{MaxContentLength: 5000, TimeoutSeconds: 5}, pacer, reporter, nil)
	s.httpClient = server.Client()

	articles, err := s.Scrape(context.Background(), []string{
		server.URL + "/good",
		server.URL + "/missing",
	})
	if err != nil {
		t.Fatalf("Scrape error: %v", err)
	}

	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	if articles[0].URL != server.URL+"/good" {
		t.Fatalf("unexpected url: %s", articles[0].URL)
	}
	if articles[0].Title != "Glyphosate Study Results" {
		t.Fatalf("unexpected title: %q", articles[0].Title)
	}
	if !strings.Contains(articles[0].Content, "regulatory thresholds") {
		t.Fatalf("content should carry the article text, got %q", articles[0].Content)
	}
	if strings.Contains(articles[0].Content, "\n") {
		t.Fatal("content should be whitespace-normalized")
	}

	if pacer.pauses != 1 {
		t.Fatalf("expected 1 pause between requests, got %d", pacer.pauses)
	}
	if reporter.progress != 2 {
		t.Fatalf("expected 2 progress updates, got %d", reporter.progress)
	}
	if len(reporter.warnings) != 1 || !strings.Contains(reporter.warnings[0], "/missing") {
		t.Fatalf("expected a skip warning for the missing page, got %v", reporter.warnings)
	}
	if len(reporter.successes) != 1 || !strings.Contains(reporter.successes[0], "1 out of 2") {
		t.Fatalf("expected a completion summary, got %v", reporter.successes)
	}
}

func TestScrapeSkipsThinPages(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Stub</title></head><body><p>Subscribe to read.</p></body></html>`))
	}))
	defer server.Close()

	reporter := &recordingReporter{}
	s := NewScraper(config.ScraperConfig{}, nil, reporter, nil)
	s.httpClient = server.Client()

	articles, err := s.Scrape(context.Background(), []string{server.URL})
	if err != nil {
		t.Fatalf("Scrape error: %v", err)
	}
	if len(articles) != 0 {
		t.Fatalf("thin pages should be skipped, got %d articles", len(articles))
	}
	if len(reporter.warnings) != 1 || !strings.Contains(reporter.warnings[0], "no usable content") {
		t.Fatalf("expected a no-content warning, got %v", reporter.warnings)
	}
}
