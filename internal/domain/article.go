package domain

// FactStatus is the verdict assigned to a claim or a whole article.
type FactStatus string

const (
	StatusFact   FactStatus = "Fact"
	StatusMyth   FactStatus = "Myth"
	StatusUnsure FactStatus = "Unsure"
)

// Confidence grades how certain a verdict or classification is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Sentiment describes the overall tone detected in an article.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentMixed    Sentiment = "mixed"
)

const (
	// DefaultTitle substitutes for articles whose page carried no title.
	DefaultTitle = "Untitled"

	// CategoryOther is the catch-all classification category.
	CategoryOther = "Other"

	// FallbackAnalysisNotes marks records whose classification step failed.
	FallbackAnalysisNotes = "Classification failed due to processing error"

	// FallbackSummaryText marks articles whose summarization step failed.
	FallbackSummaryText = "Analysis failed - unable to process content"
)

// Categories lists every classification category the pipeline assigns.
var Categories = []string{
	"Health",
	"Environmental",
	"Social economics",
	"Conspiracy theory",
	"Corporate control",
	"Ethical/religious issues",
	"Seed ownership",
	"Scientific authority",
	CategoryOther,
}

// ClaimReview is a single published review returned by a fact-check registry.
type ClaimReview struct {
	TextualRating string
	URL           string
	ReviewDate    string
	PublisherName string
	PublisherSite string
}

// FactCheckResult holds the verdict for one claim extracted from an article.
type FactCheckResult struct {
	Claim         string     `json:"claim"`
	Status        FactStatus `json:"status"`
	Rating        string     `json:"rating"`
	Publisher     string     `json:"publisher"`
	PublisherSite string     `json:"publisher_site,omitempty"`
	ReviewURL     string     `json:"review_url,omitempty"`
	ReviewDate    string     `json:"review_date,omitempty"`
	Confidence    Confidence `json:"confidence"`
}

// Article is a scraped page moving through summarization and fact-checking.
type Article struct {
	URL              string            `json:"url"`
	Title            string            `json:"title"`
	Content          string            `json:"content"`
	Summary          string            `json:"summary,omitempty"`
	Claims           []string          `json:"claims,omitempty"`
	FactCheckResults []FactCheckResult `json:"fact_check_results,omitempty"`
	OverallStatus    FactStatus        `json:"overall_status,omitempty"`
}

// AnalyzedArticle is the final record produced by the classification stage.
// It carries every upstream field plus the classifier's assessment.
type AnalyzedArticle struct {
	URL               string            `json:"url"`
	Title             string            `json:"title"`
	Content           string            `json:"content"`
	Summary           string            `json:"summary"`
	Claims            []string          `json:"claims"`
	FactCheckResults  []FactCheckResult `json:"fact_check_results"`
	OverallFactStatus FactStatus        `json:"overall_fact_status"`
	Classification    string            `json:"classification"`
	Confidence        Confidence        `json:"confidence"`
	KeyThemes         []string          `json:"key_themes"`
	AnalysisNotes     string            `json:"analysis_notes"`
	Sentiment         Sentiment         `json:"sentiment"`
	CredibilityScore  float64           `json:"credibility_score"`
}

// Stats aggregates a batch of analyzed articles.
type Stats struct {
	TotalArticles           int                `json:"total_articles"`
	ClassificationCounts    map[string]int     `json:"classification_counts"`
	FactStatusCounts        map[FactStatus]int `json:"fact_status_counts"`
	ConfidenceCounts        map[Confidence]int `json:"confidence_counts"`
	SentimentCounts         map[Sentiment]int  `json:"sentiment_counts"`
	AverageCredibilityScore float64            `json:"average_credibility_score"`
	SuccessfulAnalyses      int                `json:"successful_analyses"`
}
