package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"factsift/internal/domain"
	"factsift/internal/ports"
)

// Store writes analysis batches to timestamped JSON files so every run
// leaves an inspectable trace of what each stage produced.
type Store struct {
	dir string
}

var _ ports.ArtifactStore = (*Store)(nil)

// NewStore ensures the artifact directory exists.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = "temp"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// SaveAnalysis writes the final analyzed batch.
func (s *Store) SaveAnalysis(batch []domain.AnalyzedArticle) (string, error) {
	name := fmt.Sprintf("final_analysis_%d.json", time.Now().Unix())
	return s.save(name, batch)
}

// SaveFactChecks writes the fact-checked batch.
func (s *Store) SaveFactChecks(batch []domain.Article) (string, error) {
	name := fmt.Sprintf("fact_checked_articles_%d.json", time.Now().Unix())
	return s.save(name, batch)
}

func (s *Store) save(name string, v any) (string, error) {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal artifact: %w", err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return path, nil
}

// analyzedRecord decodes saved analysis files tolerantly: fields absent
// from older or hand-edited artifacts get the pipeline defaults.
type analyzedRecord struct {
	URL               string                   `json:"url"`
	Title             string                   `json:"title"`
	Content           string                   `json:"content"`
	Summary           string                   `json:"summary"`
	Claims            []string                 `json:"claims"`
	FactCheckResults  []domain.FactCheckResult `json:"fact_check_results"`
	OverallFactStatus domain.FactStatus        `json:"overall_fact_status"`
	Classification    string                   `json:"classification"`
	Confidence        domain.Confidence        `json:"confidence"`
	KeyThemes         []string                 `json:"key_themes"`
	AnalysisNotes     string                   `json:"analysis_notes"`
	Sentiment         domain.Sentiment         `json:"sentiment"`
	CredibilityScore  *float64                 `json:"credibility_score"`
}

// LoadAnalysis reads a saved analysis artifact back into memory.
func (s *Store) LoadAnalysis(path string) ([]domain.AnalyzedArticle, error) {
	return LoadAnalysis(path)
}

// LoadAnalysis reads a saved analysis artifact without needing a store.
func LoadAnalysis(path string) ([]domain.AnalyzedArticle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	var records []analyzedRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse artifact: %w", err)
	}

	batch := make([]domain.AnalyzedArticle, 0, len(records))
	for _, record := range records {
		article := domain.AnalyzedArticle{
			URL:               record.URL,
			Title:             record.Title,
			Content:           record.Content,
			Summary:           record.Summary,
			Claims:            record.Claims,
			FactCheckResults:  record.FactCheckResults,
			OverallFactStatus: record.OverallFactStatus,
			Classification:    record.Classification,
			Confidence:        record.Confidence,
			KeyThemes:         record.KeyThemes,
			AnalysisNotes:     record.AnalysisNotes,
			Sentiment:         record.Sentiment,
			CredibilityScore:  0.5,
		}
		if record.CredibilityScore != nil {
			article.CredibilityScore = *record.CredibilityScore
		}
		if article.OverallFactStatus == "" {
			article.OverallFactStatus = domain.StatusUnsure
		}
		batch = append(batch, article)
	}
	return batch, nil
}
