package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"factsift/internal/domain"
	"factsift/internal/ports"
)

const (
	defaultRecentArticles = 50
	defaultRecentSessions = 10
)

// SQLiteStore persists analyzed articles and run sessions into SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ ports.ArticleStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the database file and prepares the schema.
func NewSQLiteStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if path == "" {
		path = "articles.db"
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &SQLiteStore{db: db, logger: logger}
	if err := store.init(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) init() error {
	articles := `CREATE TABLE IF NOT EXISTS articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL UNIQUE,
		title TEXT,
		summary TEXT,
		classification TEXT,
		fact_myth_status TEXT,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`

	if _, err := s.db.Exec(articles); err != nil {
		return fmt.Errorf("create articles table: %w", err)
	}

	sessions := `CREATE TABLE IF NOT EXISTS analysis_sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		topic TEXT NOT NULL,
		articles_found INTEGER,
		facts_count INTEGER,
		myths_count INTEGER,
		unclear_count INTEGER,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`

	if _, err := s.db.Exec(sessions); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}

	return nil
}

// SaveArticle upserts one analyzed article keyed by URL.
func (s *SQLiteStore) SaveArticle(ctx context.Context, article domain.AnalyzedArticle) error {
	query, args, err := squirrel.Insert("articles").
		Columns("url", "title", "summary", "classification", "fact_myth_status", "created_at").
		Values(
			article.URL,
			article.Title,
			article.Summary,
			article.Classification,
			string(article.OverallFactStatus),
			time.Now().UTC().Format(time.RFC3339),
		).
		Suffix(`ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			summary = excluded.summary,
			classification = excluded.classification,
			fact_myth_status = excluded.fact_myth_status`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert article: %w", err)
	}

	return nil
}

// SaveBatch stores every article it can and reports how many made it in.
func (s *SQLiteStore) SaveBatch(ctx context.Context, batch []domain.AnalyzedArticle) int {
	saved := 0
	for _, article := range batch {
		if err := s.SaveArticle(ctx, article); err != nil {
			s.warn("could not save article", "url", article.URL, "err", err)
			continue
		}
		saved++
	}

	return saved
}

// SaveSession records one analysis run with its verdict tallies.
func (s *SQLiteStore) SaveSession(ctx context.Context, topic string, batch []domain.AnalyzedArticle) (int64, error) {
	var facts, myths, unclear int
	for _, article := range batch {
		switch article.OverallFactStatus {
		case domain.StatusFact:
			facts++
		case domain.StatusMyth:
			myths++
		default:
			unclear++
		}
	}

	query, args, err := squirrel.Insert("analysis_sessions").
		Columns("topic", "articles_found", "facts_count", "myths_count", "unclear_count", "created_at").
		Values(topic, len(batch), facts, myths, unclear, time.Now().UTC().Format(time.RFC3339)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build session insert: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("session id: %w", err)
	}

	return id, nil
}

// RecentArticles returns the newest stored articles, most recent first.
func (s *SQLiteStore) RecentArticles(ctx context.Context, limit int) ([]domain.StoredArticle, error) {
	if limit <= 0 {
		limit = defaultRecentArticles
	}

	query, args, err := selectArticles().
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent query: %w", err)
	}

	return s.queryArticles(ctx, query, args)
}

// ArticlesByTopic returns stored articles whose URL, title or summary mentions the topic.
func (s *SQLiteStore) ArticlesByTopic(ctx context.Context, topic string) ([]domain.StoredArticle, error) {
	pattern := "%" + topic + "%"

	query, args, err := selectArticles().
		Where(squirrel.Or{
			squirrel.Like{"url": pattern},
			squirrel.Like{"title": pattern},
			squirrel.Like{"summary": pattern},
		}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build topic query: %w", err)
	}

	return s.queryArticles(ctx, query, args)
}

// RecentSessions returns the newest analysis sessions, most recent first.
func (s *SQLiteStore) RecentSessions(ctx context.Context, limit int) ([]domain.AnalysisSession, error) {
	if limit <= 0 {
		limit = defaultRecentSessions
	}

	query, args, err := squirrel.Select("id", "topic", "articles_found", "facts_count", "myths_count", "unclear_count", "created_at").
		From("analysis_sessions").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sessions query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}

	var sessions []domain.AnalysisSession
	for rows.Next() {
		var session domain.AnalysisSession
		var created string
		if err := rows.Scan(&session.ID, &session.Topic, &session.ArticlesFound,
			&session.FactsCount, &session.MythsCount, &session.UnclearCount, &created); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan session: %w", err)
		}
		session.CreatedAt = parseStoredTime(created)
		sessions = append(sessions, session)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return sessions, nil
}

// Stats aggregates stored article counts by classification and verdict.
func (s *SQLiteStore) Stats(ctx context.Context) (domain.StoreStats, error) {
	stats := domain.StoreStats{}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&stats.TotalArticles); err != nil {
		return stats, fmt.Errorf("count articles: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM analysis_sessions").Scan(&stats.TotalSessions); err != nil {
		return stats, fmt.Errorf("count sessions: %w", err)
	}

	classifications, err := s.groupCounts(ctx, "classification")
	if err != nil {
		return stats, err
	}
	stats.ClassificationCounts = classifications

	statuses, err := s.groupCounts(ctx, "fact_myth_status")
	if err != nil {
		return stats, err
	}
	stats.StatusCounts = statuses

	return stats, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func selectArticles() squirrel.SelectBuilder {
	return squirrel.Select("url", "title", "summary", "classification", "fact_myth_status", "created_at").
		From("articles")
}

func (s *SQLiteStore) queryArticles(ctx context.Context, query string, args []any) ([]domain.StoredArticle, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}

	var articles []domain.StoredArticle
	for rows.Next() {
		var article domain.StoredArticle
		var created string
		if err := rows.Scan(&article.URL, &article.Title, &article.Summary,
			&article.Classification, &article.FactMythStatus, &created); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan article: %w", err)
		}
		article.CreatedAt = parseStoredTime(created)
		articles = append(articles, article)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return articles, nil
}

func (s *SQLiteStore) groupCounts(ctx context.Context, column string) (map[string]int, error) {
	query, args, err := squirrel.Select(column, "COUNT(*)").
		From("articles").
		GroupBy(column).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build group query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s counts: %w", column, err)
	}

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan %s count: %w", column, err)
		}
		counts[key] = n
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return counts, nil
}

// parseStoredTime reads timestamps written by this store (RFC3339) and the
// SQLite CURRENT_TIMESTAMP default layout.
func parseStoredTime(value string) time.Time {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", value); err == nil {
		return t.UTC()
	}
	return time.Time{}
}

func (s *SQLiteStore) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
