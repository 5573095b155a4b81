package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS articles (
	id              TEXT PRIMARY KEY,
	url             TEXT UNIQUE NOT NULL,
	title           TEXT NOT NULL,
	source          TEXT NOT NULL,
	author          TEXT,
	summary         TEXT,
	neutral_summary TEXT,
	published_at    TEXT,
	crawled_at      TEXT NOT NULL,
	score           INTEGER
);

CREATE TABLE IF NOT EXISTS article_ratings (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	article_id  TEXT NOT NULL REFERENCES articles(id),
	rating      TEXT NOT NULL CHECK(rating IN ('up', 'down', 'neutral')),
	created_at  TEXT NOT NULL,
	UNIQUE(article_id)
);

CREATE TABLE IF NOT EXISTS user_preferences (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	category     TEXT NOT NULL CHECK(category IN ('source', 'theme', 'type', 'insight')),
	key          TEXT NOT NULL,
	weight       REAL NOT NULL CHECK(weight BETWEEN -1.0 AND 1.0),
	sample_count INTEGER NOT NULL DEFAULT 1,
	updated_at   TEXT NOT NULL,
	UNIQUE(category, key)
);

CREATE TABLE IF NOT EXISTS digests (
	id            TEXT PRIMARY KEY,
	created_at    TEXT NOT NULL,
	content       TEXT NOT NULL,
	article_count INTEGER,
	emailed_at    TEXT
);

CREATE TABLE IF NOT EXISTS learning_log (
	event_id           TEXT PRIMARY KEY,
	article_id         TEXT NOT NULL,
	rating             TEXT NOT NULL,
	category           TEXT NOT NULL,
	key                TEXT NOT NULL,
	delta              REAL NOT NULL,
	weight_after       REAL NOT NULL,
	sample_count_after INTEGER NOT NULL,
	created_at         TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_articles_crawled_at ON articles(crawled_at);
CREATE INDEX IF NOT EXISTS idx_articles_source ON articles(source);
CREATE INDEX IF NOT EXISTS idx_ratings_article ON article_ratings(article_id);
CREATE INDEX IF NOT EXISTS idx_preferences_lookup ON user_preferences(category, key);
CREATE INDEX IF NOT EXISTS idx_learning_log_article ON learning_log(article_id);
`

// #endregion schema

// #region store-struct
// Store manages articles, ratings, preferences, and digests in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion db-accessor

// #region save-articles
// SaveArticles inserts articles, skipping duplicate URLs.
// Returns the number of newly stored articles.
func (s *Store) SaveArticles(articles []Article) (int, error) {
	saved := 0
	for _, a := range articles {
		id := a.ID
		if id == "" {
			id = uuid.New().String()
		}
		crawledAt := a.CrawledAt
		if crawledAt.IsZero() {
			crawledAt = time.Now().UTC()
		}
		res, err := s.db.Exec(
			`INSERT INTO articles (id, url, title, source, author, summary, published_at, crawled_at, score)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(url) DO NOTHING`,
			id,
			a.URL,
			a.Title,
			a.Source,
			nullIfEmpty(a.Author),
			nullIfEmpty(a.Summary),
			nullIfEmpty(a.PublishedAt),
			crawledAt.Format(time.RFC3339Nano),
			nullIfZero(a.Score),
		)
		if err != nil {
			return saved, fmt.Errorf("save article %s: %w", a.URL, err)
		}
		n, _ := res.RowsAffected()
		saved += int(n)
	}
	return saved, nil
}

// #endregion save-articles

// #region get-article
// GetArticleByID loads a single article. Returns sql.ErrNoRows when absent.
func (s *Store) GetArticleByID(id string) (Article, error) {
	row := s.db.QueryRow(
		`SELECT id, url, title, source, author, summary, neutral_summary, published_at, crawled_at, score
		 FROM articles WHERE id = ?`, id)
	return scanArticle(row)
}

// #endregion get-article

// #region articles-since
// GetArticlesSince returns articles crawled at or after the given time,
// best score first. Pass source = "" for all sources.
func (s *Store) GetArticlesSince(since time.Time, source string) ([]Article, error) {
	query := `SELECT id, url, title, source, author, summary, neutral_summary, published_at, crawled_at, score
		 FROM articles WHERE crawled_at >= ?`
	args := []interface{}{since.Format(time.RFC3339Nano)}
	if source != "" {
		query += " AND source = ?"
		args = append(args, source)
	}
	query += " ORDER BY score DESC NULLS LAST, crawled_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()
	return collectArticles(rows)
}

// #endregion articles-since

// #region unrated
// GetUnratedArticles returns articles crawled since the given time that have
// no rating yet, best score first.
func (s *Store) GetUnratedArticles(since time.Time) ([]Article, error) {
	rows, err := s.db.Query(
		`SELECT a.id, a.url, a.title, a.source, a.author, a.summary, a.neutral_summary, a.published_at, a.crawled_at, a.score
		 FROM articles a
		 LEFT JOIN article_ratings r ON a.id = r.article_id
		 WHERE a.crawled_at >= ? AND r.id IS NULL
		 ORDER BY a.score DESC NULLS LAST, a.crawled_at DESC`,
		since.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("query unrated: %w", err)
	}
	defer rows.Close()
	return collectArticles(rows)
}

// #endregion unrated

// #region rated
// GetRatedArticles returns rated articles, most recently rated first.
// A zero since returns all of them.
func (s *Store) GetRatedArticles(since time.Time) ([]RatedArticle, error) {
	query := `SELECT a.id, a.url, a.title, a.source, a.author, a.summary, a.neutral_summary, a.published_at, a.crawled_at, a.score,
			r.rating, r.created_at
		 FROM articles a
		 JOIN article_ratings r ON a.id = r.article_id`
	args := []interface{}{}
	if !since.IsZero() {
		query += " WHERE a.crawled_at >= ?"
		args = append(args, since.Format(time.RFC3339Nano))
	}
	query += " ORDER BY r.created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rated: %w", err)
	}
	defer rows.Close()

	var out []RatedArticle
	for rows.Next() {
		var ra RatedArticle
		var author, summary, neutral, published sql.NullString
		var score sql.NullInt64
		var crawledAt, rating, ratedAt string
		err := rows.Scan(&ra.ID, &ra.URL, &ra.Title, &ra.Source, &author, &summary, &neutral,
			&published, &crawledAt, &score, &rating, &ratedAt)
		if err != nil {
			return nil, fmt.Errorf("scan rated: %w", err)
		}
		ra.Author = author.String
		ra.Summary = summary.String
		ra.NeutralSummary = neutral.String
		ra.PublishedAt = published.String
		ra.CrawledAt, _ = time.Parse(time.RFC3339Nano, crawledAt)
		ra.Score = score.Int64
		ra.Rating = Rating(rating)
		ra.RatedAt, _ = time.Parse(time.RFC3339Nano, ratedAt)
		out = append(out, ra)
	}
	return out, rows.Err()
}

// #endregion rated

// #region missing-summary
// GetArticlesMissingSummary returns articles crawled since the given time
// that have no neutral summary yet, newest first, capped at limit.
func (s *Store) GetArticlesMissingSummary(since time.Time, limit int) ([]Article, error) {
	rows, err := s.db.Query(
		`SELECT id, url, title, source, author, summary, neutral_summary, published_at, crawled_at, score
		 FROM articles
		 WHERE crawled_at >= ? AND (neutral_summary IS NULL OR neutral_summary = '')
		 ORDER BY crawled_at DESC LIMIT ?`,
		since.Format(time.RFC3339Nano), limit)
	if err != nil {
		return nil, fmt.Errorf("query missing summaries: %w", err)
	}
	defer rows.Close()
	return collectArticles(rows)
}

// #endregion missing-summary

// #region neutral-summary
// SetNeutralSummary fills in the derived summary for an article.
func (s *Store) SetNeutralSummary(articleID, summary string) error {
	_, err := s.db.Exec(
		"UPDATE articles SET neutral_summary = ? WHERE id = ?", summary, articleID)
	if err != nil {
		return fmt.Errorf("set neutral summary: %w", err)
	}
	return nil
}

// #endregion neutral-summary

// #region save-rating
// SaveRating upserts the rating for an article. Last write wins; the
// conflict clause makes the ordering guarantee SQLite's, not ours.
func (s *Store) SaveRating(articleID string, rating Rating) error {
	if _, ok := ParseRating(string(rating)); !ok {
		return fmt.Errorf("invalid rating: %q", rating)
	}
	_, err := s.db.Exec(
		`INSERT INTO article_ratings (article_id, rating, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(article_id) DO UPDATE SET rating = excluded.rating, created_at = excluded.created_at`,
		articleID, string(rating), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save rating: %w", err)
	}
	return nil
}

// #endregion save-rating

// #region get-rating
// GetRating returns the rating for an article, or ok=false when unrated.
func (s *Store) GetRating(articleID string) (Rating, bool, error) {
	var rating string
	err := s.db.QueryRow(
		"SELECT rating FROM article_ratings WHERE article_id = ?", articleID).Scan(&rating)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get rating: %w", err)
	}
	return Rating(rating), true, nil
}

// #endregion get-rating

// #region scan-helpers

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row rowScanner) (Article, error) {
	var a Article
	var author, summary, neutral, published sql.NullString
	var score sql.NullInt64
	var crawledAt string
	err := row.Scan(&a.ID, &a.URL, &a.Title, &a.Source, &author, &summary, &neutral,
		&published, &crawledAt, &score)
	if err != nil {
		return Article{}, err
	}
	a.Author = author.String
	a.Summary = summary.String
	a.NeutralSummary = neutral.String
	a.PublishedAt = published.String
	a.CrawledAt, _ = time.Parse(time.RFC3339Nano, crawledAt)
	a.Score = score.Int64
	return a, nil
}

func collectArticles(rows *sql.Rows) ([]Article, error) {
	var out []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullIfZero(n int64) interface{} {
	if n == 0 {
		return nil
	}
	return n
}

// #endregion scan-helpers
