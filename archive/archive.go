// Package archive persists fetched editions in SQLite so downstream
// tooling can render or diff past runs.
package archive

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/printfeed/printfeed/edition"
)

// ErrEditionNotFound is returned when an edition ID has no row.
var ErrEditionNotFound = errors.New("edition not found")

// Store manages the edition archive using SQLite.
type Store struct {
	db *sql.DB
}

// EditionSummary describes one archived edition.
type EditionSummary struct {
	EditionID    uuid.UUID `json:"edition_id"`
	FetchedAt    time.Time `json:"fetched_at"`
	CoverURL     string    `json:"cover_url,omitempty"`
	TimeFmt      string    `json:"time_fmt"`
	ArticleCount int       `json:"article_count"`
}

// StoredArticle is an archived article with its section and position
// within the edition.
type StoredArticle struct {
	ArticleID uuid.UUID `json:"article_id"`
	Section   string    `json:"section"`
	Position  int       `json:"position"`
	edition.Article
}

// Open opens (or creates) the archive at the given database path.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the archive tables if they don't exist. The
// UNIQUE(edition_id, url) constraint enforces duplicate-URL
// suppression across sections within one edition.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS editions (
		edition_id TEXT PRIMARY KEY,
		fetched_at TEXT NOT NULL,
		cover_url TEXT,
		time_fmt TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS articles (
		article_id TEXT PRIMARY KEY,
		edition_id TEXT NOT NULL REFERENCES editions(edition_id),
		section TEXT NOT NULL,
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		description TEXT,
		date TEXT,
		UNIQUE(edition_id, url)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveResult archives one recipe run and returns its edition ID.
// Articles whose URL already appears in the edition are silently
// dropped, first occurrence wins.
func (s *Store) SaveResult(res *edition.Result) (uuid.UUID, error) {
	editionID := uuid.New()

	tx, err := s.db.Begin()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	_, err = tx.Exec(
		"INSERT INTO editions (edition_id, fetched_at, cover_url, time_fmt) VALUES (?, ?, ?, ?)",
		editionID.String(), formatTime(now), res.CoverURL, res.TimeFmt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert edition: %w", err)
	}

	position := 0
	for _, feed := range res.Feeds {
		for _, art := range feed.Articles {
			_, err := tx.Exec(
				`INSERT OR IGNORE INTO articles
				 (article_id, edition_id, section, position, title, url, description, date)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				uuid.New().String(), editionID.String(), feed.Title, position,
				art.Title, art.URL, art.Description, art.Date,
			)
			if err != nil {
				return uuid.Nil, fmt.Errorf("failed to insert article: %w", err)
			}
			position++
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit: %w", err)
	}

	return editionID, nil
}

// ListEditions lists archived editions, most recent first.
func (s *Store) ListEditions() ([]EditionSummary, error) {
	query := `
		SELECT e.edition_id, e.fetched_at, e.cover_url, e.time_fmt,
		       (SELECT COUNT(*) FROM articles a WHERE a.edition_id = e.edition_id)
		FROM editions e
		ORDER BY e.fetched_at DESC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query editions: %w", err)
	}
	defer rows.Close()

	var editions []EditionSummary
	for rows.Next() {
		var idStr, fetchedAtStr, timeFmt string
		var coverURL sql.NullString
		var count int

		if err := rows.Scan(&idStr, &fetchedAtStr, &coverURL, &timeFmt, &count); err != nil {
			return nil, fmt.Errorf("failed to scan edition: %w", err)
		}

		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse edition ID: %w", err)
		}

		summary := EditionSummary{
			EditionID:    id,
			FetchedAt:    parseTime(fetchedAtStr),
			TimeFmt:      timeFmt,
			ArticleCount: count,
		}
		if coverURL.Valid {
			summary.CoverURL = coverURL.String
		}
		editions = append(editions, summary)
	}

	return editions, rows.Err()
}

// Articles returns an edition's archived articles in edition order.
func (s *Store) Articles(editionID uuid.UUID) ([]StoredArticle, error) {
	var exists int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM editions WHERE edition_id = ?", editionID.String(),
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to query edition: %w", err)
	}
	if exists == 0 {
		return nil, ErrEditionNotFound
	}

	query := `
		SELECT article_id, section, position, title, url, description, date
		FROM articles
		WHERE edition_id = ?
		ORDER BY position
	`

	rows, err := s.db.Query(query, editionID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var articles []StoredArticle
	for rows.Next() {
		var idStr, section, title, url string
		var position int
		var description, date sql.NullString

		if err := rows.Scan(&idStr, &section, &position, &title, &url, &description, &date); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}

		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse article ID: %w", err)
		}

		art := StoredArticle{
			ArticleID: id,
			Section:   section,
			Position:  position,
			Article: edition.Article{
				Title: title,
				URL:   url,
			},
		}
		if description.Valid {
			art.Description = description.String
		}
		if date.Valid {
			art.Date = date.String
		}
		articles = append(articles, art)
	}

	return articles, rows.Err()
}

// Helper functions for time formatting.
func formatTime(t time.Time) string {
	// Strip monotonic clock for consistent storage and comparisons
	return t.Truncate(0).Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t.Truncate(0)
}
