// internal/store/sqlite/store.go
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hackfair/domare/internal/models"
	"github.com/hackfair/domare/internal/store"
)

type SQLiteStore struct {
	store.BaseStore
}

func NewSQLiteStore(dsn, migrationsDir string) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{BaseStore: store.BaseStore{
		DB: db,
		Converter: func(query string) string {
			return query
		},
	}}

	if err := s.ApplyMigrations(migrationsDir); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) ApplyMigrations(dir string) error {
	return s.BaseStore.ApplyMigrations(dir, translateToSQLite)
}

// translateToSQLite converts Postgres SQL to SQLite dialect
func translateToSQLite(sql string) string {
	replacements := []struct {
		from string
		to   string
	}{
		{"BIGSERIAL PRIMARY KEY", "INTEGER PRIMARY KEY AUTOINCREMENT"},
		{"BIGSERIAL", "INTEGER"},
		{"BIGINT", "INTEGER"},
		{"TRUE", "1"},
		{"FALSE", "0"},
		{"now()", "CURRENT_TIMESTAMP"},
		{"::float", ""},
		{"::text", ""},
	}
	result := sql
	for _, r := range replacements {
		result = strings.ReplaceAll(result, r.from, r.to)
	}
	return result
}

func (s *SQLiteStore) FetchLeaderboard(limit int) ([]models.LeaderboardRow, error) {
	query := `
		SELECT
			p.title,
			e.name AS event_name,
			AVG(r.score) AS avg_score
		FROM projects p
		JOIN events e ON p.event_id = e.id
		JOIN reviews r ON r.project_id = p.id
		GROUP BY p.id, p.title, e.name
		ORDER BY avg_score DESC
		LIMIT ?
	`

	var rows []models.LeaderboardRow
	err := s.DB.Select(&rows, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}

	return rows, nil
}

func (s *SQLiteStore) FetchAnalyticsSummary() (*models.AnalyticsSummary, error) {
	var summary models.AnalyticsSummary

	counts := map[string]*int64{
		"students": &summary.TotalStudents,
		"judges":   &summary.TotalJudges,
		"events":   &summary.TotalEvents,
		"projects": &summary.TotalProjects,
	}
	for table, dst := range counts {
		if err := s.DB.Get(dst, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
	}

	var topEvent string
	err := s.DB.Get(&topEvent, `
		SELECT e.name
		FROM events e
		JOIN projects p ON e.id = p.event_id
		GROUP BY e.id, e.name
		ORDER BY COUNT(p.id) DESC
		LIMIT 1
	`)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to fetch top event: %w", err)
	}
	if err == nil {
		summary.TopEvent = &topEvent
	}

	var topProject string
	err = s.DB.Get(&topProject, `
		SELECT p.title
		FROM projects p
		JOIN reviews r ON r.project_id = p.id
		GROUP BY p.id, p.title
		ORDER BY AVG(r.score) DESC
		LIMIT 1
	`)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to fetch top project: %w", err)
	}
	if err == nil {
		summary.TopProject = &topProject
	}

	return &summary, nil
}
