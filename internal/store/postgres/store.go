package postgres

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/hackfair/domare/internal/models"
	"github.com/hackfair/domare/internal/store"
)

type PostgresStore struct {
	store.BaseStore
}

func NewPostgresStore(dsn, migrationsDir string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &PostgresStore{BaseStore: store.BaseStore{
		DB: db,
		Converter: func(query string) string {
			out := query
			for i := 1; strings.Contains(out, "?"); i++ {
				out = strings.Replace(out, "?", fmt.Sprintf("$%d", i), 1)
			}
			return out
		},
	}}

	if err := s.ApplyMigrations(migrationsDir); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return s, nil
}

func (s *PostgresStore) ApplyMigrations(dir string) error {
	return s.BaseStore.ApplyMigrations(dir, nil)
}

func (s *PostgresStore) FetchLeaderboard(limit int) ([]models.LeaderboardRow, error) {
	query := `
        SELECT
            p.title,
            e.name AS event_name,
            AVG(r.score)::float AS avg_score
        FROM projects p
        JOIN events e ON p.event_id = e.id
        JOIN reviews r ON r.project_id = p.id
        GROUP BY p.id, p.title, e.name
        ORDER BY avg_score DESC
        LIMIT $1
    `

	var rows []models.LeaderboardRow
	err := s.DB.Select(&rows, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}

	return rows, nil
}

func (s *PostgresStore) FetchAnalyticsSummary() (*models.AnalyticsSummary, error) {
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
