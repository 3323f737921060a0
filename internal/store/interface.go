package store

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/hackfair/domare/internal/models"
)

type JudgingStore interface {
	Close() error
	ApplyMigrations(dir string) error

	CreateStudent(name, email, passwordHash string) error
	GetStudentByEmail(email string) (*models.Student, error)
	UpdateStudent(id int64, name string, passwordHash *string) error

	CreateJudge(id, passwordHash string) error
	GetJudge(id string) (*models.Judge, error)
	ListJudgeIDs() ([]string, error)
	UpdateJudgePassword(id, passwordHash string) error
	DeleteJudge(id string, cascade bool) error

	ListEvents() ([]models.Event, error)
	CreateEvent(name, date string) error
	UpdateEvent(id int64, name, date string) error
	DeleteEvent(id int64) error
	ListEventsForJudge(judgeID string) ([]models.Event, error)

	AssignJudge(judgeID string, eventID int64) error

	ListProjects() ([]models.Project, error)
	ListProjectsByEvent(eventID int64) ([]models.Project, error)
	ListProjectsByStudent(studentID int64) ([]models.Project, error)
	GetProjectDetail(id int64) (*models.ProjectDetail, error)
	CreateProject(title, description string, eventID, userID int64) error
	DeleteProject(id int64) error

	UpsertReview(review *models.Review) error
	ListReviewsForProject(projectID int64) ([]models.Review, error)
	ListReviewsForProjects(projectIDs []int64) (map[int64][]models.Review, error)

	FetchLeaderboard(limit int) ([]models.LeaderboardRow, error)
	FetchAnalyticsSummary() (*models.AnalyticsSummary, error)
}

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from a directory, translating dialect if needed
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(fmt.Sprintf("%s/%s", dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

func (s *BaseStore) CreateStudent(name, email, passwordHash string) error {
	query := s.Converter(`
		INSERT INTO students (name, email, password)
		VALUES (?, ?, ?)
	`)
	if _, err := s.DB.Exec(query, name, email, passwordHash); err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

func (s *BaseStore) GetStudentByEmail(email string) (*models.Student, error) {
	var student models.Student
	query := s.Converter(`
		SELECT id, name, email, password
		FROM students
		WHERE email = ?
	`)

	err := s.DB.Get(&student, query, email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student by email: %w", err)
	}
	return &student, nil
}

// UpdateStudent changes the name, and the password hash only when one is
// supplied, in a single statement.
func (s *BaseStore) UpdateStudent(id int64, name string, passwordHash *string) error {
	var err error
	if passwordHash != nil {
		query := s.Converter(`UPDATE students SET name = ?, password = ? WHERE id = ?`)
		_, err = s.DB.Exec(query, name, *passwordHash, id)
	} else {
		query := s.Converter(`UPDATE students SET name = ? WHERE id = ?`)
		_, err = s.DB.Exec(query, name, id)
	}
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	return nil
}

func (s *BaseStore) CreateJudge(id, passwordHash string) error {
	query := s.Converter(`INSERT INTO judges (id, password) VALUES (?, ?)`)
	if _, err := s.DB.Exec(query, id, passwordHash); err != nil {
		return fmt.Errorf("failed to create judge: %w", err)
	}
	return nil
}

func (s *BaseStore) GetJudge(id string) (*models.Judge, error) {
	var judge models.Judge
	query := s.Converter(`SELECT id, password FROM judges WHERE id = ?`)

	err := s.DB.Get(&judge, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get judge: %w", err)
	}
	return &judge, nil
}

func (s *BaseStore) ListJudgeIDs() ([]string, error) {
	var ids []string
	err := s.DB.Select(&ids, `SELECT id FROM judges ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list judges: %w", err)
	}
	return ids, nil
}

func (s *BaseStore) UpdateJudgePassword(id, passwordHash string) error {
	query := s.Converter(`UPDATE judges SET password = ? WHERE id = ?`)
	if _, err := s.DB.Exec(query, passwordHash, id); err != nil {
		return fmt.Errorf("failed to update judge password: %w", err)
	}
	return nil
}

// DeleteJudge removes the credential row. With cascade it also drops the
// judge's assignments and reviews in the same transaction; otherwise they
// stay behind as history.
func (s *BaseStore) DeleteJudge(id string, cascade bool) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin judge deletion: %w", err)
	}
	defer tx.Rollback()

	if cascade {
		if _, err := tx.Exec(s.Converter(`DELETE FROM reviews WHERE judge_id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete judge reviews: %w", err)
		}
		if _, err := tx.Exec(s.Converter(`DELETE FROM judge_event WHERE judge_id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete judge assignments: %w", err)
		}
	}

	if _, err := tx.Exec(s.Converter(`DELETE FROM judges WHERE id = ?`), id); err != nil {
		return fmt.Errorf("failed to delete judge: %w", err)
	}

	return tx.Commit()
}

func (s *BaseStore) ListEvents() ([]models.Event, error) {
	var events []models.Event
	err := s.DB.Select(&events, `
		SELECT id, name, date
		FROM events
		ORDER BY date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *BaseStore) CreateEvent(name, date string) error {
	query := s.Converter(`INSERT INTO events (name, date) VALUES (?, ?)`)
	if _, err := s.DB.Exec(query, name, date); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (s *BaseStore) UpdateEvent(id int64, name, date string) error {
	query := s.Converter(`UPDATE events SET name = ?, date = ? WHERE id = ?`)
	if _, err := s.DB.Exec(query, name, date, id); err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

func (s *BaseStore) DeleteEvent(id int64) error {
	query := s.Converter(`DELETE FROM events WHERE id = ?`)
	if _, err := s.DB.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

func (s *BaseStore) ListEventsForJudge(judgeID string) ([]models.Event, error) {
	var events []models.Event
	query := s.Converter(`
		SELECT e.id, e.name, e.date
		FROM events e
		JOIN judge_event je ON e.id = je.event_id
		WHERE je.judge_id = ?
	`)

	err := s.DB.Select(&events, query, judgeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for judge: %w", err)
	}
	return events, nil
}

// AssignJudge is idempotent: assigning the same pair twice leaves exactly one
// row and no error.
func (s *BaseStore) AssignJudge(judgeID string, eventID int64) error {
	query := s.Converter(`
		INSERT INTO judge_event (judge_id, event_id)
		VALUES (?, ?)
		ON CONFLICT(judge_id, event_id) DO NOTHING
	`)
	if _, err := s.DB.Exec(query, judgeID, eventID); err != nil {
		return fmt.Errorf("failed to assign judge: %w", err)
	}
	return nil
}

func (s *BaseStore) ListProjects() ([]models.Project, error) {
	var projects []models.Project
	err := s.DB.Select(&projects, `
		SELECT id, title, description, event_id, user_id
		FROM projects
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

func (s *BaseStore) ListProjectsByEvent(eventID int64) ([]models.Project, error) {
	var projects []models.Project
	query := s.Converter(`
		SELECT id, title, description, event_id, user_id
		FROM projects
		WHERE event_id = ?
		ORDER BY id
	`)

	err := s.DB.Select(&projects, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects for event: %w", err)
	}
	return projects, nil
}

func (s *BaseStore) ListProjectsByStudent(studentID int64) ([]models.Project, error) {
	var projects []models.Project
	query := s.Converter(`
		SELECT id, title, description, event_id, user_id
		FROM projects
		WHERE user_id = ?
		ORDER BY id
	`)

	err := s.DB.Select(&projects, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects for student: %w", err)
	}
	return projects, nil
}

func (s *BaseStore) GetProjectDetail(id int64) (*models.ProjectDetail, error) {
	var detail models.ProjectDetail
	query := s.Converter(`
		SELECT p.id, p.title, p.description, p.event_id, p.user_id, e.name AS event_name
		FROM projects p
		JOIN events e ON p.event_id = e.id
		WHERE p.id = ?
	`)

	err := s.DB.Get(&detail, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project detail: %w", err)
	}
	return &detail, nil
}

func (s *BaseStore) CreateProject(title, description string, eventID, userID int64) error {
	query := s.Converter(`
		INSERT INTO projects (title, description, event_id, user_id)
		VALUES (?, ?, ?, ?)
	`)
	if _, err := s.DB.Exec(query, title, description, eventID, userID); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (s *BaseStore) DeleteProject(id int64) error {
	query := s.Converter(`DELETE FROM projects WHERE id = ?`)
	if _, err := s.DB.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// UpsertReview inserts the review or, when the (judge_id, project_id) pair
// already exists, overwrites score and feedback. The conflict clause makes
// concurrent submissions for the same pair collapse into a single row.
func (s *BaseStore) UpsertReview(review *models.Review) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO reviews (judge_id, project_id, score, feedback)
		VALUES (:judge_id, :project_id, :score, :feedback)
		ON CONFLICT(judge_id, project_id) DO UPDATE SET
		score = :score,
		feedback = :feedback
	`, review)
	if err != nil {
		return fmt.Errorf("failed to upsert review: %w", err)
	}
	return nil
}

func (s *BaseStore) ListReviewsForProject(projectID int64) ([]models.Review, error) {
	var reviews []models.Review
	query := s.Converter(`
		SELECT judge_id, project_id, score, feedback
		FROM reviews
		WHERE project_id = ?
		ORDER BY judge_id
	`)

	err := s.DB.Select(&reviews, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for project: %w", err)
	}
	return reviews, nil
}

// ListReviewsForProjects groups reviews by project id. An empty input
// short-circuits without touching the database.
func (s *BaseStore) ListReviewsForProjects(projectIDs []int64) (map[int64][]models.Review, error) {
	grouped := make(map[int64][]models.Review)
	if len(projectIDs) == 0 {
		return grouped, nil
	}

	query, args, err := sqlx.In(`
		SELECT judge_id, project_id, score, feedback
		FROM reviews
		WHERE project_id IN (?)
		ORDER BY project_id, judge_id
	`, projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to expand review query: %w", err)
	}

	var reviews []models.Review
	if err := s.DB.Select(&reviews, s.Converter(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list reviews for projects: %w", err)
	}

	for _, r := range reviews {
		grouped[r.ProjectID] = append(grouped[r.ProjectID], r)
	}
	return grouped, nil
}
