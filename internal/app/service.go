package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shrimpsizemoose/trekker/logger"
	"golang.org/x/crypto/bcrypt"

	"github.com/hackfair/domare/internal/models"
	"github.com/hackfair/domare/internal/scoring"
	"github.com/hackfair/domare/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrJudgeExists        = errors.New("judge already exists")
)

// Matches the work factor the rest of the tooling around this service expects.
const bcryptCost = 10

type Service struct {
	Config *Config
	Store  store.JudgingStore
	Auth   *Auth
	Tokens *TokenManager
	Scores scoring.Policy
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := NewStore(config.Database.DSN, config.Database.MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	auth, err := NewAuth(config)
	if err != nil {
		return nil, fmt.Errorf("failed to init auth: %w", err)
	}

	var tokens *TokenManager
	if auth.Redis() != nil {
		tokens = NewTokenManager(auth.Redis(), config.Auth.TokenKeyTemplate)
	}

	return &Service{
		Config: config,
		Store:  store,
		Auth:   auth,
		Tokens: tokens,
		Scores: scoring.Policy{
			EnforceRange: config.Scoring.EnforceRange,
			MinScore:     config.Scoring.MinScore,
			MaxScore:     config.Scoring.MaxScore,
		},
	}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *Service) RegisterStudent(name, email, password string) error {
	existing, err := s.Store.GetStudentByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return ErrDuplicateEmail
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	return s.Store.CreateStudent(name, email, hash)
}

// LoginStudent fails identically for an unknown email and a wrong password,
// so the response never reveals which one it was.
func (s *Service) LoginStudent(email, password string) (*models.StudentProfile, error) {
	student, err := s.Store.GetStudentByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up student: %w", err)
	}
	if student == nil {
		return nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(student.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	name := student.Name
	if name == "" {
		name = "Student"
	}

	return &models.StudentProfile{
		ID:    student.ID,
		Email: student.Email,
		Name:  name,
	}, nil
}

func (s *Service) UpdateStudentProfile(id int64, name, password string) error {
	var hashPtr *string
	if password != "" {
		hash, err := hashPassword(password)
		if err != nil {
			return err
		}
		hashPtr = &hash
	}

	return s.Store.UpdateStudent(id, name, hashPtr)
}

func (s *Service) CreateJudge(id, password string) error {
	existing, err := s.Store.GetJudge(id)
	if err != nil {
		return fmt.Errorf("failed to check judge: %w", err)
	}
	if existing != nil {
		return ErrJudgeExists
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	return s.Store.CreateJudge(id, hash)
}

// UpdateJudgePassword is a no-op when no password is supplied; the judge id
// is never rewritten either way.
func (s *Service) UpdateJudgePassword(id, password string) error {
	if password == "" {
		return nil
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	return s.Store.UpdateJudgePassword(id, hash)
}

// LoginJudge verifies the credentials and, when auth is enabled, returns the
// judge's API token (minting one on first login).
func (s *Service) LoginJudge(ctx context.Context, id, password string) (*models.TokenInfo, error) {
	judge, err := s.Store.GetJudge(id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up judge: %w", err)
	}
	if judge == nil {
		return nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(judge.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if s.Tokens == nil {
		return &models.TokenInfo{JudgeID: id}, nil
	}

	info, isNew, err := s.Tokens.FetchOrCreateJudgeToken(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	if isNew {
		logger.Info.Printf("Issued new token for judge %s", id)
	}
	return info, nil
}

func (s *Service) DeleteJudge(ctx context.Context, id string) error {
	cascade := s.Config.Retention.JudgeDeletePolicy == JudgeDeletePolicyCascade
	if err := s.Store.DeleteJudge(id, cascade); err != nil {
		return err
	}

	if s.Tokens != nil {
		if err := s.Tokens.RevokeJudgeToken(ctx, id); err != nil {
			logger.Debug.Printf("Failed to revoke token for judge %s: %v", id, err)
		}
	}
	return nil
}

// StudentProjects assembles a student's projects with their reviews embedded.
func (s *Service) StudentProjects(studentID int64) ([]models.ProjectWithReviews, error) {
	projects, err := s.Store.ListProjectsByStudent(studentID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}

	reviews, err := s.Store.ListReviewsForProjects(ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.ProjectWithReviews, 0, len(projects))
	for _, p := range projects {
		withReviews := models.ProjectWithReviews{Project: p, Reviews: reviews[p.ID]}
		if withReviews.Reviews == nil {
			withReviews.Reviews = []models.Review{}
		}
		out = append(out, withReviews)
	}
	return out, nil
}

// ProjectDetail returns the project joined with its event name plus all its
// reviews, or (nil, nil, nil) when the project does not exist.
func (s *Service) ProjectDetail(id int64) (*models.ProjectDetail, []models.Review, error) {
	detail, err := s.Store.GetProjectDetail(id)
	if err != nil {
		return nil, nil, err
	}
	if detail == nil {
		return nil, nil, nil
	}

	reviews, err := s.Store.ListReviewsForProject(id)
	if err != nil {
		return nil, nil, err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return detail, reviews, nil
}

func (s *Service) Leaderboard() ([]models.LeaderboardRow, error) {
	return s.Store.FetchLeaderboard(s.Config.Leaderboard.Limit)
}

func (s *Service) bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get(s.Config.Auth.TokenHeader)
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", fmt.Errorf("invalid authorization header format")
	}
	return strings.TrimPrefix(authHeader, "Bearer "), nil
}

func (s *Service) ValidateAdminAuth(r *http.Request) error {
	if !s.Config.Server.EnableAuth {
		return nil
	}

	token, err := s.bearerToken(r)
	if err != nil {
		return err
	}
	return s.Auth.ValidateAdminToken(r.Context(), token)
}

func (s *Service) ValidateJudgeAuth(r *http.Request, judgeID string) error {
	if !s.Config.Server.EnableAuth {
		return nil
	}

	token, err := s.bearerToken(r)
	if err != nil {
		return err
	}
	return s.Auth.ValidateJudgeToken(r.Context(), judgeID, token)
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Auth.Close(); err != nil {
		errs = append(errs, fmt.Errorf("auth: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
