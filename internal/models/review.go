package models

import (
	"github.com/go-playground/validator/v10"
)

// Review is one judge's verdict on one project. The (judge_id, project_id)
// pair is unique on the DB level; resubmission overwrites score and feedback.
/*
CREATE TABLE reviews (
    judge_id TEXT NOT NULL,
    project_id BIGINT NOT NULL,
    score INTEGER NOT NULL,
    feedback TEXT NOT NULL DEFAULT '',
    CONSTRAINT reviews_pkey PRIMARY KEY (judge_id, project_id)
);
*/
type Review struct {
	JudgeID   string `db:"judge_id" json:"judge_id"`
	ProjectID int64  `db:"project_id" json:"project_id"`
	Score     int    `db:"score" json:"score"`
	Feedback  string `db:"feedback" json:"feedback"`
}

type SubmitReviewRequest struct {
	JudgeID   string `json:"judgeId" validate:"required"`
	ProjectID int64  `json:"projectId" validate:"required"`
	Score     int    `json:"score"`
	Feedback  string `json:"feedback"`
}

func (r *SubmitReviewRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// LeaderboardRow is one leaderboard entry: mean review score per project,
// zero-review projects never appear.
type LeaderboardRow struct {
	Title     string  `db:"title" json:"title"`
	EventName string  `db:"event_name" json:"event_name"`
	AvgScore  float64 `db:"avg_score" json:"avg_score"`
}

// AnalyticsSummary is the admin dashboard payload. TopEvent and TopProject
// are null when no event has projects / no project has reviews.
type AnalyticsSummary struct {
	TotalStudents int64   `json:"totalStudents"`
	TotalJudges   int64   `json:"totalJudges"`
	TotalEvents   int64   `json:"totalEvents"`
	TotalProjects int64   `json:"totalProjects"`
	TopEvent      *string `json:"topEvent"`
	TopProject    *string `json:"topProject"`
}
