package models

import (
	"github.com/go-playground/validator/v10"
)

type Project struct {
	ID          int64  `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	EventID     int64  `db:"event_id" json:"event_id"`
	UserID      int64  `db:"user_id" json:"user_id"`
}

// ProjectDetail is a project joined with its event name, used by the
// single-project view.
type ProjectDetail struct {
	Project
	EventName string `db:"event_name" json:"event_name"`
}

// ProjectWithReviews embeds the reviews submitted for a project, used when
// assembling a student's feedback view.
type ProjectWithReviews struct {
	Project
	Reviews []Review `json:"reviews"`
}

type CreateProjectRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	EventID     int64  `json:"event_id" validate:"required"`
	UserID      int64  `json:"user_id" validate:"required"`
}

func (r *CreateProjectRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
