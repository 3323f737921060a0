package models

import (
	"github.com/go-playground/validator/v10"
)

type Judge struct {
	ID       string `db:"id" json:"id"`
	Password string `db:"password" json:"-"`
}

type CreateJudgeRequest struct {
	ID       string `json:"id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type JudgeLoginRequest struct {
	ID       string `json:"id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateJudgeRequest carries an optional password. When it is empty the
// update is a no-op: the id is never rewritten.
type UpdateJudgeRequest struct {
	ID       string `json:"id" validate:"required"`
	Password string `json:"password"`
}

type AssignJudgeRequest struct {
	JudgeID string `json:"judgeId" validate:"required"`
	EventID int64  `json:"eventId" validate:"required"`
}

func (r *CreateJudgeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

func (r *JudgeLoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

func (r *UpdateJudgeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

func (r *AssignJudgeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
