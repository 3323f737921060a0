package models

import (
	"github.com/go-playground/validator/v10"
)

type Event struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Date string `db:"date" json:"date"`
}

type EventRequest struct {
	Name string `json:"name" validate:"required"`
	Date string `json:"date" validate:"required"`
}

func (r *EventRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
