package models

import (
	"time"
)

// TokenInfo describes a judge's API token as stored in redis, including
// usage counters for the admin page.
type TokenInfo struct {
	JudgeID         string    `json:"judge_id"`
	Token           string    `json:"token"`
	RequestCount    int       `json:"request_count"`
	LastRequestTime time.Time `json:"last_request_dttm_utc"`
	CreatedTime     time.Time `json:"created_dttm_utc"`
}
