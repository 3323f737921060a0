package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hackfair/domare/internal/models"
)

const (
	timeFormat  = "2006-01-02 15:04:05"
	tokenPrefix = "sk-domare-"
)

// TokenManager hands out and tracks judge API tokens in redis. One hash per
// judge, keyed by the configured template.
type TokenManager struct {
	redis       *redis.Client
	keyTemplate string
}

func NewTokenManager(redis *redis.Client, keyTemplate string) *TokenManager {
	return &TokenManager{redis: redis, keyTemplate: keyTemplate}
}

func generateToken() (string, error) {
	randomBytes := make([]byte, 12)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return tokenPrefix + hex.EncodeToString(randomBytes), nil
}

func (tm *TokenManager) judgeKey(judgeID string) string {
	return strings.NewReplacer("{judge}", judgeID).Replace(tm.keyTemplate)
}

// FetchOrCreateJudgeToken returns the judge's token, minting one on first
// login, and bumps the request counters either way.
func (tm *TokenManager) FetchOrCreateJudgeToken(ctx context.Context, judgeID string) (*models.TokenInfo, bool, error) {
	key := tm.judgeKey(judgeID)

	token, err := tm.redis.HGet(ctx, key, "token").Result()
	if err != nil && err != redis.Nil {
		return nil, false, fmt.Errorf("failed to check token: %w", err)
	}

	now := time.Now().UTC()
	isNewToken := false

	if err == redis.Nil {
		token, err = generateToken()
		if err != nil {
			return nil, false, fmt.Errorf("failed to generate token: %w", err)
		}

		pipe := tm.redis.Pipeline()
		pipe.HSet(ctx, key, map[string]interface{}{
			"token":                 token,
			"request_count":         1,
			"last_request_dttm_utc": now.Format(timeFormat),
			"created_dttm_utc":      now.Format(timeFormat),
		})

		if _, err := pipe.Exec(ctx); err != nil {
			return nil, false, fmt.Errorf("failed to create token: %w", err)
		}

		isNewToken = true
	} else {
		pipe := tm.redis.Pipeline()
		pipe.HIncrBy(ctx, key, "request_count", 1)
		pipe.HSet(ctx, key, "last_request_dttm_utc", now.Format(timeFormat))

		if _, err := pipe.Exec(ctx); err != nil {
			return nil, false, fmt.Errorf("failed to update token stats: %w", err)
		}
	}

	values, err := tm.redis.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get token info: %w", err)
	}

	lastReqTime, _ := time.Parse(timeFormat, values["last_request_dttm_utc"])
	createdTime, _ := time.Parse(timeFormat, values["created_dttm_utc"])
	reqCount, _ := strconv.Atoi(values["request_count"])

	return &models.TokenInfo{
		JudgeID:         judgeID,
		Token:           values["token"],
		RequestCount:    reqCount,
		LastRequestTime: lastReqTime,
		CreatedTime:     createdTime,
	}, isNewToken, nil
}

// RevokeJudgeToken drops the judge's token hash, used when a judge is deleted.
// The redis client is owned by Auth and closed there.
func (tm *TokenManager) RevokeJudgeToken(ctx context.Context, judgeID string) error {
	return tm.redis.Del(ctx, tm.judgeKey(judgeID)).Err()
}
