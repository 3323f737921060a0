// internal/app/auth.go
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/shrimpsizemoose/trekker/logger"
)

type Auth struct {
	enabled       bool
	redis         *redis.Client
	keyTemplate   string
	adminTokenKey string
	tokenHeader   string
}

func NewAuth(config *Config) (*Auth, error) {
	if !config.Server.EnableAuth {
		return &Auth{enabled: false}, nil
	}

	opt, err := redis.ParseURL(config.Auth.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Auth{
		enabled:       true,
		redis:         client,
		keyTemplate:   config.Auth.TokenKeyTemplate,
		adminTokenKey: config.Auth.AdminTokenKey,
		tokenHeader:   config.Auth.TokenHeader,
	}, nil
}

func (a *Auth) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

// Redis returns the underlying client so the token manager can share the
// connection. Nil when auth is disabled.
func (a *Auth) Redis() *redis.Client {
	return a.redis
}

func (a *Auth) ValidateJudgeToken(ctx context.Context, judgeID, token string) error {
	if !a.enabled {
		return nil
	}

	key := strings.NewReplacer(
		"{judge}", judgeID,
	).Replace(a.keyTemplate)

	fields, err := a.redis.HGetAll(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug.Printf("Token not found for key: %s", key)
		return fmt.Errorf("token not found")
	}
	if err != nil {
		logger.Debug.Printf("Redis error: %v", err)
		return fmt.Errorf("redis error: %w", err)
	}

	if fields["token"] != token {
		logger.Debug.Printf("Token mismatch for judge %s and what's found in %s", judgeID, key)
		return fmt.Errorf("invalid token")
	}

	return nil
}

func (a *Auth) ValidateAdminToken(ctx context.Context, token string) error {
	if !a.enabled {
		return nil
	}

	want, err := a.redis.HGet(ctx, a.adminTokenKey, "token").Result()
	if err == redis.Nil {
		return fmt.Errorf("admin token not provisioned")
	}
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}

	if want != token {
		return fmt.Errorf("invalid admin token")
	}

	return nil
}
