package app

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"
)

const (
	JudgeDeletePolicyKeep    = "keep"
	JudgeDeletePolicyCascade = "cascade"
)

type Config struct {
	Server struct {
		Port       string `toml:"port"`
		EnableAuth bool   `toml:"enable_auth"`
	} `toml:"server"`

	Auth struct {
		RedisURL         string `toml:"redis_url"`
		TokenHeader      string `toml:"token_header"`
		TokenKeyTemplate string `toml:"token_key_template"`
		AdminTokenKey    string `toml:"admin_token_key"`
	} `toml:"auth"`

	Database struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`

	Scoring struct {
		EnforceRange bool `toml:"enforce_range"`
		MinScore     int  `toml:"min_score"`
		MaxScore     int  `toml:"max_score"`
	} `toml:"scoring"`

	Retention struct {
		JudgeDeletePolicy string `toml:"judge_delete_policy"`
	} `toml:"retention"`

	Leaderboard struct {
		Limit int `toml:"limit"`
	} `toml:"leaderboard"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :9999")
	}

	if config.Retention.JudgeDeletePolicy == "" {
		config.Retention.JudgeDeletePolicy = JudgeDeletePolicyKeep
	}
	switch config.Retention.JudgeDeletePolicy {
	case JudgeDeletePolicyKeep, JudgeDeletePolicyCascade:
	default:
		return nil, fmt.Errorf(
			"unknown judge_delete_policy %q, want %q or %q",
			config.Retention.JudgeDeletePolicy,
			JudgeDeletePolicyKeep,
			JudgeDeletePolicyCascade,
		)
	}

	if config.Leaderboard.Limit <= 0 {
		config.Leaderboard.Limit = 10
	}

	logger.Debug.Printf("Loaded scoring config: %+v", config.Scoring)

	return &config, nil
}
