package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type AppConfig struct {
	SavePath     string
	StoreBackend string

	RedisURL    string
	RedisKey    string
	RedisTTLSec int

	DatabaseURL string

	StockfishPath string

	Difficulty string
	HumanColor string
	AIEnabled  bool

	MessageDir   string
	HistoryLimit int
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		StoreBackend: "file",
		Difficulty:   "hard",
		HumanColor:   "white",
		AIEnabled:    true,
		HistoryLimit: 10,
	}

	cfg.SavePath = strings.TrimSpace(os.Getenv("GAMBIT_SAVE_PATH"))
	if cfg.SavePath == "" {
		cfg.SavePath = defaultSavePath()
	}

	if v := strings.TrimSpace(os.Getenv("STORE_BACKEND")); v != "" {
		cfg.StoreBackend = strings.ToLower(v)
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.RedisKey = strings.TrimSpace(os.Getenv("REDIS_KEY"))
	if v := strings.TrimSpace(os.Getenv("REDIS_TTL")); v != "" { // seconds, 0 keeps the key forever
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RedisTTLSec = n
		}
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	cfg.StockfishPath = strings.TrimSpace(os.Getenv("STOCKFISH_PATH"))

	if v := strings.TrimSpace(os.Getenv("GAMBIT_DIFFICULTY")); v != "" {
		cfg.Difficulty = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("GAMBIT_HUMAN_COLOR")); v != "" {
		cfg.HumanColor = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("GAMBIT_AI_ENABLED")); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			cfg.AIEnabled = b
		}
	}

	cfg.MessageDir = strings.TrimSpace(os.Getenv("GAMBIT_MESSAGE_DIR"))
	if v := strings.TrimSpace(os.Getenv("GAMBIT_HISTORY_LIMIT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HistoryLimit = n
		}
	}

	if cfg.StoreBackend != "file" && cfg.StoreBackend != "redis" {
		return nil, errors.New("STORE_BACKEND must be file or redis")
	}
	if cfg.StoreBackend == "redis" && cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required for the redis backend")
	}
	if cfg.HumanColor != "white" && cfg.HumanColor != "black" {
		return nil, errors.New("GAMBIT_HUMAN_COLOR must be white or black")
	}

	return cfg, nil
}

func defaultSavePath() string {
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return "gambit_session.ini"
	}
	return filepath.Join(home, ".gambit", "session.ini")
}
