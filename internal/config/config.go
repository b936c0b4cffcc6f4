package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath  string
	OutPath string

	FundAPIBaseURL   string
	FundTimeoutMs    int
	FundRateLimitRPS int

	TopN       int
	NavSleepMs int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:  getEnv("DB_PATH", filepath.Join(cwd, "data", "fundlist.db")),
		OutPath: getEnv("OUT_PATH", filepath.Join("outputs", "fundlist.xlsx")),

		FundAPIBaseURL:   getEnv("FUND_API_BASE_URL", "https://api.fundlist.example/v1"),
		FundTimeoutMs:    getEnvInt("FUND_API_TIMEOUT_MS", 30000),
		FundRateLimitRPS: getEnvInt("FUND_RATE_LIMIT_RPS", 5),

		TopN:       getEnvInt("TOP_N", 1000),
		NavSleepMs: getEnvInt("NAV_SLEEP_MS", 30),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
