package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr          string
	DBPath              string
	ImagePath           string
	SuggestBackend      string
	SuggestRPS          float64
	OllamaHost          string
	OllamaModel         string
	ClaudeAPIKey        string
	ClaudeModel         string
	ClerkPublishableKey string
	RateLimitRPS        float64
	RateLimitBurst      int
	LogLevel            string
	LogFile             string
}

// Load reads the configuration from the environment after applying any .env
// files. Variables already set in the environment win over file values.
func Load() (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	suggestRPS, err := getEnvFloat("SUGGEST_RPS", 1)
	if err != nil {
		return nil, err
	}
	rateRPS, err := getEnvFloat("RATE_LIMIT_RPS", 5)
	if err != nil {
		return nil, err
	}
	rateBurst, err := getEnvInt("RATE_LIMIT_BURST", 10)
	if err != nil {
		return nil, err
	}

	return &Config{
		ListenAddr:          getEnv("LISTEN_ADDR", ":8080"),
		DBPath:              getEnv("DB_PATH", "/data/groupr.db"),
		ImagePath:           getEnv("IMAGE_LOCAL_PATH", "/data/images"),
		SuggestBackend:      getEnv("SUGGEST_BACKEND", "none"),
		SuggestRPS:          suggestRPS,
		OllamaHost:          getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:         getEnv("OLLAMA_MODEL", "llama3.2"),
		ClaudeAPIKey:        getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:         getEnv("CLAUDE_MODEL", "claude-haiku-4-5"),
		ClerkPublishableKey: getEnv("CLERK_PUBLISHABLE_KEY", ""),
		RateLimitRPS:        rateRPS,
		RateLimitBurst:      rateBurst,
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFile:             getEnv("LOG_FILE", ""),
	}, nil
}

// loadEnvFiles loads ENV_FILE alone when it is set, otherwise .env.local and
// then .env. Missing files are not an error.
func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}
	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	val, exists := os.LookupEnv(key)
	if !exists || val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, val, err)
	}
	return f, nil
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val, exists := os.LookupEnv(key)
	if !exists || val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, val, err)
	}
	return n, nil
}
