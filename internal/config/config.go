package config

import (
	"os"
	"time"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	Port   string
	APIKey string

	FAQFile     string
	ChatLogFile string

	SessionBackend string
	RedisAddr      string
	SessionTimeout time.Duration
}

// Load reads all settings from the environment. Only the API key has no
// default; the service still starts without it so / and /debug stay useful.
func Load() *Config {
	return &Config{
		Port:   getEnv("PORT", "3000"),
		APIKey: os.Getenv("OPENAI_API_KEY"),

		FAQFile:     os.Getenv("FAQ_FILE"),
		ChatLogFile: getEnv("CHAT_LOG_FILE", "chat.log"),

		SessionBackend: getEnv("SESSION_BACKEND", BackendMemory),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		SessionTimeout: getDurationEnv("SESSION_TIMEOUT", time.Hour),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
