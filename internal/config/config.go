package config

import (
	"log"
	"os"
	"time"
)

type Config struct {
	Port string

	// StorageBackend selects "memory", "sqlite" or "firestore".
	StorageBackend string
	SQLitePath     string

	GCPProjectID string
	GCPLocation  string
	ModelName    string
	UseMockLLM   bool // true = use the scripted mock instead of Gemini

	// DefaultUserID stands in for authentication: every request acts as
	// this user until real auth lands.
	DefaultUserID string

	// ChatTimeout bounds one whole /chat request, both model round trips
	// included.
	ChatTimeout time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "TRUE"
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("ignoring invalid %s=%q: %v", key, v, err)
		return def
	}
	return d
}

// Load reads all env vars and builds the config.
func Load() *Config {
	cfg := &Config{
		Port: getEnv("PLANNER_PORT", "8080"),

		StorageBackend: getEnv("PLANNER_STORAGE_BACKEND", "memory"),
		SQLitePath:     getEnv("PLANNER_SQLITE_PATH", "planner.db"),

		GCPProjectID: getEnv("PLANNER_GCP_PROJECT", ""),
		GCPLocation:  getEnv("PLANNER_GCP_LOCATION", "us-central1"),
		ModelName:    getEnv("PLANNER_MODEL_NAME", "gemini-2.5-flash"),
		UseMockLLM:   getBoolEnv("PLANNER_USE_MOCK_LLM", false),

		DefaultUserID: getEnv("PLANNER_DEFAULT_USER", "demo-user"),

		ChatTimeout: getDurationEnv("PLANNER_CHAT_TIMEOUT", 60*time.Second),
	}

	if cfg.StorageBackend == "firestore" && cfg.GCPProjectID == "" {
		log.Fatal("PLANNER_GCP_PROJECT must be set for the firestore backend")
	}

	return cfg
}
