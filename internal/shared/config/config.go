package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	DatabaseURL     string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	DBConnLifetime  time.Duration
	DBPingTimeout   time.Duration

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	LLM LLMConfig
}

// LLMConfig selects and tunes the model provider used by generation. PromptID names the
// stored prompt template to prefer and PromptsFile is a JSON array of stored templates.
// TransportRetries is how many times a 5xx or timeout is retried; zero disables it.
type LLMConfig struct {
	Provider         string
	Model            string
	Temperature      float64
	MaxOutputTokens  int
	Timeout          time.Duration
	MonthlyTokenCap  int64
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	GeminiAPIKey     string
	PromptID         string
	PromptsFile      string
	TransportRetries int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	llm := LLMConfig{
		Provider:         normalizeProvider(getEnv("LLM_PROVIDER", "")),
		Model:            getEnv("LLM_MODEL", ""),
		Temperature:      getFloat("LLM_TEMPERATURE", 0.7),
		MaxOutputTokens:  getInt("LLM_MAX_OUTPUT_TOKENS", 2000),
		Timeout:          time.Duration(getInt("LLM_TIMEOUT_SECONDS", 60)) * time.Second,
		MonthlyTokenCap:  int64(getInt("LLM_MONTHLY_TOKEN_CAP", 0)),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		PromptID:         getEnv("LLM_PROMPT", ""),
		PromptsFile:      getEnv("LLM_PROMPTS_FILE", ""),
		TransportRetries: getInt("LLM_TRANSPORT_RETRIES", 0),
	}
	if llm.Provider == "" {
		llm.Provider = inferProvider(llm)
	}
	if llm.Model == "" {
		llm.Model = defaultModel(llm.Provider)
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		DatabaseURL:     dbURL,
		DBMaxOpenConns:  getInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:  getInt("DB_MAX_IDLE_CONNS", 5),
		DBConnLifetime:  time.Duration(getInt("DB_CONN_MAX_LIFETIME_MIN", 30)) * time.Minute,
		DBPingTimeout:   time.Duration(getInt("DB_PING_TIMEOUT_SECONDS", 5)) * time.Second,
		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("S3_REGION", getEnv("AWS_REGION", "")),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("S3_KMS_KEY_ID", ""),
		LLM:             llm,
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return v
}

func getFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using %g", key, raw, def)
		return def
	}
	return v
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	case "gemini", "google":
		return "gemini"
	case "mock", "none":
		return "mock"
	default:
		return ""
	}
}

// inferProvider picks the provider whose key is configured, falling back to the mock path.
func inferProvider(c LLMConfig) string {
	switch {
	case c.OpenAIAPIKey != "":
		return "openai"
	case c.GeminiAPIKey != "":
		return "gemini"
	default:
		return "mock"
	}
}

func defaultModel(provider string) string {
	switch provider {
	case "gemini":
		return "gemini-1.5-flash"
	case "openai":
		return "gpt-4o-mini"
	default:
		return "mock"
	}
}
