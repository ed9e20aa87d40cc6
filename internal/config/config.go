package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Query    QueryConfig
	Session  SessionConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	UploadLogFilePath  string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	MaxUploadBytes     int
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	JwtSecret     string
	WebhookSecret string
	GoogleGemini  string
	HuggingFace   string
	ReportTopic   string
}

type AIConfig struct {
	LLMProvider        string // "gemini", "ollama" or "huggingface"
	LLMModel           string
	LLMBaseURL         string
	TranscriptionModel string
}

type QueryConfig struct {
	Timezone       string
	PageSize       int
	HistoryCap     int
	RecordLimit    int
	ThresholdsFile string
}

type SessionConfig struct {
	Store string // "memory" or "redis"
	TTL   time.Duration
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			UploadLogFilePath:  getEnv("UPLOAD_LOG_FILE_PATH", "logs/uploads.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			MaxUploadBytes:     getEnvAsInt("MAX_UPLOAD_BYTES", 20<<20),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			JwtSecret:     getEnv("JWT_SECRET", ""),
			WebhookSecret: getEnv("WEBHOOK_SECRET", ""),
			GoogleGemini:  getEnv("GOOGLE_GEMINI_API_KEY", ""),
			HuggingFace:   getEnv("HUGGINGFACE_API_KEY", ""),
			ReportTopic:   getEnv("REPORT_TOPIC_NAME", "CREATE_REPORT"),
		},
		Ai: AIConfig{
			LLMProvider:        getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:           getEnv("LLM_MODEL", ""),
			LLMBaseURL:         getEnv("LLM_BASE_URL", ""),
			TranscriptionModel: getEnv("TRANSCRIPTION_MODEL", ""),
		},
		Query: QueryConfig{
			Timezone:       getEnv("QUERY_TIMEZONE", "America/Lima"),
			PageSize:       getEnvAsInt("QUERY_PAGE_SIZE", 10),
			HistoryCap:     getEnvAsInt("QUERY_HISTORY_CAP", 20),
			RecordLimit:    getEnvAsInt("QUERY_RECORD_LIMIT", 1000),
			ThresholdsFile: getEnv("THRESHOLDS_FILE", ""),
		},
		Session: SessionConfig{
			Store: getEnv("SESSION_STORE", "memory"),
			TTL:   getEnvAsDuration("SESSION_TTL", 0),
		},
		Tracing: TracingConfig{
			Enabled:     getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "mondichat-backend"),
		},
	}
}

// Location resolves the query timezone, falling back to UTC.
func (q QueryConfig) Location() *time.Location {
	loc, err := time.LoadLocation(q.Timezone)
	if err != nil {
		log.Printf("[WARN] Unknown QUERY_TIMEZONE %q, using UTC: %v", q.Timezone, err)
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
