package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Rag      RagConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	LLMProvider       string // "openai" or "ollama"
	LLMModel          string // e.g. "gpt-4o-mini", "llama3"
	EmbeddingProvider string // "openai" or "ollama"
	EmbeddingModel    string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OllamaBaseURL     string
}

// RagConfig holds the pipeline tuning knobs. Loaded once at startup and
// treated as immutable for the process lifetime.
type RagConfig struct {
	TopK                int
	RRFKConst           int
	RerankWindow        int
	ConfidenceThreshold float64
	ContextBudgetTokens int

	RetrievalTimeout time.Duration
	LiveFetchTimeout time.Duration
	LLMTimeout       time.Duration

	LiveFetchLimit int
	BlogSources    map[string]string // source name -> feed URL

	AnswerCacheTTL time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
			LLMModel:          getEnv("LLM_MODEL", "gpt-4o-mini"),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "openai"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Rag: RagConfig{
			TopK:                getEnvAsInt("RAG_TOP_K", 10),
			RRFKConst:           getEnvAsInt("RAG_RRF_K_CONST", 60),
			RerankWindow:        getEnvAsInt("RAG_RERANK_WINDOW", 50),
			ConfidenceThreshold: getEnvAsFloat("RAG_CONFIDENCE_THRESHOLD", 0.4),
			ContextBudgetTokens: getEnvAsInt("RAG_CONTEXT_BUDGET_TOKENS", 2000),
			RetrievalTimeout:    getEnvAsDuration("RAG_RETRIEVAL_TIMEOUT", 2*time.Second),
			LiveFetchTimeout:    getEnvAsDuration("RAG_LIVE_FETCH_TIMEOUT", 10*time.Second),
			LLMTimeout:          getEnvAsDuration("RAG_LLM_TIMEOUT", 15*time.Second),
			LiveFetchLimit:      getEnvAsInt("RAG_LIVE_FETCH_LIMIT", 5),
			BlogSources:         parseBlogSources(getEnv("RAG_BLOG_SOURCES", defaultBlogSources)),
			AnswerCacheTTL:      getEnvAsDuration("RAG_ANSWER_CACHE_TTL", 10*time.Minute),
		},
	}
}

// defaultBlogSources mirrors the hub's default live sources.
const defaultBlogSources = "openai=https://openai.com/blog/rss.xml,anthropic=https://www.anthropic.com/news/rss.xml"

// parseBlogSources parses "name=url,name=url" pairs.
func parseBlogSources(raw string) map[string]string {
	sources := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
			sources[strings.ToLower(parts[0])] = parts[1]
		}
	}
	return sources
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
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
