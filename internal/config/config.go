package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Index    IndexConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	IndexLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
	OtelEnabled        bool
}

type DatabaseConfig struct {
	Connection string
	LogLevel   string
}

type APIKeys struct {
	GoogleGemini string
	Jina         string
	OpenAI       string
}

type AIConfig struct {
	EmbeddingProvider   string // gemini, ollama, jina, openai or none
	OllamaBaseURL       string
	OllamaModel         string
	OpenAIBaseURL       string
	OpenAIModel         string
	EmbeddingDimensions int
	EmbeddingRateLimit  float64 // requests per second, 0 disables
	EmbeddingCacheSize  int
}

type IndexConfig struct {
	VectorProvider string // pgvector, memory or none
	ChunkSize      int
	ChunkOverlap   int
	TopicName      string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			IndexLogFilePath:   getEnv("INDEX_LOG_FILE_PATH", "logs/indexer.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			LogLevel:   getEnv("DB_LOG_LEVEL", "warn"),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Jina:         getEnv("JINA_API_KEY", ""),
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider:   getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:       getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:         getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", ""),
			OpenAIModel:         getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDimensions: getEnvAsInt("EMBEDDING_DIMENSIONS", 768),
			EmbeddingRateLimit:  getEnvAsFloat("EMBEDDING_RATE_LIMIT", 5),
			EmbeddingCacheSize:  getEnvAsInt("EMBEDDING_CACHE_SIZE", 1000),
		},
		Index: IndexConfig{
			VectorProvider: getEnv("VECTOR_INDEX_PROVIDER", "pgvector"),
			ChunkSize:      getEnvAsInt("CHUNK_SIZE", 500),
			ChunkOverlap:   getEnvAsInt("CHUNK_OVERLAP", 50),
			TopicName:      getEnv("INDEX_TOPIC_NAME", "AI_SEARCH_INDEX"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
