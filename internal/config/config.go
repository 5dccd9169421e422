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
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	JWTSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini       string
	Groq               string
	GoogleSearch       string
	GoogleSearchEngine string // Programmable Search Engine ID (cx)
	IngestTopic        string // Embedding pipeline topic
}

type AIConfig struct {
	EmbeddingProvider  string // "gemini" or "ollama"
	OllamaBaseURL      string
	OllamaModel        string
	EmbeddingDimension int
	LLMProvider        string // "groq" or "ollama"
	LLMModel           string // e.g. "llama3-8b-8192", "qwen2.5"
	ChunkSize          int
	TopK               int
	ContextMaxChars    int
	MinSimilarity      float64
	WebSearchEnabled   bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini:       getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Groq:               getEnv("GROQ_API_KEY", ""),
			GoogleSearch:       getEnv("GOOGLE_SEARCH_API_KEY", ""),
			GoogleSearchEngine: getEnv("GOOGLE_SEARCH_ENGINE_ID", ""),
			IngestTopic:        getEnv("INGEST_DOCUMENT_TOPIC_NAME", "INGEST_DOCUMENT"),
		},
		Ai: AIConfig{
			EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:        getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			EmbeddingDimension: getEnvAsInt("EMBEDDING_DIMENSION", 768),
			LLMProvider:        getEnv("LLM_PROVIDER", "groq"),
			LLMModel:           getEnv("LLM_MODEL", "llama3-8b-8192"),
			ChunkSize:          getEnvAsInt("CHUNK_SIZE", 1000),
			TopK:               getEnvAsInt("RETRIEVAL_TOP_K", 5),
			ContextMaxChars:    getEnvAsInt("CONTEXT_MAX_CHARS", 30000),
			MinSimilarity:      getEnvAsFloat("RETRIEVAL_MIN_SIMILARITY", -1),
			WebSearchEnabled:   getEnvAsBool("WEB_SEARCH_ENABLED", false),
		},
	}
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
