package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	LLM      LLMConfig
	OpenAI   OpenAIConfig
	GigaChat GigaChatConfig
	Search   SearchConfig
	Storage  StorageConfig
	RAG      RAGConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
}

// LLMConfig selects the answer-synthesis backend. Embeddings always go through OpenAI.
type LLMConfig struct {
	Provider string // "openai" or "gigachat"
}

type OpenAIConfig struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	BaseURL        string // optional override, e.g. for a proxy
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	InsecureSkipVerify bool
}

// SearchConfig configures the Google Programmable Search fallback.
type SearchConfig struct {
	APIKey     string
	EngineID   string
	MaxResults int
}

// StorageConfig configures the private object store holding manual media files.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLExpiry time.Duration
}

type RAGConfig struct {
	TopK          int
	MinSimilarity float64
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	// Missing .env is fine: environment variables are used directly (Docker/K8s).

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	maxConns, _ := strconv.Atoi(getEnv("DB_MAX_CONNS", "10"))
	searchMax, _ := strconv.Atoi(getEnv("SEARCH_MAX_RESULTS", "5"))
	urlExpiry, _ := strconv.Atoi(getEnv("STORAGE_URL_EXPIRY_MINUTES", "60"))
	topK, _ := strconv.Atoi(getEnv("RAG_TOP_K", "3"))
	minSimilarity, _ := strconv.ParseFloat(getEnv("RAG_MIN_SIMILARITY", "0.8"), 64)
	insecureSkipVerify := getEnv("GIGACHAT_INSECURE_SKIP_VERIFY", "true") == "true"
	storageSSL := getEnv("STORAGE_USE_SSL", "false") == "true"

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "crewassist"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: maxConns,
		},
		LLM: LLMConfig{
			Provider: getEnv("LLM_PROVIDER", "openai"),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			EmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			BaseURL:        getEnv("OPENAI_BASE_URL", ""),
		},
		GigaChat: GigaChatConfig{
			APIKey:             getEnv("GIGACHAT_API_KEY", ""),
			Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			InsecureSkipVerify: insecureSkipVerify,
		},
		Search: SearchConfig{
			APIKey:     getEnv("SEARCH_API_KEY", ""),
			EngineID:   getEnv("SEARCH_ENGINE_ID", ""),
			MaxResults: searchMax,
		},
		Storage: StorageConfig{
			Endpoint:  getEnv("STORAGE_ENDPOINT", ""),
			AccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey: getEnv("STORAGE_SECRET_KEY", ""),
			Bucket:    getEnv("STORAGE_BUCKET", "manual-media"),
			UseSSL:    storageSSL,
			URLExpiry: time.Duration(urlExpiry) * time.Minute,
		},
		RAG: RAGConfig{
			TopK:          topK,
			MinSimilarity: minSimilarity,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
