package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cohere   CohereConfig
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
}

type CohereConfig struct {
	APIKey     string
	BaseURL    string
	EmbedModel string
	ChatModel  string
	MaxTokens  int
	Timeout    time.Duration
}

// ChunkProfile is a splitter configuration: target chunk size and the number
// of trailing characters carried over into the next chunk.
type ChunkProfile struct {
	Size    int
	Overlap int
}

type RAGConfig struct {
	TopK           int
	SearchTopK     int
	MaxBatchSize   int
	MinBestScore   float64
	MinAvgScore    float64
	SnippetLength  int
	ContextPreview int
	LongProfile    ChunkProfile
	ShortProfile   ChunkProfile
	Keywords       KeywordSets
}

// KeywordSets holds the recognized keyword lists, one per routing or
// classification decision. Defaults are built in; a YAML file referenced by
// RAG_KEYWORDS_FILE may replace any of the lists without a code change.
type KeywordSets struct {
	NoteIntent       []string `yaml:"note_intent"`
	Normativa        []string `yaml:"normativa"`
	Procedimiento    []string `yaml:"procedimiento"`
	ProtocoloReclamo []string `yaml:"protocolo_reclamo"` // all must match the title
	Autoridad        []string `yaml:"autoridad"`
	Regularizacion   []string `yaml:"regularizacion"`
	ForbiddenTerms   []string `yaml:"forbidden_terms"`
}

func defaultKeywordSets() KeywordSets {
	return KeywordSets{
		NoteIntent: []string{
			"nota",
			"presentar nota",
			"nota formal",
			"nota de reclamo",
			"nota para reclamo",
			"escribir nota",
			"carta",
			"como hago la nota",
		},
		Normativa:        []string{"codigo", "tributario"},
		Procedimiento:    []string{"guia"},
		ProtocoloReclamo: []string{"art", "25"},
		Autoridad:        []string{"autoridad"},
		Regularizacion:   []string{"plan"},
		ForbiddenTerms: []string{
			"artículo",
			"ordenanza",
			"ley",
			"decreto",
			"según normativa vigente",
		},
	}
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	// Without a .env file plain environment variables still apply
	// (useful for Docker/K8s).

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	cohereTimeout, _ := strconv.Atoi(getEnv("COHERE_TIMEOUT", "60"))

	keywords := defaultKeywordSets()
	if path := os.Getenv("RAG_KEYWORDS_FILE"); path != "" {
		if err := overlayKeywordSets(path, &keywords); err != nil {
			return nil, fmt.Errorf("failed to load keyword sets from %s: %w", path, err)
		}
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8000"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "asistente_tributario"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Cohere: CohereConfig{
			APIKey:     getEnv("COHERE_API_KEY", ""),
			BaseURL:    getEnv("COHERE_BASE_URL", "https://api.cohere.com"),
			EmbedModel: getEnv("COHERE_EMBED_MODEL", "embed-multilingual-v3.0"),
			ChatModel:  getEnv("COHERE_CHAT_MODEL", "command-r-plus-08-2024"),
			MaxTokens:  getEnvInt("COHERE_MAX_TOKENS", 400),
			Timeout:    time.Duration(cohereTimeout) * time.Second,
		},
		RAG: RAGConfig{
			TopK:           getEnvInt("RAG_TOP_K", 5),
			SearchTopK:     getEnvInt("RAG_SEARCH_TOP_K", 3),
			MaxBatchSize:   getEnvInt("RAG_MAX_BATCH_SIZE", 90),
			MinBestScore:   getEnvFloat("RAG_MIN_BEST_SCORE", 0.45),
			MinAvgScore:    getEnvFloat("RAG_MIN_AVG_SCORE", 0.35),
			SnippetLength:  getEnvInt("RAG_SNIPPET_LENGTH", 200),
			ContextPreview: getEnvInt("RAG_CONTEXT_PREVIEW", 400),
			LongProfile: ChunkProfile{
				Size:    getEnvInt("RAG_LONG_CHUNK_SIZE", 3000),
				Overlap: getEnvInt("RAG_LONG_CHUNK_OVERLAP", 350),
			},
			ShortProfile: ChunkProfile{
				Size:    getEnvInt("RAG_SHORT_CHUNK_SIZE", 500),
				Overlap: getEnvInt("RAG_SHORT_CHUNK_OVERLAP", 80),
			},
			Keywords: keywords,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

// overlayKeywordSets replaces the default lists with any non-empty list found
// in the YAML file. Lists absent from the file keep their defaults.
func overlayKeywordSets(path string, keywords *KeywordSets) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var overlay KeywordSets
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return err
	}

	if len(overlay.NoteIntent) > 0 {
		keywords.NoteIntent = overlay.NoteIntent
	}
	if len(overlay.Normativa) > 0 {
		keywords.Normativa = overlay.Normativa
	}
	if len(overlay.Procedimiento) > 0 {
		keywords.Procedimiento = overlay.Procedimiento
	}
	if len(overlay.ProtocoloReclamo) > 0 {
		keywords.ProtocoloReclamo = overlay.ProtocoloReclamo
	}
	if len(overlay.Autoridad) > 0 {
		keywords.Autoridad = overlay.Autoridad
	}
	if len(overlay.Regularizacion) > 0 {
		keywords.Regularizacion = overlay.Regularizacion
	}
	if len(overlay.ForbiddenTerms) > 0 {
		keywords.ForbiddenTerms = overlay.ForbiddenTerms
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
