// Package config loads process configuration from the environment and an
// optional .env file, following a getEnvOrDefault + explicit Validate()
// convention.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/renohub/core/internal/domain"
)

// Config is the full process configuration tree.
type Config struct {
	Database        DatabaseConfig
	DefaultBotToken string
	AIProvider      AIProviderConfig
	MentionGate     MentionGateConfig
	SkillsDir       string
	AdminUserIDs    []int64
	AdminKey        string
	LogLevel        string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// ProviderKind is the tagged variant selecting which AI backend to talk to.
type ProviderKind string

const (
	ProviderAzure            ProviderKind = "azure"
	ProviderOpenAI           ProviderKind = "openai"
	ProviderOpenAICompatible ProviderKind = "openai_compatible"
)

// AIProviderConfig enumerates the fields each provider variant requires —
// each variant lists its required configuration fields explicitly.
type AIProviderConfig struct {
	Kind ProviderKind

	ChatEndpoint string
	ChatAPIKey   string
	ChatModel    string

	EmbeddingEndpoint string // defaults to ChatEndpoint when empty
	EmbeddingAPIKey   string // defaults to ChatAPIKey when empty
	EmbeddingModel    string
	EmbeddingDim      int

	STTEndpoint string // optional; not read by aiclient, whose Transcribe checks STTAPIKey only
	STTAPIKey   string
	STTModel    string

	VisionModel string // chat model used for image description, may equal ChatModel

	// Azure-specific
	AzureAPIVersion string
}

func (c AIProviderConfig) Validate() error {
	if strings.TrimSpace(string(c.Kind)) == "" {
		return domain.Configuration("AI_PROVIDER is required")
	}
	switch c.Kind {
	case ProviderAzure, ProviderOpenAI, ProviderOpenAICompatible:
	default:
		return domain.Configuration(fmt.Sprintf("unknown AI_PROVIDER %q", c.Kind))
	}
	if c.ChatAPIKey == "" {
		return domain.Configuration("AI chat API key is required")
	}
	if c.ChatModel == "" {
		return domain.Configuration("AI chat model is required")
	}
	if c.Kind == ProviderAzure && c.ChatEndpoint == "" {
		return domain.Configuration("azure provider requires an endpoint")
	}
	if c.Kind == ProviderOpenAICompatible && c.ChatEndpoint == "" {
		return domain.Configuration("openai_compatible provider requires an endpoint")
	}
	if c.EmbeddingDim <= 0 {
		return domain.Configuration("AI_EMBEDDING_DIM must be positive")
	}
	return nil
}

// EffectiveEmbeddingEndpoint returns EmbeddingEndpoint, falling back to
// ChatEndpoint.
func (c AIProviderConfig) EffectiveEmbeddingEndpoint() string {
	if c.EmbeddingEndpoint != "" {
		return c.EmbeddingEndpoint
	}
	return c.ChatEndpoint
}

func (c AIProviderConfig) EffectiveEmbeddingAPIKey() string {
	if c.EmbeddingAPIKey != "" {
		return c.EmbeddingAPIKey
	}
	return c.ChatAPIKey
}

// MentionGateConfig controls the group-chat directed-message filter.
type MentionGateConfig struct {
	Enabled        bool
	CustomPatterns []string
}

// Load reads a .env file if present (missing file is not an error, matching
// godotenv.Load's own semantics) then builds Config from the environment.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return Config{}, domain.Configuration(fmt.Sprintf("loading %s: %v", envFile, err))
		}
	} else {
		_ = godotenv.Load() // best-effort default .env
	}

	port, err := strconv.Atoi(getEnvOrDefault("DB_PORT", "5432"))
	if err != nil {
		return Config{}, domain.Configuration("invalid DB_PORT: " + err.Error())
	}
	maxConns, _ := strconv.Atoi(getEnvOrDefault("DB_MAX_CONNS", "15")) // 5 + overflow headroom
	minConns, _ := strconv.Atoi(getEnvOrDefault("DB_MIN_CONNS", "5"))
	connLifetime, err := time.ParseDuration(getEnvOrDefault("DB_CONN_MAX_LIFETIME", "1h"))
	if err != nil {
		return Config{}, domain.Configuration("invalid DB_CONN_MAX_LIFETIME: " + err.Error())
	}

	embeddingDim, _ := strconv.Atoi(getEnvOrDefault("AI_EMBEDDING_DIM", "1536"))

	cfg := Config{
		Database: DatabaseConfig{
			Host:            getEnvOrDefault("DB_HOST", "localhost"),
			Port:            port,
			User:            getEnvOrDefault("DB_USER", "renohub"),
			Password:        os.Getenv("DB_PASSWORD"),
			Database:        getEnvOrDefault("DB_NAME", "renohub"),
			SSLMode:         getEnvOrDefault("DB_SSLMODE", "disable"),
			MaxConns:        int32(maxConns),
			MinConns:        int32(minConns),
			ConnMaxLifetime: connLifetime,
		},
		DefaultBotToken: os.Getenv("DEFAULT_BOT_TOKEN"),
		AIProvider: AIProviderConfig{
			Kind:              ProviderKind(getEnvOrDefault("AI_PROVIDER", string(ProviderOpenAI))),
			ChatEndpoint:      os.Getenv("AI_CHAT_ENDPOINT"),
			ChatAPIKey:        os.Getenv("AI_CHAT_API_KEY"),
			ChatModel:         getEnvOrDefault("AI_CHAT_MODEL", "gpt-4o-mini"),
			EmbeddingEndpoint: os.Getenv("AI_EMBEDDING_ENDPOINT"),
			EmbeddingAPIKey:   os.Getenv("AI_EMBEDDING_API_KEY"),
			EmbeddingModel:    getEnvOrDefault("AI_EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDim:      embeddingDim,
			STTEndpoint:       os.Getenv("AI_STT_ENDPOINT"),
			STTAPIKey:         os.Getenv("AI_STT_API_KEY"),
			STTModel:          getEnvOrDefault("AI_STT_MODEL", "whisper-1"),
			VisionModel:       getEnvOrDefault("AI_VISION_MODEL", "gpt-4o-mini"),
			AzureAPIVersion:   getEnvOrDefault("AI_AZURE_API_VERSION", "2024-06-01"),
		},
		MentionGate: MentionGateConfig{
			Enabled:        getEnvOrDefault("MENTION_GATE_ENABLED", "true") != "false",
			CustomPatterns: splitCSV(os.Getenv("MENTION_GATE_PATTERNS")),
		},
		SkillsDir:    os.Getenv("SKILLS_DIR"),
		AdminUserIDs: parseInt64CSV(os.Getenv("ADMIN_USER_IDS")),
		AdminKey:     os.Getenv("ADMIN_API_KEY"),
		LogLevel:     getEnvOrDefault("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field invariants and fails fast at startup.
func (c Config) Validate() error {
	if c.Database.Password == "" {
		return domain.Configuration("DB_PASSWORD is required")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return domain.Configuration("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if c.AdminKey == "" {
		return domain.Configuration("ADMIN_API_KEY is required for the admin HTTP API")
	}
	// AI provider config is validated in full by aiclient.New at startup;
	// here we only fail fast if it's been explicitly half-configured.
	if c.AIProvider.ChatAPIKey != "" {
		if err := c.AIProvider.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseInt64CSV(raw string) []int64 {
	strs := splitCSV(raw)
	out := make([]int64, 0, len(strs))
	for _, s := range strs {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}
